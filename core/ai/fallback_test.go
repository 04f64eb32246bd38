package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/practice"
)

func TestFallbackMindmap(t *testing.T) {
	content := "Graphs connect nodes with edges. Traversal uses queues or stacks. 42things ignored Graphs extra"
	g := FallbackMindmap("Graphs 101", content)

	require.Len(t, g.Nodes, 9)
	require.Len(t, g.Edges, 8)

	root := g.Nodes[0]
	assert.Equal(t, practice.Node{ID: "root", Label: "Graphs 101", Type: practice.NodeRoot, X: 400, Y: 300}, root)

	labels := make([]string, 0, 8)
	for _, n := range g.Nodes[1:] {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"Graphs", "Connect", "Nodes", "Edges.", "Traversal", "Queues", "Stacks.", "Ignored"}, labels)

	for i, n := range g.Nodes[1:] {
		edge := g.Edges[i]
		assert.Equal(t, n.ID, edge.Target)
		if i < 3 {
			assert.Equal(t, practice.NodeBranch, n.Type)
			assert.Equal(t, "root", edge.Source)
		} else {
			assert.Equal(t, practice.NodeLeaf, n.Type)
			assert.Equal(t, "node-0", edge.Source)
		}
	}

	first := g.Nodes[1]
	assert.InDelta(t, 580, first.X, 1e-9)
	assert.InDelta(t, 300, first.Y, 1e-9)

	leaf := g.Nodes[4] // node-3, at 3/8 of the circle
	assert.InDelta(t, 400+math.Cos(3*math.Pi/4)*280, leaf.X, 1e-9)
	assert.InDelta(t, 300+math.Sin(3*math.Pi/4)*280, leaf.Y, 1e-9)
}

func TestFallbackMindmap_empty(t *testing.T) {
	g := FallbackMindmap("", "a an the")

	assert.Equal(t, []practice.Node{{ID: "root", Label: "Main Topic", Type: practice.NodeRoot, X: 400, Y: 300}}, g.Nodes)
	assert.Equal(t, []practice.Edge{}, g.Edges)
}

func TestFallbackQuestions(t *testing.T) {
	content := "short\n  Arrays and two pointers technique  \nTrees are recursive structures\n"
	questions := FallbackQuestions("DSA", content, "hard", 3)

	require.Len(t, questions, 3)
	tests := []struct {
		question string
		url      string
		tags     []string
	}{
		{"Explain the concept: Arrays and two pointers technique...", "https://leetcode.com/problems/best-time-to-buy-and-sell-stock/", []string{"arrays", "dynamic-programming"}},
		{"Explain the concept: Trees are recursive structures...", "https://leetcode.com/problems/maximum-depth-of-binary-tree/", []string{"trees", "dfs", "recursion"}},
		{"Explain the concept: DSA...", "https://leetcode.com/problems/two-sum/", []string{"arrays", "hash-table"}},
	}
	for i, tt := range tests {
		q := questions[i]
		assert.Equal(t, tt.question, q.Question)
		assert.Equal(t, "LeetCode", q.Source)
		assert.Equal(t, tt.url, q.SourceURL)
		assert.Equal(t, tt.tags, q.Tags)
		assert.Equal(t, "hard", q.Difficulty)
		assert.False(t, q.IsCompleted)
	}

	// canned tags are copied, not shared
	questions[2].Tags[0] = "changed"
	assert.Equal(t, "arrays", defaultProblem.tags[0])
}

func TestFallbackQuestions_truncatesTopics(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "graph "
	}
	questions := FallbackQuestions("Graphs", long, "medium", 1)

	require.Len(t, questions, 1)
	assert.Equal(t, "Explain the concept: "+long[:100]+"...", questions[0].Question)
	assert.Equal(t, "https://leetcode.com/problems/number-of-islands/", questions[0].SourceURL)
}
