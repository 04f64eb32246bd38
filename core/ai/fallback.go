package ai

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/trezcool/dotcoder/core/practice"
)

const (
	fallbackMaxTopics   = 8
	fallbackBranchCount = 3
	centerX, centerY    = 400.0, 300.0
	branchRadius        = 180.0
	leafRadius          = 280.0

	studyGuideFallback = `I couldn't generate a response right now. Please check the AI configuration.

**Troubleshooting:**
1. Make sure GROQ_API_KEY is set in the backend environment
2. Get a free API key from: https://console.groq.com/
3. Restart the backend server after updating the key`
)

type problem struct {
	source string
	url    string
	tags   []string
}

var (
	defaultProblem = problem{"LeetCode", "https://leetcode.com/problems/two-sum/", []string{"arrays", "hash-table"}}

	// checked in order, first match wins
	keywordProblems = []struct {
		keywords []string
		problem  problem
	}{
		{[]string{"array"}, problem{"LeetCode", "https://leetcode.com/problems/best-time-to-buy-and-sell-stock/", []string{"arrays", "dynamic-programming"}}},
		{[]string{"string"}, problem{"LeetCode", "https://leetcode.com/problems/valid-anagram/", []string{"strings", "hash-table"}}},
		{[]string{"dynamic", "dp"}, problem{"LeetCode", "https://leetcode.com/problems/climbing-stairs/", []string{"dynamic-programming", "recursion"}}},
		{[]string{"tree"}, problem{"LeetCode", "https://leetcode.com/problems/maximum-depth-of-binary-tree/", []string{"trees", "dfs", "recursion"}}},
		{[]string{"graph"}, problem{"LeetCode", "https://leetcode.com/problems/number-of-islands/", []string{"graphs", "bfs", "dfs"}}},
		{[]string{"linked", "list"}, problem{"LeetCode", "https://leetcode.com/problems/reverse-linked-list/", []string{"linked-list", "recursion"}}},
	}

	fallbackSuggestions = Suggestions{
		Suggestions: []Suggestion{
			{Type: "enhancement", Icon: "💡", Text: "Consider adding more examples to illustrate key concepts"},
			{Type: "topic", Icon: "📚", Text: "Explore related topics to deepen understanding"},
			{Type: "tip", Icon: "✨", Text: "Review this material regularly for better retention"},
		},
	}
)

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func startsWithASCIILetter(s string) bool {
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// FallbackMindmap lays out up to 8 distinct words of content around a root node.
// The first 3 words become branches (radius 180), the others leaves (radius 280) hanging off node-0.
func FallbackMindmap(title, content string) practice.Graph {
	words := make([]string, 0, fallbackMaxTopics)
	seen := make(map[string]bool)
	for _, w := range strings.Fields(content) {
		if utf8.RuneCountInString(w) <= 4 || !startsWithASCIILetter(w) || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
		if len(words) == fallbackMaxTopics {
			break
		}
	}

	rootLabel := title
	if rootLabel == "" {
		rootLabel = "Main Topic"
	}
	g := practice.Graph{
		Nodes: []practice.Node{{ID: "root", Label: rootLabel, Type: practice.NodeRoot, X: centerX, Y: centerY}},
		Edges: make([]practice.Edge, 0, len(words)),
	}

	for i, w := range words {
		angle := float64(i) / float64(len(words)) * 2 * math.Pi
		node := practice.Node{ID: fmt.Sprintf("node-%d", i), Label: capitalize(w), Type: practice.NodeLeaf}
		radius, source := leafRadius, "node-0"
		if i < fallbackBranchCount {
			node.Type = practice.NodeBranch
			radius, source = branchRadius, "root"
		}
		node.X = centerX + math.Cos(angle)*radius
		node.Y = centerY + math.Sin(angle)*radius
		g.Nodes = append(g.Nodes, node)
		g.Edges = append(g.Edges, practice.Edge{Source: source, Target: node.ID})
	}
	return g
}

func matchProblem(topic string) problem {
	lower := strings.ToLower(topic)
	for _, kp := range keywordProblems {
		for _, kw := range kp.keywords {
			if strings.Contains(lower, kw) {
				return kp.problem
			}
		}
	}
	return defaultProblem
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FallbackQuestions builds `count` concept questions from the content lines longer than 10 characters,
// each linked to a canned problem matching its keywords. The title stands in when lines run out.
func FallbackQuestions(title, content, difficulty string, count int) []practice.TestQuestion {
	topics := make([]string, 0, count)
	for _, line := range strings.Split(content, "\n") {
		if len(topics) == count {
			break
		}
		if line = strings.TrimSpace(line); utf8.RuneCountInString(line) > 10 {
			topics = append(topics, line)
		}
	}

	questions := make([]practice.TestQuestion, 0, count)
	for i := 0; i < count; i++ {
		topic := title
		if i < len(topics) {
			topic = topics[i]
		}
		p := matchProblem(topic)
		questions = append(questions, practice.TestQuestion{
			Question:   fmt.Sprintf("Explain the concept: %s...", truncate(topic, 100)),
			Source:     p.source,
			SourceURL:  p.url,
			Solution:   "Review your notes on this topic and explain it in your own words.",
			Difficulty: difficulty,
			Tags:       append([]string(nil), p.tags...),
		})
	}
	return questions
}
