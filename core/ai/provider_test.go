package ai_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/practice"
	logsvc "github.com/trezcool/dotcoder/services/logger"
)

type scriptedChat struct {
	replies []string
	errs    []error
	prompts []string
}

func (c *scriptedChat) Chat(_ context.Context, messages []ai.Message) (string, error) {
	c.prompts = append(c.prompts, messages[len(messages)-1].Content)
	i := len(c.prompts) - 1
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.replies) {
		return c.replies[i], nil
	}
	return "", ai.ErrNotConfigured
}

func newProvider(chat *scriptedChat) *ai.Provider {
	return ai.NewProvider(chat, logsvc.NewNopLogger())
}

func TestProvider_Mindmap(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		chat := &scriptedChat{replies: []string{"Here is your mindmap:\n```json\n" +
			`{"nodes": [{"id": "root", "label": "Go", "type": "root", "x": 400, "y": 300}, {"id": "n1", "label": "Channels"}]}` +
			"\n```"}}
		g := newProvider(chat).Mindmap(context.Background(), "Go", "Channels and goroutines")

		require.Len(t, g.Nodes, 2)
		assert.Equal(t, practice.NodeRoot, g.Nodes[0].Type)
		assert.Equal(t, practice.NodeBranch, g.Nodes[1].Type)
		assert.Equal(t, []practice.Edge{}, g.Edges)
		require.Len(t, chat.prompts, 1)
		assert.Contains(t, chat.prompts[0], "Channels and goroutines")
	})

	tests := []struct {
		name string
		chat *scriptedChat
	}{
		{name: "not configured", chat: &scriptedChat{}},
		{name: "garbage", chat: &scriptedChat{replies: []string{"no idea"}}},
		{name: "no nodes", chat: &scriptedChat{replies: []string{`{"nodes": [], "edges": []}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newProvider(tt.chat).Mindmap(context.Background(), "Go", "Channels and goroutines")
			assert.Equal(t, ai.FallbackMindmap("Go", "Channels and goroutines"), g)
		})
	}
}

func TestProvider_TestQuestions(t *testing.T) {
	reply := `[
		{"question": "  Reverse a list  ", "source": "", "difficulty": "HARD", "tags": ["Lists", "lists", " "], "isCompleted": true},
		{"question": "   "},
		{"question": "Detect a cycle", "source": "LeetCode", "difficulty": "impossible"},
		{"question": "One too many"}
	]`
	chat := &scriptedChat{replies: []string{reply}}
	questions := newProvider(chat).TestQuestions(context.Background(), "Lists", "content", "medium", 2, []string{"lists"})

	require.Len(t, questions, 2)
	assert.Equal(t, "Reverse a list", questions[0].Question)
	assert.Equal(t, "AI Generated", questions[0].Source)
	assert.Equal(t, "hard", questions[0].Difficulty)
	assert.Equal(t, []string{"lists"}, questions[0].Tags)
	assert.False(t, questions[0].IsCompleted)
	assert.Equal(t, "Detect a cycle", questions[1].Question)
	assert.Equal(t, "medium", questions[1].Difficulty)

	t.Run("fallback", func(t *testing.T) {
		chat := &scriptedChat{replies: []string{`[{"question": ""}]`}}
		questions := newProvider(chat).TestQuestions(context.Background(), "Lists", "content", "easy", 3, nil)
		assert.Equal(t, ai.FallbackQuestions("Lists", "content", "easy", 3), questions)
	})
}

func TestProvider_StudyGuideAndSuggestions(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		"Use two pointers.",
		`Sure: {"suggestions": [{"type": "tip", "icon": "✨", "text": "Add diagrams"}]}`,
	}}
	p := newProvider(chat)

	assert.Equal(t, "Use two pointers.", p.StudyGuide(context.Background(), "Arrays", "notes", "How?"))
	s := p.Suggestions(context.Background(), "Arrays", "notes")
	assert.Equal(t, ai.Suggestions{Suggestions: []ai.Suggestion{{Type: "tip", Icon: "✨", Text: "Add diagrams"}}}, s)

	// both degrade when the model is unavailable
	p = newProvider(&scriptedChat{})
	assert.Contains(t, p.StudyGuide(context.Background(), "Arrays", "notes", "How?"), "GROQ_API_KEY")
	s = p.Suggestions(context.Background(), "Arrays", "notes")
	assert.Len(t, s.Suggestions, 3)
}

func TestProvider_ExtractTags(t *testing.T) {
	errTimeout := errors.New("timeout")

	tests := []struct {
		name      string
		chat      *scriptedChat
		want      []string
		wantErr   error
		wantCalls int
	}{
		{
			name:      "first attempt",
			chat:      &scriptedChat{replies: []string{"```json\n[\"Arrays\", \"Two-Pointers\", \"arrays\"]\n```"}},
			want:      []string{"arrays", "two-pointers"},
			wantCalls: 1,
		},
		{
			name:      "retry after too few tags",
			chat:      &scriptedChat{replies: []string{`["arrays", 3]`, `["arrays", "sorting"]`}},
			want:      []string{"arrays", "sorting"},
			wantCalls: 2,
		},
		{
			name:      "retry after transport error",
			chat:      &scriptedChat{errs: []error{errTimeout}, replies: []string{"", `["graphs", "bfs"]`}},
			want:      []string{"graphs", "bfs"},
			wantCalls: 2,
		},
		{
			name:      "gives up after 2 attempts",
			chat:      &scriptedChat{replies: []string{"nope", "still nope"}},
			wantErr:   ai.ErrTagExtraction,
			wantCalls: 2,
		},
		{
			name:      "not configured is not retried",
			chat:      &scriptedChat{},
			wantErr:   ai.ErrNotConfigured,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := newProvider(tt.chat).ExtractTags(context.Background(), "Two sum", "use a map", "")
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, tags)
			}
			assert.Len(t, tt.chat.prompts, tt.wantCalls)
		})
	}
}
