package ai

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/practice"
)

const (
	defaultSource = "AI Generated"
	tagAttempts   = 2
	minTags       = 2
)

// ErrTagExtraction is returned when the model failed to tag a question twice in a row.
var ErrTagExtraction = errors.New("AI tag extraction failed after 2 attempts. Please check your API key or try again.")

type (
	Suggestion struct {
		Type string `json:"type"`
		Icon string `json:"icon"`
		Text string `json:"text"`
	}

	Suggestions struct {
		Suggestions []Suggestion `json:"suggestions"`
	}

	// Provider turns study material into prompts, and model replies into app data.
	// Every generator but ExtractTags degrades to a deterministic fallback instead of failing.
	Provider struct {
		chat   ChatCompleter
		logger core.Logger
	}
)

func NewProvider(chat ChatCompleter, logger core.Logger) *Provider {
	return &Provider{chat: chat, logger: logger}
}

func (p *Provider) ask(ctx context.Context, prompt string) (string, error) {
	return p.chat.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}})
}

func (p *Provider) warn(op string, err error) {
	p.logger.Warn(fmt.Sprintf("ai.%s: falling back: %v", op, err), err)
}

// Mindmap asks the model for a mindmap of the content.
func (p *Provider) Mindmap(ctx context.Context, title, content string) practice.Graph {
	reply, err := p.ask(ctx, mindmapPrompt(title, content))
	if err != nil {
		p.warn("Mindmap", err)
		return FallbackMindmap(title, content)
	}

	var g practice.Graph
	if err = DecodeReply(reply, '{', &g); err != nil {
		p.warn("Mindmap", err)
		return FallbackMindmap(title, content)
	}
	if len(g.Nodes) == 0 {
		p.warn("Mindmap", errors.New("no nodes in reply"))
		return FallbackMindmap(title, content)
	}
	for i := range g.Nodes {
		if g.Nodes[i].Type == "" {
			g.Nodes[i].Type = practice.NodeBranch
		}
	}
	if g.Edges == nil {
		g.Edges = []practice.Edge{}
	}
	return g
}

// TestQuestions asks the model for `count` practice questions, each linked to a similar online problem.
func (p *Provider) TestQuestions(ctx context.Context, title, content, difficulty string, count int, tags []string) []practice.TestQuestion {
	reply, err := p.ask(ctx, testQuestionsPrompt(title, content, difficulty, count, tags))
	if err != nil {
		p.warn("TestQuestions", err)
		return FallbackQuestions(title, content, difficulty, count)
	}

	var generated []practice.TestQuestion
	if err = DecodeReply(reply, '[', &generated); err != nil {
		p.warn("TestQuestions", err)
		return FallbackQuestions(title, content, difficulty, count)
	}

	questions := make([]practice.TestQuestion, 0, len(generated))
	for _, q := range generated {
		if q.Question = core.CleanString(q.Question); q.Question == "" {
			continue
		}
		if q.Source = core.CleanString(q.Source); q.Source == "" {
			q.Source = defaultSource
		}
		switch q.Difficulty = core.CleanString(q.Difficulty, true /* lower */); q.Difficulty {
		case chapter.DifficultyEasy, chapter.DifficultyMedium, chapter.DifficultyHard:
		default:
			q.Difficulty = difficulty
		}
		q.Tags = core.CleanTags(q.Tags, true /* lower */)
		q.IsCompleted = false
		questions = append(questions, q)
		if len(questions) == count {
			break
		}
	}
	if len(questions) == 0 {
		p.warn("TestQuestions", errors.New("no usable question in reply"))
		return FallbackQuestions(title, content, difficulty, count)
	}
	return questions
}

// StudyGuide answers the student's query in the context of their notes.
func (p *Provider) StudyGuide(ctx context.Context, title, content, query string) string {
	reply, err := p.ask(ctx, studyGuidePrompt(title, content, query))
	if err != nil {
		p.warn("StudyGuide", err)
		return studyGuideFallback
	}
	return reply
}

// Suggestions asks the model how the notes could be improved.
func (p *Provider) Suggestions(ctx context.Context, title, content string) Suggestions {
	reply, err := p.ask(ctx, suggestionsPrompt(title, content))
	if err != nil {
		p.warn("Suggestions", err)
		return fallbackSuggestions
	}

	var s Suggestions
	if err = DecodeReply(reply, '{', &s); err != nil {
		p.warn("Suggestions", err)
		return fallbackSuggestions
	}
	if len(s.Suggestions) == 0 {
		p.warn("Suggestions", errors.New("no suggestion in reply"))
		return fallbackSuggestions
	}
	return s
}

// ExtractTags asks the model for concept tags of a question, retrying once.
// It needs at least 2 usable tags; there is no fallback.
func (p *Provider) ExtractTags(ctx context.Context, title, logic, code string) ([]string, error) {
	prompt := tagsPrompt(title, logic, code)

	for attempt := 1; attempt <= tagAttempts; attempt++ {
		reply, err := p.ask(ctx, prompt)
		if err != nil {
			if errors.Cause(err) == ErrNotConfigured {
				return nil, err
			}
			p.logger.Warn(fmt.Sprintf("ai.ExtractTags: attempt %d failed: %v", attempt, err), err)
			continue
		}

		var raw []interface{}
		if err = DecodeReply(reply, '[', &raw); err != nil {
			p.logger.Warn(fmt.Sprintf("ai.ExtractTags: attempt %d failed: %v", attempt, err), err)
			continue
		}
		tags := make([]string, 0, len(raw))
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		if tags = core.CleanTags(tags, true /* lower */); len(tags) >= minTags {
			return tags, nil
		}
		p.logger.Warn(fmt.Sprintf("ai.ExtractTags: attempt %d returned %d tags", attempt, len(tags)))
	}
	return nil, ErrTagExtraction
}
