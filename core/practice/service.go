package practice

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrTestNotFound         = errors.New("Test not found")
	ErrMindmapNotFound      = errors.New("No mindmap found for this chapter")
	ErrInvalidQuestionIndex = errors.New("Invalid question index")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// ReplaceMindmap deletes the user's mindmaps of the chapter and saves m, atomically.
		ReplaceMindmap(ctx context.Context, m Mindmap) (Mindmap, error)
		// GetLatestMindmap returns the user's newest mindmap of the chapter.
		GetLatestMindmap(ctx context.Context, chapterID, userID string) (Mindmap, error)

		// ReplaceTest deletes the user's tests of the chapter and saves t, atomically.
		ReplaceTest(ctx context.Context, t Test) (Test, error)
		// QueryTests returns the user's tests of the chapter sorted by createdAt DESC.
		QueryTests(ctx context.Context, chapterID, userID string) ([]Test, error)
		GetTest(ctx context.Context, id string) (Test, error)
		// SetTestQuestionCompleted flips one question flag and rescores the test in the same transaction.
		SetTestQuestionCompleted(ctx context.Context, testID string, index int, completed bool) (Test, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveMindmap replaces the chapter's mindmap with a freshly generated one.
func (svc *Service) SaveMindmap(ctx context.Context, m Mindmap) (Mindmap, error) {
	now := nowFunc().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	if m.GeneratedFrom == "" {
		m.GeneratedFrom = FromChapter
	}
	if m.Nodes == nil {
		m.Nodes = []Node{}
	}
	if m.Edges == nil {
		m.Edges = []Edge{}
	}
	return svc.repo.ReplaceMindmap(ctx, m)
}

func (svc *Service) GetMindmap(ctx context.Context, chapterID, userID string) (Mindmap, error) {
	return svc.repo.GetLatestMindmap(ctx, chapterID, userID)
}

// SaveTest replaces the chapter's test with a freshly generated one, scored 0 / len(questions).
func (svc *Service) SaveTest(ctx context.Context, t Test) (Test, error) {
	now := nowFunc().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	if t.GeneratedBy == "" {
		t.GeneratedBy = GeneratedByAI
	}
	for i := range t.Questions {
		t.Questions[i].IsCompleted = false
	}
	t.Score = Score{Completed: 0, Total: len(t.Questions)}
	t.Status = StatusPending
	return svc.repo.ReplaceTest(ctx, t)
}

func (svc *Service) QueryTests(ctx context.Context, chapterID, userID string) ([]Test, error) {
	return svc.repo.QueryTests(ctx, chapterID, userID)
}

// SetQuestionCompleted marks one question of the user's test (not) completed.
func (svc *Service) SetQuestionCompleted(ctx context.Context, testID, userID string, index int, completed bool) (Test, error) {
	t, err := svc.repo.GetTest(ctx, testID)
	if err != nil {
		return Test{}, err
	}
	if t.UserID != userID {
		return Test{}, ErrTestNotFound
	}
	if index < 0 || index >= len(t.Questions) {
		return Test{}, ErrInvalidQuestionIndex
	}
	return svc.repo.SetTestQuestionCompleted(ctx, testID, index, completed)
}
