package chapter

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
)

var (
	// errors
	ErrChapterNotFound  = errors.New("Chapter not found")
	ErrQuestionNotFound = errors.New("Question not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryChapters returns the user's chapters sorted by order ASC, createdAt DESC.
		QueryChapters(ctx context.Context, userID string) ([]Chapter, error)
		GetChapter(ctx context.Context, id string) (Chapter, error)
		// CreateChapter appends the chapter after the user's last one (order = max + 1, 0 when none).
		CreateChapter(ctx context.Context, ch Chapter) (Chapter, error)
		UpdateChapter(ctx context.Context, ch Chapter) (Chapter, error)
		// DeleteChapter also deletes the chapter's questions, tests and mindmaps.
		DeleteChapter(ctx context.Context, id string) error
		// ReorderChapters only touches chapters owned by userID.
		ReorderChapters(ctx context.Context, userID string, items []ReorderItem) error

		// QueryQuestions returns the chapter's questions sorted by order ASC, createdAt DESC.
		QueryQuestions(ctx context.Context, chapterID string) ([]Question, error)
		GetQuestion(ctx context.Context, id string) (Question, error)
		// CreateQuestion appends the question to its chapter and refreshes the chapter's questionCount atomically.
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		UpdateQuestion(ctx context.Context, q Question) (Question, error)
		// DeleteQuestion removes the question and refreshes its chapter's questionCount atomically.
		DeleteQuestion(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Chapters

func (svc *Service) Query(ctx context.Context, userID string) ([]Chapter, error) {
	return svc.repo.QueryChapters(ctx, userID)
}

// GetOwned returns the chapter if it belongs to userID.
// Fails with ErrChapterNotFound or core.ErrPermissionDenied.
func (svc *Service) GetOwned(ctx context.Context, id, userID string) (Chapter, error) {
	ch, err := svc.repo.GetChapter(ctx, id)
	if err != nil {
		return Chapter{}, err
	}
	if ch.UserID != userID {
		return Chapter{}, core.ErrPermissionDenied
	}
	return ch, nil
}

// Get returns the owned chapter along with its questions.
func (svc *Service) Get(ctx context.Context, id, userID string) (Detail, error) {
	ch, err := svc.GetOwned(ctx, id, userID)
	if err != nil {
		return Detail{}, err
	}
	questions, err := svc.repo.QueryQuestions(ctx, ch.ID)
	if err != nil {
		return Detail{}, errors.Wrap(err, "querying chapter questions")
	}
	return Detail{Chapter: ch, Questions: questions}, nil
}

func (svc *Service) Create(ctx context.Context, userID string, nc NewChapter) (Chapter, error) {
	now := nowFunc().UTC()
	ch := Chapter{
		Title:       nc.Title,
		Description: nc.Description,
		UserID:      userID,
		Color:       nc.Color,
		Icon:        nc.Icon,
		Tags:        nc.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ch.Icon == "" {
		ch.Icon = defaultIcon
	}
	if ch.Tags == nil {
		ch.Tags = []string{}
	}
	return svc.repo.CreateChapter(ctx, ch)
}

func (svc *Service) Update(ctx context.Context, id, userID string, uc UpdateChapter) (Chapter, error) {
	ch, err := svc.GetOwned(ctx, id, userID)
	if err != nil {
		return Chapter{}, err
	}
	ch = uc.apply(ch)
	ch.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateChapter(ctx, ch)
}

func (svc *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := svc.GetOwned(ctx, id, userID); err != nil {
		return err
	}
	return svc.repo.DeleteChapter(ctx, id)
}

// Reorder applies the new orders to the user's chapters and returns them sorted.
func (svc *Service) Reorder(ctx context.Context, userID string, items []ReorderItem) ([]Chapter, error) {
	if err := svc.repo.ReorderChapters(ctx, userID, items); err != nil {
		return nil, errors.Wrap(err, "reordering chapters")
	}
	return svc.repo.QueryChapters(ctx, userID)
}

// Questions

func (svc *Service) QueryQuestions(ctx context.Context, chapterID, userID string) ([]Question, error) {
	if _, err := svc.GetOwned(ctx, chapterID, userID); err != nil {
		return nil, err
	}
	return svc.repo.QueryQuestions(ctx, chapterID)
}

// GetQuestion returns the question if it belongs to userID.
// Fails with ErrQuestionNotFound or core.ErrPermissionDenied.
func (svc *Service) GetQuestion(ctx context.Context, id, userID string) (Question, error) {
	q, err := svc.repo.GetQuestion(ctx, id)
	if err != nil {
		return Question{}, err
	}
	if q.UserID != userID {
		return Question{}, core.ErrPermissionDenied
	}
	return q, nil
}

func (svc *Service) CreateQuestion(ctx context.Context, userID string, nq NewQuestion) (Question, error) {
	if _, err := svc.GetOwned(ctx, nq.ChapterID, userID); err != nil {
		return Question{}, err
	}

	now := nowFunc().UTC()
	q := nq.question()
	q.UserID = userID
	q.CreatedAt = now
	q.UpdatedAt = now
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return svc.repo.CreateQuestion(ctx, q)
}

func (svc *Service) UpdateQuestion(ctx context.Context, id, userID string, uq UpdateQuestion) (Question, error) {
	q, err := svc.GetQuestion(ctx, id, userID)
	if err != nil {
		return Question{}, err
	}
	q = uq.apply(q)
	q.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateQuestion(ctx, q)
}

func (svc *Service) ToggleLogic(ctx context.Context, id, userID string) (Question, error) {
	q, err := svc.GetQuestion(ctx, id, userID)
	if err != nil {
		return Question{}, err
	}
	q.Logic.IsVisible = !q.Logic.IsVisible
	q.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateQuestion(ctx, q)
}

func (svc *Service) ToggleCode(ctx context.Context, id, userID string) (Question, error) {
	q, err := svc.GetQuestion(ctx, id, userID)
	if err != nil {
		return Question{}, err
	}
	q.Code.IsVisible = !q.Code.IsVisible
	q.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateQuestion(ctx, q)
}

// SetQuestionTags replaces the tags of an owned question.
func (svc *Service) SetQuestionTags(ctx context.Context, id, userID string, tags []string) (Question, error) {
	q, err := svc.GetQuestion(ctx, id, userID)
	if err != nil {
		return Question{}, err
	}
	q.Tags = core.CleanTags(tags, true /* lower */)
	q.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateQuestion(ctx, q)
}

func (svc *Service) DeleteQuestion(ctx context.Context, id, userID string) error {
	if _, err := svc.GetQuestion(ctx, id, userID); err != nil {
		return err
	}
	return svc.repo.DeleteQuestion(ctx, id)
}
