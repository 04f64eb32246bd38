package ai

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/practice"
)

const (
	defaultTestCount = 5
	mindmapSuffix    = " - Mindmap"
	testSuffix       = " - Practice Test"
)

type (
	// TestRequest asks for a generated practice test.
	TestRequest struct {
		ChapterID  string `json:"chapterId" validate:"required"`
		Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		Count      int    `json:"count" validate:"min=0,max=20"`
	}

	GuideRequest struct {
		ChapterID string `json:"chapterId" validate:"required"`
		Query     string `json:"query" validate:"required,notblank"`
	}

	GuideAnswer struct {
		Query        string `json:"query"`
		Response     string `json:"response"`
		ChapterTitle string `json:"chapterTitle"`
	}

	TagResult struct {
		QuestionID string   `json:"questionId"`
		Title      string   `json:"title,omitempty"`
		Tags       []string `json:"tags,omitempty"`
		Success    bool     `json:"success"`
		Error      string   `json:"error,omitempty"`
	}

	AutoTagReport struct {
		ChapterID      string      `json:"chapterId"`
		TotalQuestions int         `json:"totalQuestions"`
		Tagged         int         `json:"tagged"`
		Results        []TagResult `json:"results"`
	}

	// Service generates study aids for the user's chapters and stores them.
	Service struct {
		provider *Provider
		chapters *chapter.Service
		practice *practice.Service
	}
)

func (tr *TestRequest) Validate(validate *validator.Validate) error {
	tr.ChapterID = core.CleanString(tr.ChapterID)
	tr.Difficulty = core.CleanString(tr.Difficulty, true /* lower */)
	if err := validate.Struct(tr); err != nil {
		return err
	}
	if tr.Difficulty == "" {
		tr.Difficulty = chapter.DifficultyMedium
	}
	if tr.Count == 0 {
		tr.Count = defaultTestCount
	}
	return nil
}

func (gr *GuideRequest) Validate(validate *validator.Validate) error {
	gr.ChapterID = core.CleanString(gr.ChapterID)
	gr.Query = core.CleanString(gr.Query)
	return validate.Struct(gr)
}

func NewService(provider *Provider, chapters *chapter.Service, practiceSvc *practice.Service) *Service {
	return &Service{provider: provider, chapters: chapters, practice: practiceSvc}
}

// ownedChapter hides chapters of other users behind chapter.ErrChapterNotFound.
func (svc *Service) ownedChapter(ctx context.Context, chapterID, userID string) (chapter.Chapter, error) {
	ch, err := svc.chapters.GetOwned(ctx, chapterID, userID)
	if err != nil {
		if errors.Cause(err) == core.ErrPermissionDenied {
			return chapter.Chapter{}, chapter.ErrChapterNotFound
		}
		return chapter.Chapter{}, err
	}
	return ch, nil
}

func (svc *Service) chapterContent(ctx context.Context, chapterID, userID string) (chapter.Chapter, string, []string, error) {
	ch, err := svc.ownedChapter(ctx, chapterID, userID)
	if err != nil {
		return chapter.Chapter{}, "", nil, err
	}
	questions, err := svc.chapters.QueryQuestions(ctx, ch.ID, userID)
	if err != nil {
		return chapter.Chapter{}, "", nil, errors.Wrap(err, "querying chapter questions")
	}
	content, tags := ChapterContent(questions)
	return ch, content, tags, nil
}

// GenerateMindmap builds a mindmap of the chapter and replaces the previous one.
func (svc *Service) GenerateMindmap(ctx context.Context, chapterID, userID string) (practice.Mindmap, error) {
	ch, content, _, err := svc.chapterContent(ctx, chapterID, userID)
	if err != nil {
		return practice.Mindmap{}, err
	}
	fullContent := ch.Description + "\n\n" + content

	g := svc.provider.Mindmap(ctx, ch.Title, fullContent)
	return svc.practice.SaveMindmap(ctx, practice.Mindmap{
		Title:         ch.Title + mindmapSuffix,
		ChapterID:     ch.ID,
		UserID:        userID,
		Nodes:         g.Nodes,
		Edges:         g.Edges,
		GeneratedFrom: practice.FromChapter,
		RawData:       fullContent,
	})
}

// GenerateTest builds a practice test of the chapter and replaces the previous one.
func (svc *Service) GenerateTest(ctx context.Context, userID string, tr TestRequest) (practice.Test, error) {
	ch, content, tags, err := svc.chapterContent(ctx, tr.ChapterID, userID)
	if err != nil {
		return practice.Test{}, err
	}

	questions := svc.provider.TestQuestions(ctx, ch.Title, content, tr.Difficulty, tr.Count, tags)
	return svc.practice.SaveTest(ctx, practice.Test{
		Title:       ch.Title + testSuffix,
		ChapterID:   ch.ID,
		UserID:      userID,
		Questions:   questions,
		GeneratedBy: practice.GeneratedByAI,
	})
}

func (svc *Service) Guide(ctx context.Context, userID string, gr GuideRequest) (GuideAnswer, error) {
	ch, content, _, err := svc.chapterContent(ctx, gr.ChapterID, userID)
	if err != nil {
		return GuideAnswer{}, err
	}
	return GuideAnswer{
		Query:        gr.Query,
		Response:     svc.provider.StudyGuide(ctx, ch.Title, content, gr.Query),
		ChapterTitle: ch.Title,
	}, nil
}

func (svc *Service) Suggestions(ctx context.Context, chapterID, userID string) (Suggestions, error) {
	ch, content, _, err := svc.chapterContent(ctx, chapterID, userID)
	if err != nil {
		return Suggestions{}, err
	}
	return svc.provider.Suggestions(ctx, ch.Title, content), nil
}

func (svc *Service) tagQuestion(ctx context.Context, q chapter.Question, userID string) ([]string, error) {
	tags, err := svc.provider.ExtractTags(ctx, q.Title, core.StripHTML(q.Logic.Content), q.Code.Content)
	if err != nil {
		return nil, err
	}
	if _, err = svc.chapters.SetQuestionTags(ctx, q.ID, userID, tags); err != nil {
		return nil, errors.Wrap(err, "saving question tags")
	}
	return tags, nil
}

// ExtractTags tags one of the user's questions and saves the tags.
func (svc *Service) ExtractTags(ctx context.Context, questionID, userID string) (TagResult, error) {
	q, err := svc.chapters.GetQuestion(ctx, questionID, userID)
	if err != nil {
		if errors.Cause(err) == core.ErrPermissionDenied {
			return TagResult{}, chapter.ErrQuestionNotFound
		}
		return TagResult{}, err
	}
	tags, err := svc.tagQuestion(ctx, q, userID)
	if err != nil {
		return TagResult{}, err
	}
	return TagResult{QuestionID: q.ID, Tags: tags, Success: true}, nil
}

// AutoTagChapter tags every question of the chapter, one after the other.
// A failing question is reported in its result and does not stop the others.
func (svc *Service) AutoTagChapter(ctx context.Context, chapterID, userID string) (AutoTagReport, error) {
	ch, err := svc.ownedChapter(ctx, chapterID, userID)
	if err != nil {
		return AutoTagReport{}, err
	}
	questions, err := svc.chapters.QueryQuestions(ctx, ch.ID, userID)
	if err != nil {
		return AutoTagReport{}, errors.Wrap(err, "querying chapter questions")
	}

	report := AutoTagReport{ChapterID: ch.ID, TotalQuestions: len(questions), Results: make([]TagResult, 0, len(questions))}
	for _, q := range questions {
		if err = ctx.Err(); err != nil {
			return AutoTagReport{}, err
		}
		res := TagResult{QuestionID: q.ID, Title: q.Title}
		if tags, err := svc.tagQuestion(ctx, q, userID); err != nil {
			res.Error = errors.Cause(err).Error()
		} else {
			res.Tags = tags
			res.Success = true
			report.Tagged++
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
