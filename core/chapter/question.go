package chapter

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dotcoder/core"
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	defaultLanguage = "javascript"
)

type Logic struct {
	Content   string `json:"content"`
	IsVisible bool   `json:"isVisible"`
}

type Code struct {
	Content   string `json:"content"`
	Language  string `json:"language"`
	IsVisible bool   `json:"isVisible"`
}

type Question struct {
	ID         string    `json:"id"`
	ChapterID  string    `json:"chapter"`
	UserID     string    `json:"user"`
	Title      string    `json:"title"`
	Logic      Logic     `json:"logic"`
	Code       Code      `json:"code"`
	Order      int       `json:"order"`
	Link       string    `json:"link"`
	Tags       []string  `json:"tags"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type LogicInput struct {
	Content   *string `json:"content"`
	IsVisible *bool   `json:"isVisible"`
}

type CodeInput struct {
	Content   *string `json:"content"`
	Language  *string `json:"language"`
	IsVisible *bool   `json:"isVisible"`
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	ChapterID  string      `json:"chapterId" validate:"required"`
	Title      string      `json:"title" validate:"required,max=200"`
	Logic      *LogicInput `json:"logic"`
	Code       *CodeInput  `json:"code"`
	Tags       []string    `json:"tags"`
	Difficulty string      `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Link       string      `json:"link"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.ChapterID = core.CleanString(nq.ChapterID)
	nq.Title = core.CleanString(nq.Title)
	nq.Link = core.CleanString(nq.Link)
	nq.Difficulty = core.CleanString(nq.Difficulty, true /* lower */)
	nq.Tags = core.CleanTags(nq.Tags)
	return validate.Struct(nq)
}

func (nq NewQuestion) question() Question {
	q := Question{
		ChapterID:  nq.ChapterID,
		Title:      nq.Title,
		Logic:      Logic{IsVisible: true},
		Code:       Code{Language: defaultLanguage, IsVisible: true},
		Link:       nq.Link,
		Tags:       nq.Tags,
		Difficulty: nq.Difficulty,
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	if nq.Logic != nil && nq.Logic.Content != nil {
		q.Logic.Content = *nq.Logic.Content
	}
	if nq.Code != nil {
		if nq.Code.Content != nil {
			q.Code.Content = *nq.Code.Content
		}
		if nq.Code.Language != nil && *nq.Code.Language != "" {
			q.Code.Language = *nq.Code.Language
		}
	}
	return q
}

// UpdateQuestion defines what information may be provided to modify an existing Question.
// logic and code are merged field by field; a blank title or difficulty keeps the current one.
type UpdateQuestion struct {
	Title      string      `json:"title" validate:"max=200"`
	Logic      *LogicInput `json:"logic"`
	Code       *CodeInput  `json:"code"`
	Tags       []string    `json:"tags"`
	Difficulty string      `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Link       *string     `json:"link"`
}

func (uq *UpdateQuestion) Validate(validate *validator.Validate) error {
	uq.Title = core.CleanString(uq.Title)
	uq.Difficulty = core.CleanString(uq.Difficulty, true /* lower */)
	if uq.Tags != nil {
		uq.Tags = core.CleanTags(uq.Tags)
	}
	return validate.Struct(uq)
}

func (uq UpdateQuestion) apply(q Question) Question {
	if uq.Title != "" {
		q.Title = uq.Title
	}
	if uq.Logic != nil {
		if uq.Logic.Content != nil {
			q.Logic.Content = *uq.Logic.Content
		}
		if uq.Logic.IsVisible != nil {
			q.Logic.IsVisible = *uq.Logic.IsVisible
		}
	}
	if uq.Code != nil {
		if uq.Code.Content != nil {
			q.Code.Content = *uq.Code.Content
		}
		if uq.Code.Language != nil && *uq.Code.Language != "" {
			q.Code.Language = *uq.Code.Language
		}
		if uq.Code.IsVisible != nil {
			q.Code.IsVisible = *uq.Code.IsVisible
		}
	}
	if uq.Tags != nil {
		q.Tags = uq.Tags
	}
	if uq.Difficulty != "" {
		q.Difficulty = uq.Difficulty
	}
	if uq.Link != nil {
		q.Link = core.CleanString(*uq.Link)
	}
	return q
}
