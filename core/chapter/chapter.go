package chapter

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dotcoder/core"
)

const defaultIcon = "📚"

type Chapter struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	UserID        string    `json:"user"`
	Order         int       `json:"order"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	Tags          []string  `json:"tags"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Detail is a Chapter with its questions fetched.
type Detail struct {
	Chapter
	Questions []Question `json:"questions"`
}

// NewChapter contains information needed to create a new Chapter.
type NewChapter struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags"`
}

func (nc *NewChapter) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Tags = core.CleanTags(nc.Tags)
	return validate.Struct(nc)
}

// UpdateChapter defines what information may be provided to modify an existing Chapter.
// A blank title keeps the current one.
type UpdateChapter struct {
	Title       string   `json:"title" validate:"max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Color       *string  `json:"color"`
	Icon        *string  `json:"icon"`
	Tags        []string `json:"tags"`
	Order       *int     `json:"order" validate:"omitempty,min=0"`
}

func (uc *UpdateChapter) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	if uc.Description != nil {
		desc := core.CleanString(*uc.Description)
		uc.Description = &desc
	}
	if uc.Tags != nil {
		uc.Tags = core.CleanTags(uc.Tags)
	}
	return validate.Struct(uc)
}

func (uc UpdateChapter) apply(ch Chapter) Chapter {
	if uc.Title != "" {
		ch.Title = uc.Title
	}
	if uc.Description != nil {
		ch.Description = *uc.Description
	}
	if uc.Color != nil {
		ch.Color = *uc.Color
	}
	if uc.Icon != nil {
		ch.Icon = *uc.Icon
	}
	if uc.Tags != nil {
		ch.Tags = uc.Tags
	}
	if uc.Order != nil {
		ch.Order = *uc.Order
	}
	return ch
}

type ReorderItem struct {
	ID    string `json:"id" validate:"required"`
	Order int    `json:"order" validate:"min=0"`
}

type Reorder struct {
	Chapters []ReorderItem `json:"chapters" validate:"required,dive"`
}

func (r *Reorder) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
