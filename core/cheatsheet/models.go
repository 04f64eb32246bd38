package cheatsheet

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dotcoder/core"
)

const (
	defaultColor = "#10b981"
	defaultIcon  = "📋"
)

type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	QuestionLinks string   `json:"questionLinks"`
	AnswerLinks   string   `json:"answerLinks"`
	Tags          []string `json:"tags"`
	Order         int      `json:"order"`
}

type Cheatsheet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	UserID      string    `json:"user"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Items       []Item    `json:"items"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (cs Cheatsheet) maxItemOrder() int {
	max := -1
	for _, it := range cs.Items {
		if it.Order > max {
			max = it.Order
		}
	}
	return max
}

type NewItem struct {
	Title         string   `json:"title" validate:"required"`
	Content       string   `json:"content"`
	QuestionLinks string   `json:"questionLinks"`
	AnswerLinks   string   `json:"answerLinks"`
	Tags          []string `json:"tags"`
	Order         *int     `json:"order"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Title = core.CleanString(ni.Title)
	ni.Tags = core.CleanTags(ni.Tags)
	return validate.Struct(ni)
}

// UpdateItem merges the provided fields into an existing Item.
type UpdateItem struct {
	Title         string   `json:"title"`
	Content       *string  `json:"content"`
	QuestionLinks *string  `json:"questionLinks"`
	AnswerLinks   *string  `json:"answerLinks"`
	Tags          []string `json:"tags"`
	Order         *int     `json:"order"`
}

func (ui *UpdateItem) Validate(validate *validator.Validate) error {
	ui.Title = core.CleanString(ui.Title)
	if ui.Tags != nil {
		ui.Tags = core.CleanTags(ui.Tags)
	}
	return validate.Struct(ui)
}

func (ui UpdateItem) apply(it Item) Item {
	if ui.Title != "" {
		it.Title = ui.Title
	}
	if ui.Content != nil {
		it.Content = *ui.Content
	}
	if ui.QuestionLinks != nil {
		it.QuestionLinks = *ui.QuestionLinks
	}
	if ui.AnswerLinks != nil {
		it.AnswerLinks = *ui.AnswerLinks
	}
	if ui.Tags != nil {
		it.Tags = ui.Tags
	}
	if ui.Order != nil {
		it.Order = *ui.Order
	}
	return it
}

// NewCheatsheet contains information needed to create a new Cheatsheet.
type NewCheatsheet struct {
	Title       string    `json:"title" validate:"required,max=100"`
	Subject     string    `json:"subject" validate:"max=50"`
	Description string    `json:"description" validate:"max=300"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsPublic    bool      `json:"isPublic"`
	Items       []NewItem `json:"items" validate:"dive"`
}

func (nc *NewCheatsheet) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Subject = core.CleanString(nc.Subject)
	nc.Description = core.CleanString(nc.Description)
	for i := range nc.Items {
		nc.Items[i].Title = core.CleanString(nc.Items[i].Title)
		nc.Items[i].Tags = core.CleanTags(nc.Items[i].Tags)
	}
	return validate.Struct(nc)
}

// UpdateCheatsheet defines what information may be provided to modify an existing Cheatsheet.
// When Items is provided, it replaces the whole list.
type UpdateCheatsheet struct {
	Title       string     `json:"title" validate:"max=100"`
	Subject     *string    `json:"subject" validate:"omitempty,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=300"`
	Color       *string    `json:"color"`
	Icon        *string    `json:"icon"`
	IsPublic    *bool      `json:"isPublic"`
	Items       *[]NewItem `json:"items" validate:"omitempty,dive"`
}

func (uc *UpdateCheatsheet) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	if uc.Subject != nil {
		s := core.CleanString(*uc.Subject)
		uc.Subject = &s
	}
	if uc.Description != nil {
		d := core.CleanString(*uc.Description)
		uc.Description = &d
	}
	if uc.Items != nil {
		for i := range *uc.Items {
			(*uc.Items)[i].Title = core.CleanString((*uc.Items)[i].Title)
			(*uc.Items)[i].Tags = core.CleanTags((*uc.Items)[i].Tags)
		}
	}
	return validate.Struct(uc)
}
