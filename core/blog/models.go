package blog

import (
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dotcoder/core"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"

	wordsPerMinute         = 200
	defaultRejectionReason = "Does not meet guidelines"
)

// Review actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type Blog struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle"`
	Content         string       `json:"content"`
	CoverImage      string       `json:"coverImage"`
	Tags            []string     `json:"tags"`
	Author          core.UserRef `json:"author"`
	Status          string       `json:"status"`
	RejectionReason string       `json:"rejectionReason"`
	ReadTime        int          `json:"readTime"`
	Views           int          `json:"views"`
	Likes           []string     `json:"likes"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (b Blog) IsPublished() bool {
	return b.Status == StatusPublished
}

func (b Blog) canEdit(actor core.Actor) bool {
	return b.Author.ID == actor.ID || actor.IsAdmin
}

// ReadTime estimates the minutes needed to read the (html) content: max(1, ceil(words / 200)).
func ReadTime(content string) int {
	words := len(strings.Fields(core.StripHTML(content)))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// NewBlog contains information needed to create a new Blog.
type NewBlog struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Subtitle   string   `json:"subtitle" validate:"max=300"`
	Content    string   `json:"content" validate:"required,notblank"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (nb *NewBlog) Validate(validate *validator.Validate) error {
	nb.Title = core.CleanString(nb.Title)
	nb.Subtitle = core.CleanString(nb.Subtitle)
	nb.CoverImage = core.CleanString(nb.CoverImage)
	nb.Tags = core.CleanTags(nb.Tags)
	nb.Status = core.CleanString(nb.Status, true /* lower */)
	return validate.Struct(nb)
}

// UpdateBlog defines what information may be provided to modify an existing Blog.
// A blank title or content keeps the current one.
type UpdateBlog struct {
	Title      string   `json:"title" validate:"max=200"`
	Subtitle   *string  `json:"subtitle" validate:"omitempty,max=300"`
	Content    string   `json:"content"`
	CoverImage *string  `json:"coverImage"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (ub *UpdateBlog) Validate(validate *validator.Validate) error {
	ub.Title = core.CleanString(ub.Title)
	if ub.Subtitle != nil {
		s := core.CleanString(*ub.Subtitle)
		ub.Subtitle = &s
	}
	if ub.Tags != nil {
		ub.Tags = core.CleanTags(ub.Tags)
	}
	ub.Status = core.CleanString(ub.Status, true /* lower */)
	return validate.Struct(ub)
}

type Review struct {
	Action          string `json:"action"`
	RejectionReason string `json:"rejectionReason"`
}

// Filter selects blogs; empty fields match everything.
type Filter struct {
	AuthorID string
	Status   string
}
