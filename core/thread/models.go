package thread

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dotcoder/core"
)

type Reply struct {
	ID        string       `json:"id"`
	User      core.UserRef `json:"user"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Thread struct {
	ID        string       `json:"id"`
	User      core.UserRef `json:"user"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags"`
	Replies   []Reply      `json:"replies"`
	Views     int          `json:"views"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewThread contains information needed to open a new Thread.
type NewThread struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,notblank"`
	Tags    []string `json:"tags"`
}

func (nt *NewThread) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Tags = core.CleanTags(nt.Tags)
	return validate.Struct(nt)
}

type NewReply struct {
	Content string `json:"content" validate:"required,notblank"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
