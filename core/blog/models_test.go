package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/dotcoder/core"
)

func TestReadTime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "empty", content: "", want: 1},
		{name: "short", content: "<p>Hello <b>world</b></p>", want: 1},
		{name: "exactly 200 words", content: strings.Repeat("word ", 200), want: 1},
		{name: "201 words", content: strings.Repeat("word ", 201), want: 2},
		{name: "tags are not words", content: "<p>" + strings.Repeat("<i>word</i> ", 450) + "</p>", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadTime(tt.content))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	author := core.Actor{ID: "1"}
	admin := core.Actor{ID: "2", IsAdmin: true}

	tests := []struct {
		requested string
		actor     core.Actor
		want      string
	}{
		{"", author, StatusDraft},
		{StatusPending, author, StatusPending},
		{StatusPublished, author, StatusDraft},
		{StatusRejected, author, StatusDraft},
		{StatusPublished, admin, StatusPublished},
		{StatusPending, admin, StatusPending},
		{"", admin, StatusDraft},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, initialStatus(tt.requested, tt.actor), "requested %q (admin: %v)", tt.requested, tt.actor.IsAdmin)
	}
}

func TestNextStatus(t *testing.T) {
	author := core.Actor{ID: "1"}
	admin := core.Actor{ID: "2", IsAdmin: true}

	tests := []struct {
		name      string
		current   string
		requested string
		actor     core.Actor
		want      string
	}{
		{"no change requested", StatusPublished, "", author, StatusPublished},
		{"unknown status", StatusDraft, "archived", admin, StatusDraft},
		{"submit draft", StatusDraft, StatusPending, author, StatusPending},
		{"resubmit rejected", StatusRejected, StatusPending, author, StatusPending},
		{"cannot resubmit published", StatusPublished, StatusPending, author, StatusPublished},
		{"unpublish", StatusPublished, StatusDraft, author, StatusDraft},
		{"author cannot publish", StatusPending, StatusPublished, author, StatusPending},
		{"author cannot reject", StatusPending, StatusRejected, author, StatusPending},
		{"admin publishes", StatusDraft, StatusPublished, admin, StatusPublished},
		{"admin rejects", StatusPublished, StatusRejected, admin, StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStatus(tt.current, tt.requested, tt.actor))
		})
	}
}
