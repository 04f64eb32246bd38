package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "json fence", reply: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", reply: "```\n[1, 2]\n```\n", want: `[1, 2]`},
		{name: "no fence", reply: "  plain text \n", want: "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.reply))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		open byte
		want string
	}{
		{name: "surrounding prose", text: `Sure! {"nodes": []} Hope it helps.`, open: '{', want: `{"nodes": []}`},
		{name: "nested", text: `x {"a": {"b": [1]}, "c": 2} y {"d": 3}`, open: '{', want: `{"a": {"b": [1]}, "c": 2}`},
		{name: "brackets inside strings", text: `{"code": "if (x) { return \"}\" }"} tail`, open: '{', want: `{"code": "if (x) { return \"}\" }"}`},
		{name: "array", text: `Tags: ["go", ["nested"]] done]`, open: '[', want: `["go", ["nested"]]`},
		{name: "unbalanced falls back to last closer", text: `{"a": {"b": 1} `, open: '{', want: `{"a": {"b": 1}`},
		{name: "no opener", text: "nothing here", open: '[', want: "nothing here"},
		{name: "no closer", text: `result: {"a": 1`, open: '{', want: `{"a": 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.text, tt.open))
		})
	}
}

func TestDecodeReply(t *testing.T) {
	var tags []string
	require.NoError(t, DecodeReply("```json\nHere: [\"arrays\", \"two-pointers\"]\n```", '[', &tags))
	assert.Equal(t, []string{"arrays", "two-pointers"}, tags)

	var obj map[string]interface{}
	assert.Error(t, DecodeReply("I cannot help with that.", '{', &obj))
}
