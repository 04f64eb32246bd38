package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordPolicyError(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		uName string
		email string
		want  string
	}{
		{name: "too short", pwd: "abc", want: "password must contain at least 6 characters"},
		{name: "whitespace", pwd: "abc defg", want: "password must not contain whitespace"},
		{name: "all numeric", pwd: "12345678", want: "password cannot be entirely numeric"},
		{name: "similar to name", pwd: "adalovelace1", uName: "Ada Lovelace", email: "a@test.cd", want: "password cannot be similar to your name or email"},
		{name: "similar to email", pwd: "ada@test.c", uName: "Bob", email: "ada@test.cd", want: "password cannot be similar to your name or email"},
		{name: "similar to email name", pwd: "Grace1", uName: "Bob", email: "grace@hopper.io", want: "password cannot be similar to your name or email"},
		{name: "ok", pwd: "Pa$$w0rd!", uName: "Ada Lovelace", email: "ada@test.cd"},
		{name: "ok without attrs", pwd: "lovelace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordPolicyError(tt.pwd, tt.uName, tt.email))
		})
	}
}

func TestSettingsPatch_Apply(t *testing.T) {
	off := false
	on := true

	got := SettingsPatch{MindmapEnabled: &off}.Apply(DefaultSettings())
	assert.Equal(t, Settings{AIEnabled: true, MindmapEnabled: false, SuggestionsEnabled: true}, got)

	got = SettingsPatch{AIEnabled: &off, SuggestionsEnabled: &off}.Apply(got)
	assert.Equal(t, Settings{}, got)

	got = SettingsPatch{MindmapEnabled: &on}.Apply(got)
	assert.Equal(t, Settings{MindmapEnabled: true}, got)

	assert.Equal(t, DefaultSettings(), SettingsPatch{}.Apply(DefaultSettings()))
}
