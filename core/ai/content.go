package ai

import (
	"strings"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/chapter"
)

// ChapterContent flattens the chapter's questions into the plain-text notes fed to the model,
// and collects their distinct tags in first-seen order.
func ChapterContent(questions []chapter.Question) (string, []string) {
	var b strings.Builder
	tags := make([]string, 0)

	for _, q := range questions {
		b.WriteString("Question: " + q.Title + "\n")
		if q.Logic.Content != "" {
			b.WriteString("Logic: " + core.StripHTML(q.Logic.Content) + "\n")
		}
		if q.Code.Content != "" {
			b.WriteString("Code: " + q.Code.Content + "\n")
		}
		if len(q.Tags) > 0 {
			b.WriteString("Concept Tags: " + strings.Join(q.Tags, ", ") + "\n")
			tags = append(tags, q.Tags...)
		}
		b.WriteString("\n")
	}
	return b.String(), core.CleanTags(tags)
}
