package inmemdb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/practice"
	inmemdb "github.com/trezcool/dotcoder/storage/database/inmem"
)

func TestPracticeRepository_tests(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewPracticeRepository(inmemdb.Open())

	first, err := repo.ReplaceTest(ctx, practice.Test{ChapterID: "c1", UserID: "u1", Questions: []practice.TestQuestion{{Question: "old"}}})
	require.NoError(t, err)
	other, err := repo.ReplaceTest(ctx, practice.Test{ChapterID: "c1", UserID: "u2", Questions: []practice.TestQuestion{{Question: "theirs"}}})
	require.NoError(t, err)

	test, err := repo.ReplaceTest(ctx, practice.Test{
		ChapterID: "c1",
		UserID:    "u1",
		Questions: []practice.TestQuestion{{Question: "a", Tags: []string{"x"}}, {Question: "b"}},
		Status:    practice.StatusPending,
		Score:     practice.Score{Total: 2},
	})
	require.NoError(t, err)

	_, err = repo.GetTest(ctx, first.ID)
	assert.Equal(t, practice.ErrTestNotFound, err, "previous test of the chapter is replaced")
	_, err = repo.GetTest(ctx, other.ID)
	assert.NoError(t, err, "other users' tests are kept")

	tests, err := repo.QueryTests(ctx, "c1", "u1")
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, test.ID, tests[0].ID)

	// returned copies do not alias the store
	tests[0].Questions[0].Tags[0] = "changed"
	stored, err := repo.GetTest(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, stored.Questions[0].Tags)

	got, err := repo.SetTestQuestionCompleted(ctx, test.ID, 1, true)
	require.NoError(t, err)
	assert.True(t, got.Questions[1].IsCompleted)
	assert.Equal(t, practice.Score{Completed: 1, Total: 2}, got.Score)
	assert.Equal(t, practice.StatusInProgress, got.Status)

	got, err = repo.SetTestQuestionCompleted(ctx, test.ID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, practice.StatusCompleted, got.Status)

	_, err = repo.SetTestQuestionCompleted(ctx, test.ID, 2, true)
	assert.Equal(t, practice.ErrInvalidQuestionIndex, err)
	_, err = repo.SetTestQuestionCompleted(ctx, test.ID, -1, true)
	assert.Equal(t, practice.ErrInvalidQuestionIndex, err)
	_, err = repo.SetTestQuestionCompleted(ctx, "missing", 0, true)
	assert.Equal(t, practice.ErrTestNotFound, err)
}

func TestPracticeRepository_mindmaps(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewPracticeRepository(inmemdb.Open())

	_, err := repo.GetLatestMindmap(ctx, "c1", "u1")
	assert.Equal(t, practice.ErrMindmapNotFound, err)

	_, err = repo.ReplaceMindmap(ctx, practice.Mindmap{ChapterID: "c1", UserID: "u1", Title: "v1"})
	require.NoError(t, err)
	second, err := repo.ReplaceMindmap(ctx, practice.Mindmap{ChapterID: "c1", UserID: "u1", Title: "v2"})
	require.NoError(t, err)

	got, err := repo.GetLatestMindmap(ctx, "c1", "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "v2", got.Title)

	_, err = repo.GetLatestMindmap(ctx, "c1", "u2")
	assert.Equal(t, practice.ErrMindmapNotFound, err)
}
