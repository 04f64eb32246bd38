package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/tests"
)

func Test_questionApi_create(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	ch := testutil.CreateChapter(t, chapterRepo, ada.ID, "Arrays")
	testutil.CreateQuestion(t, chapterRepo, ch, "Two Sum", "", "")

	t.Run("success", func(t *testing.T) {
		body := []byte(`{"chapterId": "` + ch.ID + `", "title": "Three Sum", "logic": {"content": "sort first"}, "code": {"content": "def f(): pass", "language": "python"}, "difficulty": "HARD"}`)

		var q chapter.Question
		rec, _ := do(t, http.MethodPost, "/api/questions", getToken(t, ada), body, &q)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, ch.ID, q.ChapterID)
		assert.Equal(t, ada.ID, q.UserID)
		assert.Equal(t, 1, q.Order)
		assert.Equal(t, chapter.DifficultyHard, q.Difficulty)
		assert.Equal(t, chapter.Logic{Content: "sort first", IsVisible: true}, q.Logic)
		assert.Equal(t, chapter.Code{Content: "def f(): pass", Language: "python", IsVisible: true}, q.Code)

		got, err := chapterRepo.GetChapter(context.Background(), ch.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.QuestionCount)
	})

	t.Run("defaults", func(t *testing.T) {
		var q chapter.Question
		rec, _ := do(t, http.MethodPost, "/api/questions", getToken(t, ada), []byte(`{"chapterId": "`+ch.ID+`", "title": "Bare"}`), &q)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, chapter.DifficultyMedium, q.Difficulty)
		assert.Equal(t, "javascript", q.Code.Language)
		assert.True(t, q.Logic.IsVisible)
		assert.True(t, q.Code.IsVisible)
	})

	tests := []httpTest{
		{
			name:     "foreign chapter",
			method:   http.MethodPost,
			path:     "/api/questions",
			body:     []byte(`{"chapterId": "` + ch.ID + `", "title": "Sneaky"}`),
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "unknown chapter",
			method:   http.MethodPost,
			path:     "/api/questions",
			body:     []byte(`{"chapterId": "missing", "title": "Lost"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Chapter not found"),
		},
		{
			name:     "invalid difficulty",
			method:   http.MethodPost,
			path:     "/api/questions",
			body:     []byte(`{"chapterId": "` + ch.ID + `", "title": "Odd", "difficulty": "extreme"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing title",
			method:   http.MethodPost,
			path:     "/api/questions",
			body:     []byte(`{"chapterId": "` + ch.ID + `"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"title": "this field is required"}),
		},
	}
	runHTTPTests(t, tests)
}

func Test_questionApi_queryByChapter(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	ch := testutil.CreateChapter(t, chapterRepo, ada.ID, "Arrays")
	q1 := testutil.CreateQuestion(t, chapterRepo, ch, "First", "", "")
	q2 := testutil.CreateQuestion(t, chapterRepo, ch, "Second", "", "")

	var questions []chapter.Question
	rec, env := do(t, http.MethodGet, "/api/questions/chapter/"+ch.ID, getToken(t, ada), nil, &questions)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	if assert.Len(t, questions, 2) {
		assert.Equal(t, q1.ID, questions[0].ID)
		assert.Equal(t, q2.ID, questions[1].ID)
	}

	runHTTPTests(t, []httpTest{
		{
			name:     "other user",
			method:   http.MethodGet,
			path:     "/api/questions/chapter/" + ch.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
	})
}

func Test_questionApi_update(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	ch := testutil.CreateChapter(t, chapterRepo, ada.ID, "Arrays")
	q := testutil.CreateQuestion(t, chapterRepo, ch, "Two Sum", "brute force", "for ...", "hashing")

	var updated chapter.Question
	body := []byte(`{"logic": {"content": "hash map"}, "code": {"isVisible": false}, "link": " https://leetcode.com/problems/two-sum "}`)
	rec, _ := do(t, http.MethodPut, "/api/questions/"+q.ID, getToken(t, ada), body, &updated)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Two Sum", updated.Title)
	assert.Equal(t, chapter.Logic{Content: "hash map", IsVisible: true}, updated.Logic)
	assert.Equal(t, chapter.Code{Content: "for ...", Language: "javascript", IsVisible: false}, updated.Code)
	assert.Equal(t, "https://leetcode.com/problems/two-sum", updated.Link)
	assert.Equal(t, []string{"hashing"}, updated.Tags)

	runHTTPTests(t, []httpTest{
		{
			name:     "other user",
			method:   http.MethodPut,
			path:     "/api/questions/" + q.ID,
			body:     []byte(`{"title": "Mine now"}`),
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "not found",
			method:   http.MethodPut,
			path:     "/api/questions/missing",
			body:     []byte(`{"title": "Ghost"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Question not found"),
		},
	})
}

func Test_questionApi_toggles(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	ch := testutil.CreateChapter(t, chapterRepo, ada.ID, "Arrays")
	q := testutil.CreateQuestion(t, chapterRepo, ch, "Two Sum", "logic", "code")

	var got chapter.Question
	rec, _ := do(t, http.MethodPut, "/api/questions/"+q.ID+"/toggle-logic", getToken(t, ada), nil, &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, got.Logic.IsVisible)
	assert.True(t, got.Code.IsVisible)

	rec, _ = do(t, http.MethodPut, "/api/questions/"+q.ID+"/toggle-code", getToken(t, ada), nil, &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, got.Logic.IsVisible)
	assert.False(t, got.Code.IsVisible)

	rec, _ = do(t, http.MethodPut, "/api/questions/"+q.ID+"/toggle-logic", getToken(t, ada), nil, &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, got.Logic.IsVisible)

	runHTTPTests(t, []httpTest{
		{
			name:     "other user",
			method:   http.MethodPut,
			path:     "/api/questions/" + q.ID + "/toggle-code",
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
	})
}

func Test_questionApi_destroy(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	ch := testutil.CreateChapter(t, chapterRepo, ada.ID, "Arrays")
	q := testutil.CreateQuestion(t, chapterRepo, ch, "Two Sum", "", "")
	testutil.CreateQuestion(t, chapterRepo, ch, "Three Sum", "", "")

	runHTTPTests(t, []httpTest{
		{
			name:     "other user",
			method:   http.MethodDelete,
			path:     "/api/questions/" + q.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "owner",
			method:   http.MethodDelete,
			path:     "/api/questions/" + q.ID,
			token:    getToken(t, ada),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {}}`),
		},
		{
			name:     "already deleted",
			method:   http.MethodGet,
			path:     "/api/questions/" + q.ID,
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Question not found"),
		},
	})

	got, err := chapterRepo.GetChapter(context.Background(), ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuestionCount)
}
