package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/tests"
)

func Test_cheatsheetApi_crud(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	testutil.CreateCheatsheet(t, cheatsheetRepo, bob.ID, "Bob's sheet")

	var cs cheatsheet.Cheatsheet
	body := []byte(`{"title": "Big O", "subject": "algorithms", "items": [{"title": "O(1)"}, {"title": "O(n)", "tags": ["linear"]}]}`)
	rec, _ := do(t, http.MethodPost, "/api/cheatsheets", getToken(t, ada), body, &cs)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Big O", cs.Title)
	assert.Equal(t, ada.ID, cs.UserID)
	assert.Equal(t, "#10b981", cs.Color)
	if assert.Len(t, cs.Items, 2) {
		assert.NotEmpty(t, cs.Items[0].ID)
		assert.Equal(t, 0, cs.Items[0].Order)
		assert.Equal(t, 1, cs.Items[1].Order)
		assert.Equal(t, []string{}, cs.Items[0].Tags)
	}

	t.Run("query only returns own sheets", func(t *testing.T) {
		var sheets []cheatsheet.Cheatsheet
		rec, env := do(t, http.MethodGet, "/api/cheatsheets", getToken(t, ada), nil, &sheets)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Count)
		assert.Equal(t, 1, *env.Count)
		if assert.Len(t, sheets, 1) {
			assert.Equal(t, cs.ID, sheets[0].ID)
		}
	})

	t.Run("update replaces items", func(t *testing.T) {
		var updated cheatsheet.Cheatsheet
		body := []byte(`{"description": "complexities", "isPublic": true, "items": [{"title": "O(log n)"}]}`)
		rec, _ := do(t, http.MethodPut, "/api/cheatsheets/"+cs.ID, getToken(t, ada), body, &updated)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Big O", updated.Title)
		assert.Equal(t, "complexities", updated.Description)
		assert.True(t, updated.IsPublic)
		if assert.Len(t, updated.Items, 1) {
			assert.Equal(t, "O(log n)", updated.Items[0].Title)
		}
	})

	runHTTPTests(t, []httpTest{
		{
			name:     "other user cannot read",
			method:   http.MethodGet,
			path:     "/api/cheatsheets/" + cs.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "other user cannot update",
			method:   http.MethodPut,
			path:     "/api/cheatsheets/" + cs.ID,
			body:     []byte(`{"title": "Mine"}`),
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "missing title",
			method:   http.MethodPost,
			path:     "/api/cheatsheets",
			body:     []byte(`{"subject": "nope"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"title": "this field is required"}),
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/api/cheatsheets/missing",
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Cheatsheet not found"),
		},
		{
			name:     "other user cannot delete",
			method:   http.MethodDelete,
			path:     "/api/cheatsheets/" + cs.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "owner deletes",
			method:   http.MethodDelete,
			path:     "/api/cheatsheets/" + cs.ID,
			token:    getToken(t, ada),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {}}`),
		},
	})
}

func Test_cheatsheetApi_items(t *testing.T) {
	resetDB(t)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	cs := testutil.CreateCheatsheet(t, cheatsheetRepo, ada.ID, "Graphs",
		cheatsheet.Item{ID: "bfs", Title: "BFS", Tags: []string{}, Order: 0},
		cheatsheet.Item{ID: "dfs", Title: "DFS", Tags: []string{}, Order: 4},
	)
	path := "/api/cheatsheets/" + cs.ID + "/items"

	var got cheatsheet.Cheatsheet
	rec, _ := do(t, http.MethodPost, path, getToken(t, ada), []byte(`{"title": "Dijkstra", "order": 0}`), &got)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	if assert.Len(t, got.Items, 3) {
		assert.Equal(t, "Dijkstra", got.Items[2].Title)
		assert.Equal(t, 5, got.Items[2].Order, "new items go after the last one")
	}

	rec, _ = do(t, http.MethodPut, path+"/bfs", getToken(t, ada), []byte(`{"content": "queue", "tags": ["Graph"]}`), &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "BFS", got.Items[0].Title)
	assert.Equal(t, "queue", got.Items[0].Content)
	assert.Equal(t, []string{"Graph"}, got.Items[0].Tags)

	rec, _ = do(t, http.MethodDelete, path+"/dfs", getToken(t, ada), nil, &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	if assert.Len(t, got.Items, 2) {
		assert.Equal(t, "bfs", got.Items[0].ID)
	}

	runHTTPTests(t, []httpTest{
		{
			name:     "update unknown item",
			method:   http.MethodPut,
			path:     path + "/nope",
			body:     []byte(`{"title": "?"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Item not found"),
		},
		{
			name:     "delete unknown item is a no-op",
			method:   http.MethodDelete,
			path:     path + "/nope",
			token:    getToken(t, ada),
			wantCode: http.StatusOK,
		},
		{
			name:     "item without title",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"content": "untitled"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"title": "this field is required"}),
		},
		{
			name:     "other user",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "Prim"}`),
			token:    getToken(t, bob),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized"),
		},
	})
}
