package echoapi_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/user"
	"github.com/trezcool/dotcoder/services/email"
	"github.com/trezcool/dotcoder/tests"
)

func blogIDs(blogs []blog.Blog) []string {
	ids := make([]string, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}
	return ids
}

func Test_blogApi_lists(t *testing.T) {
	resetDB(t)
	now := time.Now()
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")

	old := testutil.CreateBlog(t, blogRepo, ada, "Old", blog.StatusPublished, now.Add(-2*time.Hour))
	recent := testutil.CreateBlog(t, blogRepo, bob, "Recent", blog.StatusPublished, now.Add(-time.Hour))
	pending := testutil.CreateBlog(t, blogRepo, ada, "Pending", blog.StatusPending, now.Add(-30*time.Minute))
	draft := testutil.CreateBlog(t, blogRepo, ada, "Draft", blog.StatusDraft, now)

	tests := []struct {
		name    string
		path    string
		usr     user.User
		wantIDs []string
	}{
		{"published", "/api/blogs", bob, []string{recent.ID, old.ID}},
		{"mine", "/api/blogs/mine", ada, []string{draft.ID, pending.ID, old.ID}},
		{"pending", "/api/blogs/pending", admin, []string{pending.ID}},
		{"all", "/api/blogs/admin/all", admin, []string{draft.ID, pending.ID, recent.ID, old.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var blogs []blog.Blog
			rec, env := do(t, http.MethodGet, tt.path, getToken(t, tt.usr), nil, &blogs)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.NotNil(t, env.Count)
			assert.Equal(t, len(tt.wantIDs), *env.Count)
			assert.Equal(t, tt.wantIDs, blogIDs(blogs))
		})
	}

	t.Run("author is joined", func(t *testing.T) {
		var blogs []blog.Blog
		do(t, http.MethodGet, "/api/blogs", getToken(t, ada), nil, &blogs)
		if assert.Len(t, blogs, 2) {
			assert.Equal(t, bob.Ref(), blogs[0].Author)
		}
	})

	runHTTPTests(t, []httpTest{
		{
			name:     "pending is admin only",
			method:   http.MethodGet,
			path:     "/api/blogs/pending",
			token:    getToken(t, ada),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized as an admin"),
		},
		{
			name:     "all is admin only",
			method:   http.MethodGet,
			path:     "/api/blogs/admin/all",
			token:    getToken(t, ada),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized as an admin"),
		},
	})
}

func Test_blogApi_create(t *testing.T) {
	resetDB(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	content := "<p>" + strings.Repeat("word ", 450) + "</p>"

	tests := []struct {
		name       string
		usr        user.User
		status     string
		wantStatus string
	}{
		{"user defaults to draft", ada, "", blog.StatusDraft},
		{"user may ask for review", ada, "pending", blog.StatusPending},
		{"user cannot publish", ada, "published", blog.StatusDraft},
		{"admin publishes", admin, "published", blog.StatusPublished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := marchallObj(t, map[string]interface{}{
				"title":   "Big O",
				"content": content,
				"tags":    []string{"algorithms"},
				"status":  tt.status,
			})

			var b blog.Blog
			rec, _ := do(t, http.MethodPost, "/api/blogs", getToken(t, tt.usr), body, &b)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantStatus, b.Status)
			assert.Equal(t, tt.usr.Ref(), b.Author)
			assert.Equal(t, 3, b.ReadTime)
			assert.Equal(t, []string{}, b.Likes)
		})
	}

	runHTTPTests(t, []httpTest{
		{
			name:     "blank content",
			method:   http.MethodPost,
			path:     "/api/blogs",
			body:     []byte(`{"title": "Empty", "content": "   "}`),
			token:    getToken(t, ada),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"content": "this field cannot be blank"}),
		},
	})
}

func Test_blogApi_retrieve(t *testing.T) {
	resetDB(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	published := testutil.CreateBlog(t, blogRepo, ada, "Public", blog.StatusPublished)
	draft := testutil.CreateBlog(t, blogRepo, ada, "Secret", blog.StatusDraft)

	t.Run("views are counted", func(t *testing.T) {
		var b blog.Blog
		do(t, http.MethodGet, "/api/blogs/"+published.ID, getToken(t, bob), nil, &b)
		assert.Equal(t, 1, b.Views)
		do(t, http.MethodGet, "/api/blogs/"+published.ID, getToken(t, bob), nil, &b)
		assert.Equal(t, 2, b.Views)
	})

	runHTTPTests(t, []httpTest{
		{
			name:     "draft hidden from others",
			method:   http.MethodGet,
			path:     "/api/blogs/" + draft.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "draft visible to author",
			method:   http.MethodGet,
			path:     "/api/blogs/" + draft.ID,
			token:    getToken(t, ada),
			wantCode: http.StatusOK,
		},
		{
			name:     "draft visible to admin",
			method:   http.MethodGet,
			path:     "/api/blogs/" + draft.ID,
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/api/blogs/missing",
			token:    getToken(t, ada),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Blog not found"),
		},
	})
}

func Test_blogApi_update(t *testing.T) {
	resetDB(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	b := testutil.CreateBlog(t, blogRepo, ada, "Draft", blog.StatusDraft)

	var got blog.Blog
	rec, _ := do(t, http.MethodPut, "/api/blogs/"+b.ID, getToken(t, ada), []byte(`{"subtitle": "sub", "status": "pending"}`), &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Draft", got.Title)
	assert.Equal(t, "sub", got.Subtitle)
	assert.Equal(t, blog.StatusPending, got.Status)

	// authors cannot publish themselves
	rec, _ = do(t, http.MethodPut, "/api/blogs/"+b.ID, getToken(t, ada), []byte(`{"status": "published"}`), &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, blog.StatusPending, got.Status)

	rec, _ = do(t, http.MethodPut, "/api/blogs/"+b.ID, getToken(t, admin), []byte(`{"status": "published"}`), &got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, blog.StatusPublished, got.Status)

	runHTTPTests(t, []httpTest{
		{
			name:     "other user",
			method:   http.MethodPut,
			path:     "/api/blogs/" + b.ID,
			body:     []byte(`{"title": "Mine"}`),
			token:    getToken(t, bob),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized"),
		},
	})
}

func Test_blogApi_review(t *testing.T) {
	resetDB(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	b := testutil.CreateBlog(t, blogRepo, ada, "Pending", blog.StatusPending)

	t.Run("reject with default reason", func(t *testing.T) {
		emailsvc.ResetSentMessages()
		var got blog.Blog
		rec, _ := do(t, http.MethodPut, "/api/blogs/"+b.ID+"/review", getToken(t, admin), []byte(`{"action": "reject"}`), &got)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, blog.StatusRejected, got.Status)
		assert.Equal(t, "Does not meet guidelines", got.RejectionReason)

		sent := emailsvc.GetSentMessages()
		if assert.Len(t, sent, 1) {
			assert.Equal(t, "ada@test.cd", sent[0].To[0].Address)
			assert.Equal(t, "blog_reviewed", sent[0].TemplateName)
		}
	})

	t.Run("approve clears the reason", func(t *testing.T) {
		var got blog.Blog
		rec, _ := do(t, http.MethodPut, "/api/blogs/"+b.ID+"/review", getToken(t, admin), []byte(`{"action": "approve"}`), &got)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, blog.StatusPublished, got.Status)
		assert.Empty(t, got.RejectionReason)
	})

	runHTTPTests(t, []httpTest{
		{
			name:     "invalid action",
			method:   http.MethodPut,
			path:     "/api/blogs/" + b.ID + "/review",
			body:     []byte(`{"action": "maybe"}`),
			token:    getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Invalid action"),
		},
		{
			name:     "non admin",
			method:   http.MethodPut,
			path:     "/api/blogs/" + b.ID + "/review",
			body:     []byte(`{"action": "approve"}`),
			token:    getToken(t, ada),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized as an admin"),
		},
	})
}

func Test_blogApi_likeAndDelete(t *testing.T) {
	resetDB(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin)
	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.cd", "", "")
	b := testutil.CreateBlog(t, blogRepo, ada, "Likeable", blog.StatusPublished)

	var got blog.Blog
	do(t, http.MethodPut, "/api/blogs/"+b.ID+"/like", getToken(t, bob), nil, &got)
	assert.Equal(t, []string{bob.ID}, got.Likes)
	do(t, http.MethodPut, "/api/blogs/"+b.ID+"/like", getToken(t, ada), nil, &got)
	assert.ElementsMatch(t, []string{bob.ID, ada.ID}, got.Likes)
	do(t, http.MethodPut, "/api/blogs/"+b.ID+"/like", getToken(t, bob), nil, &got)
	assert.Equal(t, []string{ada.ID}, got.Likes)

	other := testutil.CreateBlog(t, blogRepo, bob, "Bob's", blog.StatusPublished)

	runHTTPTests(t, []httpTest{
		{
			name:     "other user cannot delete",
			method:   http.MethodDelete,
			path:     "/api/blogs/" + b.ID,
			token:    getToken(t, bob),
			wantCode: http.StatusForbidden,
			wantData: errBody(t, "Not authorized"),
		},
		{
			name:     "author deletes",
			method:   http.MethodDelete,
			path:     "/api/blogs/" + b.ID,
			token:    getToken(t, ada),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {}}`),
		},
		{
			name:     "admin deletes",
			method:   http.MethodDelete,
			path:     "/api/blogs/" + other.ID,
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
		},
		{
			name:     "like missing blog",
			method:   http.MethodPut,
			path:     "/api/blogs/" + b.ID + "/like",
			token:    getToken(t, bob),
			wantCode: http.StatusNotFound,
			wantData: errBody(t, "Blog not found"),
		},
	})
}
