package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dotcoder/core/user"
	"github.com/trezcool/dotcoder/services/email"
	"github.com/trezcool/dotcoder/tests"
)

func Test_health(t *testing.T) {
	rec, env := do(t, http.MethodGet, "/api/health", "", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, ".coder API is running", env.Message)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
}

func Test_authApi_register(t *testing.T) {
	resetDB(t)
	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.cd", "Pa$$w0rd!", "")

	t.Run("success", func(t *testing.T) {
		emailsvc.ResetSentMessages()
		body := []byte(`{"name": " Ada ", "email": "ADA@test.cd", "password": "Pa$$w0rd!"}`)

		var data struct {
			user.User
			Token string `json:"token"`
		}
		rec, env := do(t, http.MethodPost, "/api/auth/register", "", body, &data)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.True(t, env.Success)
		assert.NotEmpty(t, data.Token)
		assert.Equal(t, "Ada", data.Name)
		assert.Equal(t, "ada@test.cd", data.Email)
		assert.Equal(t, user.RoleUser, data.Role)
		assert.Equal(t, user.DefaultSettings(), data.Settings)
		assert.NotContains(t, rec.Body.String(), "password")

		// the token is usable straight away
		rec, _ = do(t, http.MethodGet, "/api/auth/me", data.Token, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		sent := emailsvc.GetSentMessages()
		if assert.Len(t, sent, 1) {
			assert.Equal(t, "ada@test.cd", sent[0].To[0].Address)
			assert.Equal(t, "welcome", sent[0].TemplateName)
		}
	})

	tests := []httpTest{
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     []byte(`{"name": "Other", "email": "taken@test.cd", "password": "Pa$$w0rd!"}`),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, user.ErrEmailExists.Error(), map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name:     "all numeric password",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     []byte(`{"name": "Num", "email": "num@test.cd", "password": "12345678"}`),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name:     "password too similar to name",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     []byte(`{"name": "Jonathan", "email": "jo@test.cd", "password": "jonathan1"}`),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"password": "password cannot be similar to your name or email"}),
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/auth/register",
			body:     []byte(`{"email": "not-an-email"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, tests)
}

func Test_authApi_login(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "Pa$$w0rd!", "")

	t.Run("success", func(t *testing.T) {
		var data struct {
			ID        string `json:"id"`
			Token     string `json:"token"`
			LastLogin string `json:"lastLogin"`
		}
		rec, _ := do(t, http.MethodPost, "/api/auth/login", "", []byte(`{"email": "Ada@Test.cd", "password": "Pa$$w0rd!"}`), &data)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, usr.ID, data.ID)
		assert.NotEmpty(t, data.Token)
		assert.NotEmpty(t, data.LastLogin)
	})

	tests := []httpTest{
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "ada@test.cd", "password": "nope-nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Invalid credentials"),
		},
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "ghost@test.cd", "password": "Pa$$w0rd!"}`),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Invalid credentials"),
		},
		{
			name:     "missing password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     []byte(`{"email": "ada@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: errBody(t, "Validation failed", map[string]string{"password": "this field is required"}),
		},
	}
	runHTTPTests(t, tests)
}

func Test_authApi_me(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")
	ghost := user.User{ID: uuid.New().String(), Name: "Ghost", Email: "ghost@test.cd", Role: user.RoleUser}

	tests := []httpTest{
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized, no token"),
		},
		{
			name:     "bad token",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    "not.a.token",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "deleted user",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    getToken(t, ghost),
			wantCode: http.StatusUnauthorized,
			wantData: errBody(t, "Not authorized, user not found"),
		},
		{
			name:     "ok",
			method:   http.MethodGet,
			path:     "/api/auth/me",
			token:    getToken(t, usr),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"success": true, "data": usr}),
		},
	}
	runHTTPTests(t, tests)
}

func Test_authApi_updateSettings(t *testing.T) {
	resetDB(t)
	usr := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.cd", "", "")

	var data user.User
	rec, _ := do(t, http.MethodPut, "/api/auth/settings", getToken(t, usr), []byte(`{"settings": {"mindmapEnabled": false}}`), &data)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, user.Settings{AIEnabled: true, MindmapEnabled: false, SuggestionsEnabled: true}, data.Settings)

	// the next request sees the stored settings
	rec, _ = do(t, http.MethodGet, "/api/auth/me", getToken(t, usr), nil, &data)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, data.Settings.MindmapEnabled)
}
