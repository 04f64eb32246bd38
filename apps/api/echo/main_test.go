package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sync"
	"testing"

	. "github.com/trezcool/dotcoder/apps/api/echo"
	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
	"github.com/trezcool/dotcoder/services/email"
	"github.com/trezcool/dotcoder/services/logger"
	"github.com/trezcool/dotcoder/storage/database/inmem"
)

const dailyThreadLimit = 3

var (
	conf *core.Config
	db   *inmemdb.DB
	app  Server
	chat *fakeChat

	usrRepo        user.Repository
	chapterRepo    chapter.Repository
	cheatsheetRepo cheatsheet.Repository
	blogRepo       blog.Repository
	threadRepo     thread.Repository
	practiceRepo   practice.Repository
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	conf.Threads.DailyLimit = dailyThreadLimit
	logger := logsvc.NewNopLogger()

	// set up DB & repos
	db = inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	chapterRepo = inmemdb.NewChapterRepository(db)
	cheatsheetRepo = inmemdb.NewCheatsheetRepository(db)
	blogRepo = inmemdb.NewBlogRepository(db)
	threadRepo = inmemdb.NewThreadRepository(db)
	practiceRepo = inmemdb.NewPracticeRepository(db)

	// set up services
	core.ParseEmailTemplates(logger)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	chat = &fakeChat{}
	chapterSvc := chapter.NewService(chapterRepo)
	practiceSvc := practice.NewService(practiceRepo)

	// set up server
	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        user.NewService(usrRepo, mailSvc),
		ChapterSvc:     chapterSvc,
		CheatsheetSvc:  cheatsheet.NewService(cheatsheetRepo),
		BlogSvc:        blog.NewService(blogRepo, mailSvc),
		ThreadSvc:      thread.NewService(threadRepo, nil, conf.Threads.DailyLimit),
		PracticeSvc:    practiceSvc,
		AISvc:          ai.NewService(ai.NewProvider(chat, logger), chapterSvc, practiceSvc),
		Validate:       validate,
		Translator:     translator,
	})

	os.Exit(m.Run())
}

// fakeChat replays canned replies; an empty queue answers with err (or ai.ErrNotConfigured).
type fakeChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
}

func (c *fakeChat) Chat(_ context.Context, _ []ai.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.replies) > 0 {
		reply := c.replies[0]
		c.replies = c.replies[1:]
		return reply, nil
	}
	if c.err != nil {
		return "", c.err
	}
	return "", ai.ErrNotConfigured
}

func (c *fakeChat) reset(err error, replies ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = replies
	c.err = err
	c.calls = 0
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
	emailsvc.ResetSentMessages()
	chat.reset(nil)
}

type httpErr struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func errBody(t *testing.T, msg string, fields ...map[string]string) []byte {
	resp := httpErr{Message: msg}
	if len(fields) > 0 {
		resp.Errors = fields[0]
	}
	return marchallObj(t, resp)
}

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do serves the request and decodes the envelope; data, when given, receives the envelope's data.
func do(t *testing.T, method, path, token string, body []byte, data interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req, rec := newAuthRequest(method, path, token, body)
	app.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("do(%s %s): decoding %q: %v", method, path, rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("do(%s %s): decoding data %q: %v", method, path, string(env.Data), err)
		}
	}
	return rec, env
}

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
