package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
)

const healthMessage = ".coder API is running"

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc       *user.Service
		ChapterSvc    *chapter.Service
		CheatsheetSvc *cheatsheet.Service
		BlogSvc       *blog.Service
		ThreadSvc     *thread.Service
		PracticeSvc   *practice.Service
		AISvc         *ai.Service

		Validate   *validator.Validate
		Translator ut.Translator

		// Health, when set, checks the store on GET /api/health.
		Health func(ctx context.Context) error
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwtConf  middleware.JWTConfig
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		jwtConf:  newJWTConfig(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	if conf.Server.BodyLimit != "" {
		s.app.Use(middleware.BodyLimit(conf.Server.BodyLimit))
	}

	api := s.app.Group("/api")
	api.GET("/health", s.health)

	jwt := middleware.JWTWithConfig(s.jwtConf)
	protect := protectMiddleware(s.deps.UserSvc)

	registerAuthAPI(api, jwt, protect, conf, s.deps.UserSvc, s.deps.Validate)
	registerChapterAPI(api, jwt, protect, s.deps.ChapterSvc, s.deps.Validate)
	registerQuestionAPI(api, jwt, protect, s.deps.ChapterSvc, s.deps.Validate)
	registerCheatsheetAPI(api, jwt, protect, s.deps.CheatsheetSvc, s.deps.Validate)
	registerBlogAPI(api, jwt, protect, s.deps.BlogSvc, s.deps.Validate)
	registerThreadAPI(api, jwt, protect, s.deps.ThreadSvc, s.deps.Validate)
	registerAIAPI(api, jwt, protect, s.deps.AISvc, s.deps.PracticeSvc, s.deps.Validate)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) health(ctx echo.Context) error {
	if s.deps.Health != nil {
		if err := s.deps.Health(ctx.Request().Context()); err != nil {
			s.deps.Logger.Error("health check failed", err)
			return ctx.JSON(http.StatusServiceUnavailable, errorResponse{Message: "database unavailable"})
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   healthMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Responses

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, echo.Map{"success": true, "data": data})
}

func respondList(ctx echo.Context, data interface{}, count int) error {
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "count": count, "data": data})
}

func respondMessage(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}

// respondDeleted mirrors the `data: {}` answer of delete endpoints.
func respondDeleted(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{})
}
