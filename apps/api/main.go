package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/dotcoder/apps/api/echo"
	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
	aisvc "github.com/trezcool/dotcoder/services/ai"
	emailsvc "github.com/trezcool/dotcoder/services/email"
	logsvc "github.com/trezcool/dotcoder/services/logger"
	quotasvc "github.com/trezcool/dotcoder/services/quota"
	"github.com/trezcool/dotcoder/storage/database"
	inmemdb "github.com/trezcool/dotcoder/storage/database/inmem"
	sqlxrepos "github.com/trezcool/dotcoder/storage/database/sqlx"
)

// repositories groups the storage of every domain, whichever engine backs it.
type repositories struct {
	users       user.Repository
	chapters    chapter.Repository
	cheatsheets cheatsheet.Repository
	blogs       blog.Repository
	threads     thread.Repository
	practice    practice.Repository
	health      func(ctx context.Context) error
	close       func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		panic(fmt.Sprintf("building zap logger: %v", err))
	}
	logger := logsvc.NewRollbarLogger(zl.Named("API"), conf)
	dbLogger := logsvc.NewRollbarLogger(zl.Named("DB"), conf)
	defer logger.Sync()

	// set up DB
	repos, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(logger)

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	limiter, err := setUpLimiter(conf, repos.threads)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up thread limiter: %v", err), err)
	}
	if conf.AI.APIKey == "" {
		logger.Warn("GROQ_API_KEY is not set: AI features will use their fallbacks")
	}

	chapterSvc := chapter.NewService(repos.chapters)
	practiceSvc := practice.NewService(repos.practice)
	aiProvider := ai.NewProvider(aisvc.NewGroqClient(conf), logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       user.NewService(repos.users, mailSvc),
			ChapterSvc:    chapterSvc,
			CheatsheetSvc: cheatsheet.NewService(repos.cheatsheets),
			BlogSvc:       blog.NewService(repos.blogs, mailSvc),
			ThreadSvc:     thread.NewService(repos.threads, limiter, conf.Threads.DailyLimit),
			PracticeSvc:   practiceSvc,
			AISvc:         ai.NewService(aiProvider, chapterSvc, practiceSvc),
			Validate:      validate,
			Translator:    translator,
			Health:        repos.health,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpRepositories(conf *core.Config) (repositories, error) {
	if conf.Database.IsMemory() {
		db := inmemdb.Open()
		return repositories{
			users:       inmemdb.NewUserRepository(db),
			chapters:    inmemdb.NewChapterRepository(db),
			cheatsheets: inmemdb.NewCheatsheetRepository(db),
			blogs:       inmemdb.NewBlogRepository(db),
			threads:     inmemdb.NewThreadRepository(db),
			practice:    inmemdb.NewPracticeRepository(db),
			health:      func(context.Context) error { return nil },
			close:       func() error { return nil },
		}, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return repositories{}, err
	}
	return repositories{
		users:       sqlxrepos.NewUserRepository(db),
		chapters:    sqlxrepos.NewChapterRepository(db),
		cheatsheets: sqlxrepos.NewCheatsheetRepository(db),
		blogs:       sqlxrepos.NewBlogRepository(db),
		threads:     sqlxrepos.NewThreadRepository(db),
		practice:    sqlxrepos.NewPracticeRepository(db),
		health:      func(ctx context.Context) error { return database.Check(ctx, db) },
		close:       db.Close,
	}, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

// setUpLimiter shares the daily thread quota through redis when configured.
// A nil limiter makes the thread service count from the store.
func setUpLimiter(conf *core.Config, threads thread.Repository) (thread.Limiter, error) {
	if conf.Redis.URL == "" {
		return nil, nil
	}
	client, err := quotasvc.NewRedisClient(conf.Redis.URL)
	if err != nil {
		return nil, err
	}
	return quotasvc.NewRedisLimiter(client, threads), nil
}
