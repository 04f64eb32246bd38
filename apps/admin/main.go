package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/user"
	logsvc "github.com/trezcool/dotcoder/services/logger"
	"github.com/trezcool/dotcoder/storage/database"
	inmemdb "github.com/trezcool/dotcoder/storage/database/inmem"
	sqlxrepos "github.com/trezcool/dotcoder/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		panic(fmt.Sprintf("building zap logger: %v", err))
	}
	logger := logsvc.NewRollbarLogger(zl.Named("ADMIN"), conf)
	defer logger.Sync()

	// set up DB
	var (
		db      *sql.DB
		usrRepo user.Repository
	)
	if conf.Database.IsMemory() {
		usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	} else {
		sqlxDB, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer sqlxDB.Close()
		db = sqlxDB.DB
		usrRepo = sqlxrepos.NewUserRepository(sqlxDB)
	}

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(usrRepo, nil),
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		logger.Sync()
		os.Exit(1)
	}
}
