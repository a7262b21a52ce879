package main

import (
	"log"
	"os"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/user"
	appfs "github.com/trezcool/studytrack/fs"
	emailsvc "github.com/trezcool/studytrack/services/email"
	logsvc "github.com/trezcool/studytrack/services/logger"
	"github.com/trezcool/studytrack/storage/database"
	boiledrepos "github.com/trezcool/studytrack/storage/database/sqlboiler"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(logger, err)

	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	typeSvc := assignment.NewTypeService(boiledrepos.NewTypeRepository(db))

	// start CLI
	cli := commandLine{
		db:      db.DB,
		usrSvc:  user.NewService(database.NewTransactor(db), boiledrepos.NewUserRepository(db), typeSvc),
		typeSvc: typeSvc,
		dashSvc: dashboard.NewService(boiledrepos.NewDashboardRepository(db)),
		mailSvc: mailSvc,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil && err != errHelp {
		logger.Error("command failed", err)
	}
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
