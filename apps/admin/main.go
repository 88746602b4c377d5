package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/apps/shared"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	emailsvc "github.com/Sathishnaik786/Employee-Management-System-sub000/services/email"
	logsvc "github.com/Sathishnaik786/Employee-Management-System-sub000/services/logger"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)

	mailer, err := emailsvc.New(conf, logger, os.Stdout)
	if err != nil {
		stdLogger.Fatalf("setting up email service: %v", err)
	}

	// start CLI
	cli := commandLine{
		conf:      conf,
		reg:       lifecycle.DefaultRegistry(),
		logger:    logger,
		mailer:    mailer,
		out:       os.Stdout,
		isTTY:     isTerminalFunc(int(os.Stdout.Fd())),
		openDB:    func() (*sql.DB, error) { return database.Open(conf) },
		openStore: func() (shared.Store, error) { return shared.OpenStore(conf, logger) },
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
