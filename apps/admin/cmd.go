package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/apps/shared"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	reg       *lifecycle.Registry
	logger    core.Logger
	mailer    core.EmailService
	out       io.Writer
	isTTY     bool // table output on a terminal, JSON otherwise
	openDB    func() (*sql.DB, error)
	openStore func() (shared.Store, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  processes [-json]                                        - list the registered processes")
	fmt.Fprintln(cli.out, "  project -process TYPE -status STATUS [-due RFC3339]")
	fmt.Fprintln(cli.out, "          [-now RFC3339] [-role r,..] [-perm p,..] [-json]  - project a status onto its stages")
	fmt.Fprintln(cli.out, "  remind -process TYPE -to ADDRESSES [-now RFC3339] [-dry]   - email the digest of overdue items")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...]                                - run a goose migration command")
	fmt.Fprintln(cli.out, "  token -user ID [-name NAME] [-email EMAIL]")
	fmt.Fprintln(cli.out, "        [-role r,..] [-perm p,..]                          - issue a signed API token")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse maps -h and flag errors to errHelp; the flag package already printed the usage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "processes":
		fs := cli.newFlagSet("processes")
		asJSON := fs.Bool("json", false, "Force JSON output.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.processes(cli.isTTY && !*asJSON)

	case "project":
		fs := cli.newFlagSet("project")
		req := projectRequest{}
		fs.StringVar(&req.process, "process", "", "The process type, eg. phd_admission.")
		fs.StringVar(&req.status, "status", "", "The current backend status.")
		fs.StringVar(&req.due, "due", "", "Optional due date of the current stage (RFC3339).")
		fs.StringVar(&req.now, "now", "", "Optional evaluation instant (RFC3339). Defaults to now.")
		fs.StringVar(&req.roles, "role", "", "Comma separated caller roles.")
		fs.StringVar(&req.perms, "perm", "", "Comma separated caller permissions.")
		asJSON := fs.Bool("json", false, "Force JSON output.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		if req.process == "" || req.status == "" {
			fs.Usage()
			return errHelp
		}
		return cli.project(req, cli.isTTY && !*asJSON)

	case "remind":
		fs := cli.newFlagSet("remind")
		req := remindRequest{}
		fs.StringVar(&req.process, "process", "", "The process type, eg. leave_request.")
		fs.StringVar(&req.to, "to", "", "Comma separated recipients, eg. \"HR <hr@uni.edu>, dean@uni.edu\".")
		fs.StringVar(&req.now, "now", "", "Optional evaluation instant (RFC3339). Defaults to now.")
		fs.BoolVar(&req.dryRun, "dry", false, "Print the digest as JSON instead of sending it.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		if req.process == "" {
			fs.Usage()
			return errHelp
		}
		return cli.remind(req)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "token":
		fs := cli.newFlagSet("token")
		req := tokenRequest{}
		fs.StringVar(&req.id, "user", "", "The user ID (token subject).")
		fs.StringVar(&req.name, "name", "", "The user's name.")
		fs.StringVar(&req.email, "email", "", "The user's email.")
		fs.StringVar(&req.roles, "role", "", "Comma separated roles, eg. finance:,faculty:guide.")
		fs.StringVar(&req.perms, "perm", "", "Comma separated explicit permissions.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		if req.id == "" {
			fs.Usage()
			return errHelp
		}
		return cli.token(req)

	default:
		cli.printUsage()
		return errHelp
	}
}
