package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Sathishnaik786/Employee-Management-System-sub000/apps/api/echo"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/apps/shared"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
	emailsvc "github.com/Sathishnaik786/Employee-Management-System-sub000/services/email"
	dummydb "github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database/dummy"
	testutil "github.com/Sathishnaik786/Employee-Management-System-sub000/tests"
)

var (
	t0   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past = t0.Add(-48 * time.Hour)
	soon = t0.Add(48 * time.Hour)
)

func setup(t *testing.T, isTTY bool) (*commandLine, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	conf := &core.Config{
		AppName:   "ems-lifecycle",
		SecretKey: "s3cr3t",
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
	}

	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewSnapshotRepository(db)
	testutil.CreateSnapshot(t, repo, lifecycle.ProcessLeave, "lv-1", lifecycle.LeavePending, "Annual leave", past)
	testutil.CreateSnapshot(t, repo, lifecycle.ProcessLeave, "lv-2", lifecycle.LeaveManagerApproved, "Sick leave", soon)
	testutil.CreateSnapshot(t, repo, lifecycle.ProcessLeave, "lv-3", lifecycle.LeaveHRApproved, "Study leave", past)

	return &commandLine{
		conf:   conf,
		reg:    lifecycle.DefaultRegistry(),
		logger: testutil.NewLogger(),
		mailer: emailsvc.NewConsoleService(conf, nil),
		out:    out,
		isTTY:  isTTY,
		openDB: func() (*sql.DB, error) {
			// sql.Open does not connect
			return sql.Open("postgres", "postgres://localhost:5432/ems_test?sslmode=disable")
		},
		openStore: func() (shared.Store, error) {
			return shared.Store{Repo: repo, Trans: repo, Close: func() error { return nil }}, nil
		},
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Equal(t, tt.wantErrStr, err.Error())
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t, false)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"processes", "-lol"}, wantErr: errHelp},
		{name: "project: no args", args: []string{"project"}, wantErr: errHelp},
		{name: "project: no status", args: []string{"project", "-process", "phd_admission"}, wantErr: errHelp},
		{name: "token: no user", args: []string{"token", "-role", "finance:"}, wantErr: errHelp},
		{name: "remind: no process", args: []string{"remind", "-to", "hr@uni.edu"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args))
			assert.NotEmpty(t, out.String())
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t, false)

	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		if db == nil {
			return fmt.Errorf("no database")
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "0"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "stage_due_dates", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_project(t *testing.T) {
	args := []string{
		"admin", "project",
		"-process", " PhD_Admission ",
		"-status", "documents_verified",
		"-due", "2021-01-01T00:00:00+01:00",
		"-now", "2021-01-02T00:00:00Z",
		"-perm", "payment_initiate",
	}

	t.Run("json", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run(args))

		var got projectOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, lifecycle.ProcessPhDAdmission, got.Projection.Process)
		assert.Equal(t, lifecycle.PhDDocumentsVerified, got.Projection.Status)
		assert.Equal(t, "payment", got.Projection.Current)
		assert.True(t, got.Projection.Overdue)
		assert.Equal(t, []lifecycle.ActionID{lifecycle.ActionInitiatePayment}, got.Actions)
		require.NotNil(t, got.Projection.DueAt)
		assert.Equal(t, time.Date(2020, 12, 31, 23, 0, 0, 0, time.UTC), *got.Projection.DueAt)
	})

	t.Run("table", func(t *testing.T) {
		cli, out := setup(t, true)
		require.NoError(t, cli.run(args))

		text := out.String()
		assert.Contains(t, text, "PhD Admission (phd_admission)")
		assert.Contains(t, text, "Fee Payment")
		assert.Contains(t, text, "overdue")
		assert.Contains(t, text, "actions: INITIATE_PAYMENT")
	})

	t.Run("json flag wins on a terminal", func(t *testing.T) {
		cli, out := setup(t, true)
		require.NoError(t, cli.run(append(args, "-json")))
		assert.True(t, json.Valid(out.Bytes()))
	})

	t.Run("role grants actions", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "project", "-process", "phd_admission", "-status", "PAYMENT_PENDING", "-role", "Finance:"}))

		var got projectOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []lifecycle.ActionID{lifecycle.ActionConfirmPayment}, got.Actions)
		assert.False(t, got.Projection.Overdue)
	})

	t.Run("comma separated permissions", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run([]string{
			"admin", "project", "-process", "phd_admission", "-status", "PAYMENT_PENDING",
			"-perm", " , payment_confirm,, guide_allocate ",
		}))

		var got projectOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []lifecycle.ActionID{lifecycle.ActionConfirmPayment}, got.Actions)
	})

	t.Run("no permission", func(t *testing.T) {
		cli, out := setup(t, true)
		require.NoError(t, cli.run([]string{"admin", "project", "-process", "leave_request", "-status", "PENDING"}))
		assert.Contains(t, out.String(), "actions: -")
	})

	t.Run("unknown status", func(t *testing.T) {
		cli, out := setup(t, true)
		require.NoError(t, cli.run([]string{"admin", "project", "-process", "workflow", "-status", "LOST"}))
		assert.Contains(t, out.String(), "unknown status")
	})

	t.Run("unknown process", func(t *testing.T) {
		cli, _ := setup(t, false)
		err := cli.run([]string{"admin", "project", "-process", "payroll", "-status", "DRAFT"})
		assert.True(t, lifecycle.IsUnknownProcessType(err))
	})

	t.Run("invalid due", func(t *testing.T) {
		cli, _ := setup(t, false)
		err := cli.run([]string{"admin", "project", "-process", "workflow", "-status", "CREATED", "-due", "tomorrow"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "-due must be an RFC3339 timestamp"))
	})
}

func Test_commandLine_processes(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "processes"}))

		var got []lifecycle.Process
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, len(cli.reg.Types()))
		for i, pt := range cli.reg.Types() {
			assert.Equal(t, pt, got[i].Type)
		}
	})

	t.Run("table", func(t *testing.T) {
		cli, out := setup(t, true)
		require.NoError(t, cli.run([]string{"admin", "processes"}))

		text := out.String()
		assert.Contains(t, text, "PhD Admission (phd_admission)")
		assert.Contains(t, text, "SCRUTINY_APPROVED, INTERVIEW_SCHEDULED")
	})
}

func Test_commandLine_token(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cli, out := setup(t, false)
		err := cli.run([]string{"admin", "token", "-user", " 42 ", "-email", "Guide@Uni.EDU", "-role", "faculty:guide", "-perm", "payment_confirm"})
		require.NoError(t, err)

		claims := new(echoapi.Claims)
		tok, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (interface{}, error) {
			return []byte(cli.conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.True(t, tok.Valid)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "ems-lifecycle", claims.Issuer)
		assert.Equal(t, "guide@uni.edu", claims.Email)
		assert.Equal(t, []string{"faculty:guide"}, claims.Roles)
		assert.Equal(t, []string{"payment_confirm"}, claims.Permissions)
	})

	tests := []cliTest{
		{name: "invalid role", args: []string{"token", "-user", "1", "-role", "janitor:"}, wantErrStr: "roles: invalid roles"},
		{name: "invalid email", args: []string{"token", "-user", "1", "-email", "lol"}, wantErrStr: "email: email must be a valid email address"},
		{name: "invalid permission", args: []string{"token", "-user", "1", "-perm", "fire_everyone"}, wantErrStr: "permissions[0]: permissions[0] contains an unknown permission"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t, false)
			err := cli.run(args)
			tt.check(t, err)
			var vErr *core.ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Empty(t, out.String())
		})
	}
}

func Test_commandLine_remind(t *testing.T) {
	now := t0.Format(time.RFC3339)

	t.Run("sends digest", func(t *testing.T) {
		cli, out := setup(t, false)
		err := cli.run([]string{"admin", "remind", "-process", "leave_request", "-to", "HR <hr@uni.edu>, dean@uni.edu", "-now", now})
		require.NoError(t, err)
		assert.Equal(t, "sent a digest of 1 overdue item(s) to 2 recipient(s)\n", out.String())

		sent := cli.mailer.(*emailsvc.ConsoleService).SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "1 overdue Leave Request item(s)", sent[0].Subject)
		assert.Contains(t, sent[0].TextContent, "Annual leave (lv-1)")
		assert.NotContains(t, sent[0].TextContent, "lv-3") // completed
	})

	t.Run("dry run", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "remind", "-process", "leave_request", "-dry", "-now", now}))

		var digest snapshot.OverdueDigest
		require.NoError(t, json.Unmarshal(out.Bytes(), &digest))
		assert.Equal(t, 1, digest.Count)
		require.Len(t, digest.Items, 1)
		assert.Equal(t, "lv-1", digest.Items[0].ID)
		assert.Empty(t, cli.mailer.(*emailsvc.ConsoleService).SentMessages())
	})

	t.Run("bad recipients", func(t *testing.T) {
		cli, _ := setup(t, false)
		err := cli.run([]string{"admin", "remind", "-process", "leave_request", "-to", "hr@"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "-to must be a list of email addresses: "))
	})

	t.Run("nothing overdue", func(t *testing.T) {
		cli, out := setup(t, false)
		require.NoError(t, cli.run([]string{"admin", "remind", "-process", "workflow", "-to", "hr@uni.edu"}))
		assert.Equal(t, "no overdue items\n", out.String())
	})

	tests := []cliTest{
		{name: "no recipients", args: []string{"remind", "-process", "leave_request"}, wantErr: snapshot.ErrNoRecipients},
		{name: "unknown process", args: []string{"remind", "-process", "payroll", "-to", "hr@uni.edu"}, wantErrStr: `unknown process type "payroll"`},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, _ := setup(t, false)
			tt.check(t, cli.run(args))
		})
	}
}
