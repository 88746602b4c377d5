package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/user"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle   = lipgloss.NewStyle().Width(26)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	stateMarks = map[lifecycle.StageState]string{
		lifecycle.StageCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✔"),
		lifecycle.StageCurrent:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("●"),
		lifecycle.StagePending:   mutedStyle.Render("○"),
	}
)

type projectRequest struct {
	process string
	status  string
	due     string
	now     string
	roles   string
	perms   string
}

type projectOutput struct {
	Projection lifecycle.Projection `json:"projection"`
	Actions    []lifecycle.ActionID `json:"actions"`
}

func parseTimestamp(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "-%s must be an RFC3339 timestamp", name)
	}
	return t.UTC(), nil
}

func (cli *commandLine) project(req projectRequest, table bool) error {
	pt := lifecycle.ParseProcessType(req.process)
	status := lifecycle.ParseStatus(req.status)

	due, err := parseTimestamp("due", req.due)
	if err != nil {
		return err
	}
	now, err := parseTimestamp("now", req.now)
	if err != nil {
		return err
	}
	var dueAt *time.Time
	if !due.IsZero() {
		dueAt = &due
	}

	proj, err := cli.reg.Project(pt, status, dueAt, now)
	if err != nil {
		return err
	}

	caller := user.User{ID: "cli", Permissions: core.SplitCSV(req.perms)}
	for _, role := range core.SplitCSV(req.roles) {
		caller.Roles = append(caller.Roles, core.CleanString(role, true /* lower */))
	}
	actions, err := cli.reg.PermittedActions(pt, status, caller.Capabilities())
	if err != nil {
		return err
	}

	if !table {
		return cli.printJSON(projectOutput{Projection: proj, Actions: actions})
	}

	p := cli.reg.MustProcess(pt)
	fmt.Fprintln(cli.out, headerStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Type)), mutedStyle.Render(string(proj.Status)))
	if proj.UnknownStatus {
		fmt.Fprintln(cli.out, overdueStyle.Render("unknown status"))
	}
	for _, stage := range proj.Stages {
		line := fmt.Sprintf("  %s %d %s", stateMarks[stage.State], stage.Order, labelStyle.Render(stage.Label))
		if stage.Overdue {
			line += overdueStyle.Render("overdue")
		}
		fmt.Fprintln(cli.out, strings.TrimRight(line, " "))
	}
	switch {
	case proj.Rejected:
		fmt.Fprintln(cli.out, mutedStyle.Render("rejected"))
	case proj.Terminal:
		fmt.Fprintln(cli.out, mutedStyle.Render("completed"))
	}

	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	if len(names) == 0 {
		names = append(names, "-")
	}
	fmt.Fprintln(cli.out, headerStyle.Render("actions:"), strings.Join(names, ", "))
	return nil
}

func (cli *commandLine) processes(table bool) error {
	types := cli.reg.Types()
	if !table {
		procs := make([]lifecycle.Process, 0, len(types))
		for _, pt := range types {
			procs = append(procs, cli.reg.MustProcess(pt))
		}
		return cli.printJSON(procs)
	}

	for _, pt := range types {
		p := cli.reg.MustProcess(pt)
		fmt.Fprintln(cli.out, headerStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Type)))
		for _, stage := range p.Stages {
			statuses := make([]string, 0, len(stage.Statuses))
			for _, st := range stage.Statuses {
				statuses = append(statuses, string(st))
			}
			fmt.Fprintf(cli.out, "  %d %s%s\n", stage.Order, labelStyle.Render(stage.Label), mutedStyle.Render(strings.Join(statuses, ", ")))
		}
	}
	return nil
}

func (cli *commandLine) printJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding output")
}
