package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StatusOrderAndStages(t *testing.T) {
	reg := DefaultRegistry()

	statuses, err := reg.StatusOrder(ProcessPhDAdmission)
	require.NoError(t, err)
	assert.Equal(t, []Status{
		PhDDraft, PhDSubmitted, PhDScrutinyApproved, PhDInterviewScheduled, PhDInterviewCompleted,
		PhDDocumentsVerified, PhDPaymentPending, PhDPaymentCompleted, PhDGuideAllocated, PhDRejected,
	}, statuses)

	stages, err := reg.Stages(ProcessPhDAdmission)
	require.NoError(t, err)
	require.Len(t, stages, 6)
	for i, s := range stages {
		assert.Equal(t, i+1, s.Order)
	}

	// returned tables are copies
	statuses[0] = "MUTATED"
	stages[0].Statuses[0] = "MUTATED"
	again, _ := reg.StatusOrder(ProcessPhDAdmission)
	assert.Equal(t, PhDDraft, again[0])
	againStages, _ := reg.Stages(ProcessPhDAdmission)
	assert.Equal(t, PhDDraft, againStages[0].Statuses[0])

	_, err = reg.StatusOrder("payroll")
	assert.True(t, IsUnknownProcessType(err))
	_, err = reg.Stages("payroll")
	assert.True(t, IsUnknownProcessType(err))
}

func TestRegistry_Types(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []ProcessType{ProcessLeave, ProcessPhDAdmission, ProcessWorkflow}, reg.Types())
	assert.True(t, reg.Has(" PHD_Admission "))
	assert.False(t, reg.Has("payroll"))
}

func TestRegistry_MustProcess(t *testing.T) {
	reg := DefaultRegistry()

	assert.NotPanics(t, func() { reg.MustProcess(ProcessLeave) })
	assert.Panics(t, func() { reg.MustProcess("payroll") })
}

func TestProcess_terminal(t *testing.T) {
	p := DefaultRegistry().MustProcess(ProcessLeave)

	assert.True(t, p.IsTerminal(LeaveHRApproved))
	assert.True(t, p.IsTerminal(LeaveRejected))
	assert.True(t, p.IsTerminal(LeaveCancelled))
	assert.False(t, p.IsTerminal(LeavePending))
	assert.True(t, p.IsRejected(LeaveCancelled))
	assert.False(t, p.IsRejected(LeaveHRApproved))
}

func TestRegistry_Register(t *testing.T) {
	valid := func() Process {
		return Process{
			Type:     "onboarding",
			Statuses: []Status{"new", "docs", "done", "ARCHIVED"},
			Terminal: []Status{"archived"},
			Rejected: []Status{"dropped"},
			Stages: []Stage{
				{Key: "start", Order: 1, Statuses: []Status{"NEW"}},
				{Key: "paperwork", Order: 2, Statuses: []Status{"DOCS", "DONE"}},
			},
			Actions: []Action{
				{ID: "COLLECT", From: []Status{"new"}, Target: "docs"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *Process)
		wantErr string
	}{
		{name: "valid"},
		{name: "no type", mutate: func(p *Process) { p.Type = " " }, wantErr: ErrEmptyProcessType.Error()},
		{name: "no statuses", mutate: func(p *Process) { p.Statuses = nil }, wantErr: `process "onboarding": process has no statuses`},
		{
			name: "duplicate status", mutate: func(p *Process) { p.Rejected = []Status{"docs"} },
			wantErr: `process "onboarding": duplicate status "DOCS"`,
		},
		{
			name: "unknown terminal", mutate: func(p *Process) { p.Terminal = []Status{"LOST"} },
			wantErr: `process "onboarding": terminal status "LOST" not in vocabulary`,
		},
		{
			name: "stage without key", mutate: func(p *Process) { p.Stages[0].Key = "" },
			wantErr: `process "onboarding": stage with order 1 has no key`,
		},
		{
			name: "duplicate stage order", mutate: func(p *Process) { p.Stages[1].Order = 1 },
			wantErr: `process "onboarding": duplicate stage order 1`,
		},
		{
			name: "duplicate stage key", mutate: func(p *Process) { p.Stages[1].Key = "start" },
			wantErr: `process "onboarding": duplicate stage key "start"`,
		},
		{
			name: "empty stage", mutate: func(p *Process) { p.Stages[1].Statuses = nil },
			wantErr: `process "onboarding": stage "paperwork" maps no status`,
		},
		{
			name: "stage with unknown status", mutate: func(p *Process) { p.Stages[1].Statuses = []Status{"LOST"} },
			wantErr: `process "onboarding": stage "paperwork": status "LOST" not in vocabulary`,
		},
		{
			name: "action with unknown status", mutate: func(p *Process) { p.Actions[0].From = []Status{"LOST"} },
			wantErr: `process "onboarding": action "COLLECT": status "LOST" not in vocabulary`,
		},
		{
			name: "action with unknown target", mutate: func(p *Process) { p.Actions[0].Target = "LOST" },
			wantErr: `process "onboarding": action "COLLECT": target "LOST" not in vocabulary`,
		},
		{
			name: "non-terminal status outside every stage", mutate: func(p *Process) { p.Stages[1].Statuses = []Status{"DONE"} },
			wantErr: `process "onboarding": status "DOCS" maps to no stage`,
		},
		{
			name: "action with empty permission", mutate: func(p *Process) { p.Actions[0].Requires = []Permission{" "} },
			wantErr: `process "onboarding": action "COLLECT": empty permission`,
		},
		{
			name: "duplicate action", mutate: func(p *Process) { p.Actions = append(p.Actions, p.Actions[0]) },
			wantErr: `process "onboarding": duplicate action "COLLECT"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			err := NewRegistry().Register(p)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_Register_normalises(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Process{
		Type:     " Onboarding ",
		Statuses: []Status{"new", "docs", "done", "archived"},
		Terminal: []Status{"done"},
		Stages: []Stage{
			{Key: "paperwork", Order: 2, Statuses: []Status{"docs"}},
			{Key: "start", Order: 1, Statuses: []Status{"new"}},
		},
		Actions: []Action{
			{ID: "CLOSE", From: []Status{"docs"}, Requires: []Permission{" onboarding_close "}, Target: "done"},
		},
	}))

	p, err := reg.Process("onboarding")
	require.NoError(t, err)
	assert.Equal(t, ProcessType("onboarding"), p.Type)
	assert.Equal(t, []Status{"NEW", "DOCS", "DONE", "ARCHIVED"}, p.Statuses)
	assert.Equal(t, "start", p.Stages[0].Key)
	assert.True(t, p.IsTerminal("DONE"))
	assert.True(t, p.IsTerminal("ARCHIVED"))
	assert.False(t, p.IsTerminal("DOCS"))

	pr, err := reg.Project("onboarding", "done", nil, time.Time{})
	require.NoError(t, err)
	assert.True(t, pr.Terminal)
	assert.Equal(t, []StageState{StageCompleted, StageCompleted}, stageStates(pr))

	closing, ok := p.Action("CLOSE")
	require.True(t, ok)
	assert.Equal(t, []Permission{"ONBOARDING_CLOSE"}, closing.Requires)
	ids, err := reg.PermittedActions("onboarding", "docs", NewCapabilities("onboarding_close"))
	require.NoError(t, err)
	assert.Equal(t, []ActionID{"CLOSE"}, ids)

	assert.EqualError(t, reg.Register(Process{Type: "onboarding", Statuses: []Status{"A"}}), `process "onboarding": already registered`)
}

func TestRegistry_Register_unstagedStatus(t *testing.T) {
	err := NewRegistry().Register(Process{
		Type:     "gaps",
		Statuses: []Status{"A", "B", "C"},
		Stages: []Stage{
			{Key: "first", Order: 1, Statuses: []Status{"A"}},
			{Key: "last", Order: 2, Statuses: []Status{"C"}},
		},
	})
	var defErr *DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, ProcessType("gaps"), defErr.Type)
	assert.EqualError(t, err, `process "gaps": status "B" maps to no stage`)

	// terminal and rejected statuses may stay outside the stages
	err = NewRegistry().Register(Process{
		Type:     "gaps",
		Statuses: []Status{"A", "B"},
		Rejected: []Status{"X"},
		Stages:   []Stage{{Key: "first", Order: 1, Statuses: []Status{"A"}}},
	})
	assert.NoError(t, err)
}
