// Package lifecycle projects backend lifecycle statuses onto stage timelines
// and gates the transition actions a caller may attempt.
package lifecycle

import (
	"strings"
)

type (
	// ProcessType identifies a registered lifecycle process, eg. "phd_admission".
	ProcessType string

	// Status is a backend-owned lifecycle status, eg. "DOCUMENTS_VERIFIED".
	Status string

	// Stage is a UI-facing checkpoint grouping one or more statuses.
	Stage struct {
		Key      string   `json:"key"`
		Label    string   `json:"label"`
		Order    int      `json:"order"`
		Statuses []Status `json:"statuses"`
	}

	// Process describes the vocabulary, stages and actions of one process type.
	// Statuses is ordered: the index of a status encodes temporal precedence.
	// Rejected statuses are appended after the main line by Register.
	Process struct {
		Type     ProcessType `json:"type"`
		Name     string      `json:"name"`
		Statuses []Status    `json:"statuses"`
		Terminal []Status    `json:"terminal,omitempty"`
		Rejected []Status    `json:"rejected,omitempty"`
		Stages   []Stage     `json:"stages"`
		Actions  []Action    `json:"actions"`

		index    map[Status]int
		terminal map[Status]bool
		rejected map[Status]bool
	}
)

// ParseStatus normalises a raw status string the way the backend spells them.
func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseProcessType normalises a raw process identifier.
func ParseProcessType(s string) ProcessType {
	return ProcessType(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) String() string { return string(s) }

func (pt ProcessType) String() string { return string(pt) }

// IndexOf returns the position of status in the vocabulary.
func (p *Process) IndexOf(status Status) (int, bool) {
	idx, ok := p.index[status]
	return idx, ok
}

// Has reports whether status belongs to the vocabulary.
func (p *Process) Has(status Status) bool {
	_, ok := p.index[status]
	return ok
}

// IsTerminal reports whether no further progression occurs from status:
// the last main-line status, any status flagged terminal and any rejection.
func (p *Process) IsTerminal(status Status) bool {
	return p.terminal[status] || p.rejected[status]
}

// IsRejected reports whether status is a rejection endpoint.
func (p *Process) IsRejected(status Status) bool {
	return p.rejected[status]
}

// Action returns the declared action with the given id.
func (p *Process) Action(id ActionID) (Action, bool) {
	for _, a := range p.Actions {
		if a.ID == id {
			a.From = copyStatuses(a.From)
			a.Requires = append([]Permission(nil), a.Requires...)
			return a, true
		}
	}
	return Action{}, false
}

// Stage returns the stage with the given key.
func (p *Process) Stage(key string) (Stage, bool) {
	for _, s := range p.Stages {
		if s.Key == key {
			return s, true
		}
	}
	return Stage{}, false
}

func (s Stage) contains(status Status) bool {
	for _, st := range s.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

func copyStatuses(statuses []Status) []Status {
	if statuses == nil {
		return nil
	}
	return append(make([]Status, 0, len(statuses)), statuses...)
}

// clone deep-copies the exported tables so callers can never mutate a registered Process.
func (p *Process) clone() Process {
	cp := Process{
		Type:     p.Type,
		Name:     p.Name,
		Statuses: copyStatuses(p.Statuses),
		Terminal: copyStatuses(p.Terminal),
		Rejected: copyStatuses(p.Rejected),
		Stages:   make([]Stage, 0, len(p.Stages)),
		Actions:  make([]Action, 0, len(p.Actions)),
		index:    p.index,
		terminal: p.terminal,
		rejected: p.rejected,
	}
	for _, s := range p.Stages {
		s.Statuses = copyStatuses(s.Statuses)
		cp.Stages = append(cp.Stages, s)
	}
	for _, a := range p.Actions {
		a.From = copyStatuses(a.From)
		a.Requires = append([]Permission(nil), a.Requires...)
		cp.Actions = append(cp.Actions, a)
	}
	return cp
}
