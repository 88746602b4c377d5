package lifecycle

import (
	"time"
)

var nowFunc = time.Now // mockable

// StageState is the projected state of one stage.
type StageState string

const (
	StageCompleted StageState = "completed"
	StageCurrent   StageState = "current"
	StagePending   StageState = "pending"
)

type (
	ProjectedStage struct {
		Key     string     `json:"key"`
		Label   string     `json:"label"`
		Order   int        `json:"order"`
		State   StageState `json:"state"`
		Overdue bool       `json:"overdue"`
	}

	// Projection is the presentation-ready stage model of one entity snapshot.
	// It is recomputed on every call and never stored.
	Projection struct {
		Process       ProcessType      `json:"process"`
		Status        Status           `json:"status"`
		Stages        []ProjectedStage `json:"stages"`
		Current       string           `json:"current,omitempty"` // key of the current stage
		Overdue       bool             `json:"overdue"`
		Terminal      bool             `json:"terminal"`
		Rejected      bool             `json:"rejected"`
		UnknownStatus bool             `json:"unknown_status"`
		DueAt         *time.Time       `json:"due_at,omitempty"` // UTC
		EvaluatedAt   time.Time        `json:"evaluated_at"`     // UTC
	}
)

// CurrentStage returns the current projected stage, if any.
func (pr Projection) CurrentStage() (ProjectedStage, bool) {
	for _, s := range pr.Stages {
		if s.State == StageCurrent {
			return s, true
		}
	}
	return ProjectedStage{}, false
}

// Project computes the stage projection of pt for status.
// A zero now is replaced by the current instant, read once for the whole projection.
// An unknown status is not an error: all stages are pending and UnknownStatus is set.
func (r *Registry) Project(pt ProcessType, status Status, dueAt *time.Time, now time.Time) (Projection, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return Projection{}, err
	}
	return p.project(ParseStatus(string(status)), dueAt, now), nil
}

func (p *Process) project(status Status, dueAt *time.Time, now time.Time) Projection {
	if now.IsZero() {
		now = nowFunc()
	}
	now = now.UTC()

	pr := Projection{
		Process:     p.Type,
		Status:      status,
		Stages:      make([]ProjectedStage, len(p.Stages)),
		EvaluatedAt: now,
	}
	if dueAt != nil {
		due := dueAt.UTC()
		pr.DueAt = &due
	}
	for i, s := range p.Stages {
		pr.Stages[i] = ProjectedStage{Key: s.Key, Label: s.Label, Order: s.Order, State: StagePending}
	}

	currIdx, ok := p.IndexOf(status)
	if !ok {
		pr.UnknownStatus = true
		return pr
	}

	if p.IsTerminal(status) {
		pr.Terminal = true
		pr.Rejected = p.IsRejected(status)
		for i := range pr.Stages {
			pr.Stages[i].State = StageCompleted
		}
		return pr
	}

	for i, s := range p.Stages {
		switch {
		case pr.Current == "" && s.contains(status):
			// overlapping ranges: the lower order stage claims the status
			pr.Stages[i].State = StageCurrent
			pr.Stages[i].Overdue = pr.DueAt != nil && now.After(*pr.DueAt)
			pr.Current = s.Key
			pr.Overdue = pr.Stages[i].Overdue
		case p.allBefore(s, currIdx):
			pr.Stages[i].State = StageCompleted
		}
	}
	return pr
}

// allBefore reports whether every status of s precedes the status at idx.
func (p *Process) allBefore(s Stage, idx int) bool {
	for _, st := range s.Statuses {
		if p.index[st] >= idx {
			return false
		}
	}
	return true
}
