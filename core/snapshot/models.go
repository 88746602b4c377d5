package snapshot

import (
	"time"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var OrderingFields = []string{"due_at", "updated_at", "status", "title"}

// Snapshot is the state of one long-running entity (PhD application, leave request, ...)
// as reported by the store that owns it.
type Snapshot struct {
	ID        string                `json:"id" db:"id"`
	Process   lifecycle.ProcessType `json:"process" db:"process"`
	Status    lifecycle.Status      `json:"status" db:"status"`
	Title     string                `json:"title" db:"title"`
	DueAt     *time.Time            `json:"due_at" db:"due_at"`         // UTC
	UpdatedAt time.Time             `json:"updated_at" db:"updated_at"` // UTC
}

// View is a snapshot with its projection and the actions the caller may attempt.
type View struct {
	Snapshot   Snapshot             `json:"entity"`
	Projection lifecycle.Projection `json:"projection"`
	Actions    []lifecycle.ActionID `json:"actions"`
}

// QueryFilter narrows an entity listing. Overdue is evaluated after projection.
type QueryFilter struct {
	Process   lifecycle.ProcessType `json:"process"`
	Search    string                `json:"search,omitempty" validate:"omitempty,max=100"`
	Statuses  []string              `json:"status,omitempty" validate:"omitempty,dive,status"`
	Overdue   *bool                 `json:"overdue,omitempty"`
	DueFrom   time.Time             `json:"due_from"`
	DueTo     time.Time             `json:"due_to" validate:"omitempty,gtefield=DueFrom"`
	Orderings []core.DBOrdering     `json:"-"`
	Limit     int                   `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Statuses == nil && qf.Overdue == nil && qf.DueFrom.IsZero() && qf.DueTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	for i, st := range qf.Statuses {
		qf.Statuses[i] = string(lifecycle.ParseStatus(st))
	}
	if !qf.DueFrom.IsZero() {
		qf.DueFrom = qf.DueFrom.UTC()
	}
	if !qf.DueTo.IsZero() {
		qf.DueTo = qf.DueTo.UTC()
	}
}

// StatusList returns the filtered statuses as lifecycle statuses.
func (qf *QueryFilter) StatusList() []lifecycle.Status {
	if qf.Statuses == nil {
		return nil
	}
	statuses := make([]lifecycle.Status, 0, len(qf.Statuses))
	for _, st := range qf.Statuses {
		statuses = append(statuses, lifecycle.Status(st))
	}
	return statuses
}
