package sqlxrepos

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

func TestBuildQuery(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	base := "SELECT id, process, status, title, due_at, updated_at FROM workflow_snapshot WHERE "

	tests := []struct {
		name     string
		filter   snapshot.QueryFilter
		wantQ    string
		wantArgs []interface{}
	}{
		{
			name:     "process only",
			filter:   snapshot.QueryFilter{Process: lifecycle.ProcessLeave},
			wantQ:    base + "process = $1 ORDER BY id ASC",
			wantArgs: []interface{}{lifecycle.ProcessLeave},
		},
		{
			name: "all filters",
			filter: snapshot.QueryFilter{
				Process:   lifecycle.ProcessPhDAdmission,
				Statuses:  []string{"SUBMITTED", "DRAFT"},
				Search:    "jane",
				DueFrom:   from,
				Orderings: []core.DBOrdering{{Field: "due_at"}},
				Limit:     10,
			},
			wantQ: base + "process = $1 AND status = ANY($2) AND (title ILIKE $3 OR id ILIKE $3) AND due_at >= $4 " +
				"ORDER BY due_at DESC, id ASC LIMIT $5",
			wantArgs: []interface{}{
				lifecycle.ProcessPhDAdmission,
				pq.Array([]string{"SUBMITTED", "DRAFT"}),
				"%jane%",
				from.UTC(),
				10,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildQuery(tt.filter)
			assert.Equal(t, tt.wantQ, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestUTC(t *testing.T) {
	eat := time.FixedZone("EAT", 3*60*60)
	due := time.Date(2026, 3, 1, 3, 0, 0, 0, eat)
	snap := utc(snapshot.Snapshot{DueAt: &due, UpdatedAt: due})

	assert.Equal(t, time.UTC, snap.UpdatedAt.Location())
	assert.Equal(t, time.UTC, snap.DueAt.Location())
	assert.True(t, snap.DueAt.Equal(due))
	assert.Equal(t, eat, due.Location(), "input must not be mutated")
}
