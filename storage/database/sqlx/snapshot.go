package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

const snapshotColumns = "id, process, status, title, due_at, updated_at"

var nowFunc = time.Now // mockable

type SnapshotRepository struct {
	db *sqlx.DB
}

var (
	_ snapshot.Repository   = (*SnapshotRepository)(nil) // interface compliance check
	_ snapshot.Transitioner = (*SnapshotRepository)(nil)
)

// NewSnapshotRepository wraps a postgres connection opened with database.Open.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: sqlx.NewDb(db, "postgres")}
}

// trapNoRowsErr maps psql "no rows" err to snapshot.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return snapshot.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *SnapshotRepository) CreateSnapshot(ctx context.Context, snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = nowFunc()
	}
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	if snap.DueAt != nil {
		due := snap.DueAt.UTC()
		snap.DueAt = &due
	}
	q := `INSERT INTO workflow_snapshot (` + snapshotColumns + `)
		VALUES (:id, :process, :status, :title, :due_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, snap); err != nil {
		return snapshot.Snapshot{}, errors.Wrap(err, "inserting snapshot")
	}
	return snap, nil
}

func (repo *SnapshotRepository) GetSnapshot(ctx context.Context, pt lifecycle.ProcessType, id string) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	q := `SELECT ` + snapshotColumns + ` FROM workflow_snapshot WHERE process = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &snap, q, pt, id); err != nil {
		return snapshot.Snapshot{}, trapNoRowsErr(err, "getting snapshot")
	}
	return utc(snap), nil
}

func (repo *SnapshotRepository) QuerySnapshots(ctx context.Context, filter snapshot.QueryFilter) ([]snapshot.Snapshot, error) {
	q, args := buildQuery(filter)
	var snaps []snapshot.Snapshot
	if err := repo.db.SelectContext(ctx, &snaps, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying snapshots")
	}
	for i := range snaps {
		snaps[i] = utc(snaps[i])
	}
	if snaps == nil {
		snaps = make([]snapshot.Snapshot, 0)
	}
	return snaps, nil
}

// Transition is a compare-and-set on the stored status: the row only moves if its status is still in action.From.
func (repo *SnapshotRepository) Transition(ctx context.Context, snap snapshot.Snapshot, action lifecycle.Action) error {
	from := make([]string, 0, len(action.From))
	for _, st := range action.From {
		from = append(from, string(st))
	}
	q := `UPDATE workflow_snapshot SET status = $1, updated_at = $2
		WHERE process = $3 AND id = $4 AND status = ANY($5)`
	res, err := repo.db.ExecContext(ctx, q, action.Target, nowFunc().UTC(), snap.Process, snap.ID, pq.Array(from))
	if err != nil {
		return errors.Wrap(err, "updating snapshot status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating snapshot status")
	}
	if n > 0 {
		return nil
	}

	// nothing moved: either the entity is gone or its status changed underneath us
	if _, err = repo.GetSnapshot(ctx, snap.Process, snap.ID); err != nil {
		return err
	}
	return snapshot.ErrStaleStatus
}

// buildQuery translates filter into a positional postgres query.
func buildQuery(filter snapshot.QueryFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "process = "+arg(filter.Process))
	if len(filter.Statuses) > 0 {
		where = append(where, "status = ANY("+arg(pq.Array(filter.Statuses))+")")
	}
	// snapshots with search keyword matching the Title or the ID
	if filter.Search != "" {
		val := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %s OR id ILIKE %s)", val, val))
	}
	if !filter.DueFrom.IsZero() {
		where = append(where, "due_at >= "+arg(filter.DueFrom.UTC()))
	}
	if !filter.DueTo.IsZero() {
		where = append(where, "due_at <= "+arg(filter.DueTo.UTC()))
	}

	q := `SELECT ` + snapshotColumns + ` FROM workflow_snapshot WHERE ` + strings.Join(where, " AND ")

	orderList := make([]string, 0, len(filter.Orderings)+1)
	for _, ord := range filter.Orderings {
		orderList = append(orderList, ord.String())
	}
	orderList = append(orderList, "id ASC")
	q += " ORDER BY " + strings.Join(orderList, ", ")

	if filter.Limit > 0 {
		q += " LIMIT " + arg(filter.Limit)
	}
	return q, args
}

func utc(snap snapshot.Snapshot) snapshot.Snapshot {
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	if snap.DueAt != nil {
		due := snap.DueAt.UTC()
		snap.DueAt = &due
	}
	return snap
}
