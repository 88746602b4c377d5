package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

var nowFunc = time.Now // mockable

// SnapshotRepository is the in-memory snapshot store used in DEV and tests.
type SnapshotRepository struct {
	db *snapshotTable
}

var (
	_ snapshot.Repository   = (*SnapshotRepository)(nil) // interface compliance check
	_ snapshot.Transitioner = (*SnapshotRepository)(nil)
)

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db.snapshot}
}

// CreateSnapshot stores snap, assigning it an ID when it has none.
func (repo *SnapshotRepository) CreateSnapshot(_ context.Context, snap snapshot.Snapshot) (snapshot.Snapshot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	snap.Process = lifecycle.ParseProcessType(string(snap.Process))
	snap.Status = lifecycle.ParseStatus(string(snap.Status))
	if snap.DueAt != nil {
		due := snap.DueAt.UTC()
		snap.DueAt = &due
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = nowFunc().UTC()
	}
	repo.db.table[snapshotKey{process: snap.Process, id: snap.ID}] = &snap
	return snap, nil
}

func (repo *SnapshotRepository) GetSnapshot(_ context.Context, pt lifecycle.ProcessType, id string) (snapshot.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if snap, ok := repo.db.table[snapshotKey{process: pt, id: id}]; ok {
		return *snap, nil
	}
	return snapshot.Snapshot{}, snapshot.ErrNotFound
}

func (repo *SnapshotRepository) QuerySnapshots(_ context.Context, filter snapshot.QueryFilter) ([]snapshot.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	statuses := make(map[lifecycle.Status]bool, len(filter.Statuses))
	for _, st := range filter.StatusList() {
		statuses[st] = true
	}

	snaps := make([]snapshot.Snapshot, 0)
	for _, snap := range repo.db.table {
		if snap.Process != filter.Process {
			continue
		}
		if len(statuses) > 0 && !statuses[snap.Status] {
			continue
		}
		// snapshots with search keyword matching the Title or the ID ?
		if search != "" &&
			!strings.Contains(strings.ToLower(snap.Title), search) &&
			!strings.Contains(strings.ToLower(snap.ID), search) {
			continue
		}
		if !filter.DueFrom.IsZero() && (snap.DueAt == nil || snap.DueAt.Before(filter.DueFrom)) {
			continue
		}
		if !filter.DueTo.IsZero() && (snap.DueAt == nil || snap.DueAt.After(filter.DueTo)) {
			continue
		}
		snaps = append(snaps, *snap)
	}

	sortSnapshots(snaps, filter.Orderings)
	if filter.Limit > 0 && len(snaps) > filter.Limit {
		snaps = snaps[:filter.Limit]
	}
	return snaps, nil
}

// Transition moves the stored status to action.Target if it is still in action.From.
func (repo *SnapshotRepository) Transition(_ context.Context, snap snapshot.Snapshot, action lifecycle.Action) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[snapshotKey{process: snap.Process, id: snap.ID}]
	if !ok {
		return snapshot.ErrNotFound
	}
	if !statusIn(stored.Status, action.From) {
		return snapshot.ErrStaleStatus
	}
	stored.Status = action.Target
	stored.UpdatedAt = nowFunc().UTC()
	return nil
}

func statusIn(st lifecycle.Status, statuses []lifecycle.Status) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

// sortSnapshots orders by the given orderings, then by ID for stable listings.
func sortSnapshots(snaps []snapshot.Snapshot, orderings []core.DBOrdering) {
	sort.SliceStable(snaps, func(i, j int) bool {
		a, b := snaps[i], snaps[j]
		for _, o := range orderings {
			cmp := compareField(a, b, o.Field)
			if cmp == 0 {
				continue
			}
			if o.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return a.ID < b.ID
	})
}

func compareField(a, b snapshot.Snapshot, field string) int {
	switch field {
	case "due_at":
		return compareTimes(a.DueAt, b.DueAt)
	case "updated_at":
		return compareTimes(&a.UpdatedAt, &b.UpdatedAt)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "title":
		return strings.Compare(a.Title, b.Title)
	}
	return 0
}

// compareTimes sorts nil instants last.
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}
