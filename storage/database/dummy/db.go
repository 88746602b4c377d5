package dummydb

import (
	"sync"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

type (
	DB struct {
		snapshot *snapshotTable
	}

	// snapshotKey mirrors the (process, id) primary key of the SQL table: IDs are only unique per process.
	snapshotKey struct {
		process lifecycle.ProcessType
		id      string
	}

	snapshotTable struct {
		sync.RWMutex
		table map[snapshotKey]*snapshot.Snapshot
	}
)

func Open() (*DB, error) {
	db := &DB{
		snapshot: &snapshotTable{table: make(map[snapshotKey]*snapshot.Snapshot)},
	}
	return db, nil
}
