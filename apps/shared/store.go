// Package shared wires the dependencies common to the API & admin apps.
package shared

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
	backendsvc "github.com/Sathishnaik786/Employee-Management-System-sub000/services/backend"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database"
	dummydb "github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database/dummy"
	sqlxrepos "github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database/sqlx"
)

// Store is a snapshot store with the func releasing it.
type Store struct {
	Repo  snapshot.Repository
	Trans snapshot.Transitioner
	Close func() error
}

// OpenStore returns the snapshot store selected by conf.Store.
func OpenStore(conf *core.Config, logger core.Logger) (Store, error) {
	noop := func() error { return nil }

	switch conf.Store {
	case core.StoreMemory:
		db, err := dummydb.Open()
		if err != nil {
			return Store{}, errors.Wrap(err, "opening in-memory store")
		}
		repo := dummydb.NewSnapshotRepository(db)
		logger.Warn("using the in-memory store: entities are lost on restart")
		return Store{Repo: repo, Trans: repo, Close: noop}, nil

	case core.StorePostgres:
		db, err := SetUpDB(conf)
		if err != nil {
			return Store{}, err
		}
		repo := sqlxrepos.NewSnapshotRepository(db)
		return Store{Repo: repo, Trans: repo, Close: db.Close}, nil

	case core.StoreBackend:
		client := backendsvc.NewClient(conf.Backend, logger)
		return Store{Repo: client, Trans: client, Close: noop}, nil
	}
	return Store{}, errors.Errorf("unknown store %q", conf.Store)
}

// SetUpDB creates the database if needed, opens it and applies pending migrations.
func SetUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
