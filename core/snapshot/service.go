package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var (
	// errors
	ErrNotFound           = errors.New("entity not found")
	ErrStaleStatus        = errors.New("entity status has changed; refresh and retry")
	ErrActionNotPermitted = errors.New("action not permitted")
	ErrUnknownState       = errors.New("entity state is unknown; the authoritative store did not answer in time")
	ErrStoreRefused       = errors.New("the authoritative store refused our credentials")
	ErrTransitionRejected = errors.New("the authoritative store rejected the transition")
)

var nowFunc = time.Now // mockable

type (
	// Repository reads entity snapshots from the store that owns them.
	Repository interface {
		GetSnapshot(ctx context.Context, pt lifecycle.ProcessType, id string) (Snapshot, error)
		// QuerySnapshots applies AND operation on available QueryFilter fields, except Overdue which is
		// evaluated by the Service after projection.
		QuerySnapshots(ctx context.Context, filter QueryFilter) ([]Snapshot, error)
	}

	// Transitioner forwards an action to the authoritative store.
	// It returns ErrStaleStatus when the stored status is no longer in action.From.
	Transitioner interface {
		Transition(ctx context.Context, snap Snapshot, action lifecycle.Action) error
	}

	Service struct {
		reg   *lifecycle.Registry
		repo  Repository
		trans Transitioner
		log   core.Logger
	}
)

func NewService(reg *lifecycle.Registry, repo Repository, trans Transitioner, logger core.Logger) *Service {
	return &Service{reg: reg, repo: repo, trans: trans, log: logger}
}

func (svc *Service) Registry() *lifecycle.Registry {
	return svc.reg
}

func (svc *Service) checkProcess(pt lifecycle.ProcessType) error {
	if !svc.reg.Has(pt) {
		return &lifecycle.UnknownProcessTypeError{Type: pt}
	}
	return nil
}

// checkIntegrity fails with a shutdown error when the store answered for another entity than the one asked for.
// An empty id only checks the process.
func checkIntegrity(snap Snapshot, pt lifecycle.ProcessType, id string) error {
	if snap.Process == pt && (id == "" || snap.ID == id) {
		return nil
	}
	return core.NewShutdownError(fmt.Sprintf("integrity issue: store returned %s/%s when asked for %s/%s", snap.Process, snap.ID, pt, id))
}

func (svc *Service) view(snap Snapshot, caps lifecycle.Capabilities, now time.Time) (View, error) {
	pr, err := svc.reg.Project(snap.Process, snap.Status, snap.DueAt, now)
	if err != nil {
		return View{}, err
	}
	if pr.UnknownStatus {
		svc.log.Warn("unknown status", map[string]interface{}{
			"process": snap.Process,
			"status":  snap.Status,
			"id":      snap.ID,
		})
	}
	actions, err := svc.reg.PermittedActions(snap.Process, snap.Status, caps)
	if err != nil {
		return View{}, err
	}
	return View{Snapshot: snap, Projection: pr, Actions: actions}, nil
}

// Describe fetches one entity and returns its projection with the actions permitted for caps.
func (svc *Service) Describe(ctx context.Context, pt lifecycle.ProcessType, id string, caps lifecycle.Capabilities, now time.Time) (View, error) {
	pt = lifecycle.ParseProcessType(string(pt))
	if err := svc.checkProcess(pt); err != nil {
		return View{}, err
	}
	snap, err := svc.repo.GetSnapshot(ctx, pt, id)
	if err != nil {
		return View{}, err
	}
	if err = checkIntegrity(snap, pt, id); err != nil {
		return View{}, err
	}
	return svc.view(snap, caps, now)
}

// List fetches the entities of filter.Process and projects them all against the same instant.
func (svc *Service) List(ctx context.Context, filter QueryFilter, caps lifecycle.Capabilities, now time.Time) ([]View, error) {
	filter.Process = lifecycle.ParseProcessType(string(filter.Process))
	if err := svc.checkProcess(filter.Process); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = nowFunc()
	}

	// overdue is only known after projection, so the limit has to wait for it
	limit := filter.Limit
	if filter.Overdue != nil {
		filter.Limit = 0
	}
	snaps, err := svc.repo.QuerySnapshots(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(snaps))
	for _, snap := range snaps {
		if err := checkIntegrity(snap, filter.Process, ""); err != nil {
			return nil, err
		}
		v, err := svc.view(snap, caps, now)
		if err != nil {
			return nil, err
		}
		if filter.Overdue != nil && v.Projection.Overdue != *filter.Overdue {
			continue
		}
		views = append(views, v)
		if limit > 0 && len(views) == limit {
			break
		}
	}
	return views, nil
}

// Perform checks that action is permitted on the entity, forwards it to the authoritative store and returns
// the refreshed view. The gate check is only a hint: the store has the final word on the transition.
func (svc *Service) Perform(ctx context.Context, pt lifecycle.ProcessType, id string, action lifecycle.ActionID, caps lifecycle.Capabilities) (View, error) {
	pt = lifecycle.ParseProcessType(string(pt))
	if err := svc.checkProcess(pt); err != nil {
		return View{}, err
	}
	snap, err := svc.repo.GetSnapshot(ctx, pt, id)
	if err != nil {
		return View{}, err
	}
	if err = checkIntegrity(snap, pt, id); err != nil {
		return View{}, err
	}

	act, ok, err := svc.reg.Permits(pt, snap.Status, caps, action)
	if err != nil {
		return View{}, err
	}
	if !ok {
		return View{}, errors.Wrapf(ErrActionNotPermitted, "%s from %s", action, snap.Status)
	}

	if err = svc.trans.Transition(ctx, snap, act); err != nil {
		return View{}, err
	}
	svc.log.Info("transition performed", map[string]interface{}{
		"process": pt,
		"id":      id,
		"action":  act.ID,
		"from":    snap.Status,
	})

	if snap, err = svc.repo.GetSnapshot(ctx, pt, id); err != nil {
		return View{}, errors.Wrap(err, "refreshing entity")
	}
	if err = checkIntegrity(snap, pt, id); err != nil {
		return View{}, err
	}
	return svc.view(snap, caps, nowFunc())
}
