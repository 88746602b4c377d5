package lifecycle

import (
	"sort"
	"strings"
)

type (
	// Permission is a capability string held by a caller, eg. "PAYMENT_INITIATE".
	Permission string

	// ActionID identifies a transition action, eg. "INITIATE_PAYMENT".
	ActionID string

	// Action is a statically declared transition with its precondition:
	// status ∈ From AND caller capabilities ⊇ Requires.
	Action struct {
		ID       ActionID     `json:"id"`
		Label    string       `json:"label"`
		From     []Status     `json:"from"`
		Requires []Permission `json:"requires"`
		Target   Status       `json:"target,omitempty"`   // expected status after the transition
		Endpoint string       `json:"endpoint,omitempty"` // upstream mutation path, relative to the entity
	}

	// Capabilities is the set of permissions held by a caller.
	Capabilities map[Permission]struct{}
)

// ParsePermission normalises a raw permission string.
func ParsePermission(s string) Permission {
	return Permission(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseActionID normalises a raw action identifier.
func ParseActionID(s string) ActionID {
	return ActionID(strings.ToUpper(strings.TrimSpace(s)))
}

func NewCapabilities(perms ...Permission) Capabilities {
	caps := make(Capabilities, len(perms))
	caps.Add(perms...)
	return caps
}

func (c Capabilities) Add(perms ...Permission) {
	for _, p := range perms {
		if p = ParsePermission(string(p)); p != "" {
			c[p] = struct{}{}
		}
	}
}

func (c Capabilities) Has(perm Permission) bool {
	_, ok := c[perm]
	return ok
}

// HasAll reports whether c is a superset of perms.
func (c Capabilities) HasAll(perms []Permission) bool {
	for _, p := range perms {
		if !c.Has(p) {
			return false
		}
	}
	return true
}

// List returns the permissions in lexical order.
func (c Capabilities) List() []Permission {
	perms := make([]Permission, 0, len(c))
	for p := range c {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// Allows reports whether the action may be attempted from status with caps.
func (a Action) Allows(status Status, caps Capabilities) bool {
	for _, st := range a.From {
		if st == status {
			return caps.HasAll(a.Requires)
		}
	}
	return false
}

// PermittedActions returns the actions of pt permitted from status for caps, in declaration order.
// No match yields an empty slice: waiting on someone else is a normal condition.
// The result is only a hint for enabling UI actions; the authoritative store re-validates every transition.
func (r *Registry) PermittedActions(pt ProcessType, status Status, caps Capabilities) ([]ActionID, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return nil, err
	}
	return p.permitted(ParseStatus(string(status)), caps), nil
}

func (p *Process) permitted(status Status, caps Capabilities) []ActionID {
	ids := make([]ActionID, 0)
	for _, a := range p.Actions {
		if a.Allows(status, caps) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Permits looks up action id on pt and reports whether it is permitted from status for caps.
// An undeclared action is never permitted.
func (r *Registry) Permits(pt ProcessType, status Status, caps Capabilities, id ActionID) (Action, bool, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return Action{}, false, err
	}
	a, ok := p.Action(ParseActionID(string(id)))
	if !ok {
		return Action{}, false, nil
	}
	return a, a.Allows(ParseStatus(string(status)), caps), nil
}

// Permissions returns every permission required by a registered action, in lexical order.
func (r *Registry) Permissions() []Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := NewCapabilities()
	for _, p := range r.processes {
		for _, a := range p.Actions {
			caps.Add(a.Requires...)
		}
	}
	return caps.List()
}
