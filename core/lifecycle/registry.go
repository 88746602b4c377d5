package lifecycle

import (
	"sort"
	"sync"
)

// Registry holds the lifecycle processes known to the application.
// Processes are immutable once registered; lookups are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	processes map[ProcessType]*Process
}

func NewRegistry() *Registry {
	return &Registry{processes: make(map[ProcessType]*Process)}
}

// Register validates p and adds it to the registry.
func (r *Registry) Register(p Process) error {
	p.Type = ParseProcessType(string(p.Type))
	if p.Type == "" {
		return ErrEmptyProcessType
	}
	if err := p.build(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.processes[p.Type]; ok {
		return definitionErrorf(p.Type, "already registered")
	}
	r.processes[p.Type] = &p
	return nil
}

// build validates the definition and computes the lookup tables.
func (p *Process) build() error {
	if len(p.Statuses) == 0 {
		return &DefinitionError{Type: p.Type, Reason: ErrNoStatuses.Error()}
	}

	mainLine := len(p.Statuses)
	vocab := make([]Status, 0, mainLine+len(p.Rejected))
	vocab = append(vocab, p.Statuses...)
	vocab = append(vocab, p.Rejected...)

	p.index = make(map[Status]int, len(vocab))
	for i, st := range vocab {
		st = ParseStatus(string(st))
		if st == "" {
			return definitionErrorf(p.Type, "empty status at position %d", i)
		}
		if _, dup := p.index[st]; dup {
			return definitionErrorf(p.Type, "duplicate status %q", st)
		}
		vocab[i] = st
		p.index[st] = i
	}
	p.Statuses = vocab

	p.rejected = make(map[Status]bool, len(p.Rejected))
	for i := mainLine; i < len(vocab); i++ {
		p.rejected[vocab[i]] = true
	}
	p.Rejected = copyStatuses(vocab[mainLine:])

	p.terminal = map[Status]bool{vocab[mainLine-1]: true}
	p.Terminal = copyStatuses(p.Terminal)
	for i, st := range p.Terminal {
		st = ParseStatus(string(st))
		if !p.Has(st) {
			return definitionErrorf(p.Type, "terminal status %q not in vocabulary", st)
		}
		p.Terminal[i] = st
		p.terminal[st] = true
	}

	if err := p.buildStages(); err != nil {
		return err
	}
	return p.buildActions()
}

func (p *Process) buildStages() error {
	stages := make([]Stage, 0, len(p.Stages))
	orders := make(map[int]bool, len(p.Stages))
	keys := make(map[string]bool, len(p.Stages))
	mapped := make(map[Status]bool, len(p.Statuses))
	for _, s := range p.Stages {
		if s.Key == "" {
			return definitionErrorf(p.Type, "stage with order %d has no key", s.Order)
		}
		if keys[s.Key] {
			return definitionErrorf(p.Type, "duplicate stage key %q", s.Key)
		}
		if orders[s.Order] {
			return definitionErrorf(p.Type, "duplicate stage order %d", s.Order)
		}
		if len(s.Statuses) == 0 {
			return definitionErrorf(p.Type, "stage %q maps no status", s.Key)
		}
		keys[s.Key] = true
		orders[s.Order] = true

		statuses := make([]Status, 0, len(s.Statuses))
		for _, st := range s.Statuses {
			st = ParseStatus(string(st))
			if !p.Has(st) {
				return definitionErrorf(p.Type, "stage %q: status %q not in vocabulary", s.Key, st)
			}
			statuses = append(statuses, st)
			mapped[st] = true
		}
		s.Statuses = statuses
		stages = append(stages, s)
	}
	// an entity must always sit in some stage until it stops progressing
	for _, st := range p.Statuses {
		if !mapped[st] && !p.IsTerminal(st) {
			return definitionErrorf(p.Type, "status %q maps to no stage", st)
		}
	}
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })
	p.Stages = stages
	return nil
}

func (p *Process) buildActions() error {
	actions := make([]Action, 0, len(p.Actions))
	ids := make(map[ActionID]bool, len(p.Actions))
	for _, a := range p.Actions {
		if a.ID == "" {
			return definitionErrorf(p.Type, "action with empty id")
		}
		if ids[a.ID] {
			return definitionErrorf(p.Type, "duplicate action %q", a.ID)
		}
		ids[a.ID] = true

		from := make([]Status, 0, len(a.From))
		for _, st := range a.From {
			st = ParseStatus(string(st))
			if !p.Has(st) {
				return definitionErrorf(p.Type, "action %q: status %q not in vocabulary", a.ID, st)
			}
			from = append(from, st)
		}
		a.From = from
		if a.Target != "" {
			a.Target = ParseStatus(string(a.Target))
			if !p.Has(a.Target) {
				return definitionErrorf(p.Type, "action %q: target %q not in vocabulary", a.ID, a.Target)
			}
		}
		requires := make([]Permission, 0, len(a.Requires))
		for _, perm := range a.Requires {
			perm = ParsePermission(string(perm))
			if perm == "" {
				return definitionErrorf(p.Type, "action %q: empty permission", a.ID)
			}
			requires = append(requires, perm)
		}
		a.Requires = requires
		actions = append(actions, a)
	}
	p.Actions = actions
	return nil
}

func (r *Registry) lookup(pt ProcessType) (*Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.processes[ParseProcessType(string(pt))]; ok {
		return p, nil
	}
	return nil, &UnknownProcessTypeError{Type: pt}
}

// Process returns a copy of the registered process.
func (r *Registry) Process(pt ProcessType) (Process, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return Process{}, err
	}
	return p.clone(), nil
}

// MustProcess is like Process but panics on an unregistered type.
func (r *Registry) MustProcess(pt ProcessType) Process {
	p, err := r.Process(pt)
	if err != nil {
		panic(err)
	}
	return p
}

// Has reports whether pt is registered.
func (r *Registry) Has(pt ProcessType) bool {
	_, err := r.lookup(pt)
	return err == nil
}

// StatusOrder returns the ordered status vocabulary of pt.
func (r *Registry) StatusOrder(pt ProcessType) ([]Status, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return nil, err
	}
	return copyStatuses(p.Statuses), nil
}

// Stages returns the stages of pt sorted by order.
func (r *Registry) Stages(pt ProcessType) ([]Stage, error) {
	p, err := r.lookup(pt)
	if err != nil {
		return nil, err
	}
	return p.clone().Stages, nil
}

// Types returns the registered process types in lexical order.
func (r *Registry) Types() []ProcessType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProcessType, 0, len(r.processes))
	for pt := range r.processes {
		types = append(types, pt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
