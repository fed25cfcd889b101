package app

import (
	"fmt"

	"airline_assistant/internal/domain"
)

// Registry maps action names to handlers. It is filled once at startup
// and read concurrently afterwards.
type Registry struct {
	actions map[string]domain.Action
	order   []string
}

func NewRegistry(actions ...domain.Action) (*Registry, error) {
	r := &Registry{actions: make(map[string]domain.Action, len(actions))}
	for _, a := range actions {
		name := a.Name()
		if _, dup := r.actions[name]; dup {
			return nil, fmt.Errorf("action %q registered twice", name)
		}
		r.actions[name] = a
		r.order = append(r.order, name)
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (domain.Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
