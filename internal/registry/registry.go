// Package registry holds the declarative call tables of the gateway: the
// per-call parameter contracts, the schema validators they are built from,
// and the HTTP route table. The tables are package data; the Registry built
// from them is immutable and injected into the dispatcher and transport.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teamtodo/taskgate/model"
)

// Registry is a read-only lookup over the call and route tables. Built once
// at startup via New and never mutated afterwards, so concurrent reads need
// no locking.
type Registry struct {
	specs  map[model.CallName]model.ParamSpec
	routes []Route
}

// New builds the Registry from the declared tables and verifies their
// integrity: the parameter table must be total over the CallName set, and every
// route must reference a known call. Any gap is a programming error
// surfaced before the gateway serves traffic.
func New() (*Registry, error) {
	return newFrom(callSpecs, routeTable)
}

func newFrom(specs map[model.CallName]model.ParamSpec, routes []Route) (*Registry, error) {
	var problems []string

	known := make(map[model.CallName]bool, len(specs))
	for _, name := range model.AllCallNames() {
		known[name] = true
		if _, ok := specs[name]; !ok {
			problems = append(problems, fmt.Sprintf("call %q has no parameter spec", name))
		}
	}
	for name := range specs {
		if !known[name] {
			problems = append(problems, fmt.Sprintf("spec for %q names an unknown call", name))
		}
	}

	seen := make(map[string]bool, len(routes))
	for _, rt := range routes {
		key := rt.Method + " " + rt.Pattern
		if seen[key] {
			problems = append(problems, fmt.Sprintf("duplicate route %s", key))
		}
		seen[key] = true
		if _, ok := specs[rt.Call]; !ok {
			problems = append(problems, fmt.Sprintf("route %s references call %q with no spec", key, rt.Call))
		}
		if rt.Type != model.CallTypeQuery && rt.Type != model.CallTypeMutation {
			problems = append(problems, fmt.Sprintf("route %s has invalid call type %q", key, rt.Type))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("registry: %s", strings.Join(problems, "; "))
	}

	return &Registry{specs: specs, routes: routes}, nil
}

// ParamSpec returns the parameter contract for a call.
func (r *Registry) ParamSpec(call model.CallName) (model.ParamSpec, bool) {
	spec, ok := r.specs[call]
	return spec, ok
}

// Routes returns the route table. The returned slice is a copy; the
// underlying table is never mutated.
func (r *Registry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}
