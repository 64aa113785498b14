package variable

import (
	"errors"
	"sort"

	"github.com/fakalang/faka/pkg/interpreter/fault"
)

// ErrNotFound is returned when a name is not bound to any variable.
var ErrNotFound = errors.New("variable not found")

// Store binds names to variables. It's not safe for concurrent use.
type Store struct {
	vars map[string]Variable
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{vars: make(map[string]Variable)}
}

// Bind binds v to its name replacing any previous binding.
func (s *Store) Bind(v Variable) {
	s.vars[v.Name] = v
}

// Get returns the variable bound to name.
func (s *Store) Get(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// MustGet is like Get, but returns a ReferenceError for unbound names.
func (s *Store) MustGet(name string) (Variable, error) {
	v, ok := s.vars[name]
	if !ok {
		return Variable{}, fault.Newf(fault.Reference, ErrNotFound, "%s", name)
	}
	return v, nil
}

// Lookup returns the raw value bound to name.
func (s *Store) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v.Value, ok
}

// Len returns the number of bindings.
func (s *Store) Len() int { return len(s.vars) }

// Snapshot returns a copy of all bindings sorted by name.
func (s *Store) Snapshot() []Variable {
	res := make([]Variable, 0, len(s.vars))
	for _, v := range s.vars {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Restore replaces all bindings with vars. Every variable is validated first,
// the store is left untouched if any of them is invalid.
func (s *Store) Restore(vars []Variable) error {
	m := make(map[string]Variable, len(vars))
	for _, v := range vars {
		checked, err := New(v.Name, v.Kind, v.Value)
		if err != nil {
			return err
		}
		m[v.Name] = checked
	}
	s.vars = m
	return nil
}

// Reset removes all bindings.
func (s *Store) Reset() {
	s.vars = make(map[string]Variable)
}
