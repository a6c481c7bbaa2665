package response

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fetchsim/fetchsim"
)

// JSONMethod is the name of the built-in body accessor.
const JSONMethod = "json"

// Func is a method callable on every Response that shares a MethodSet.
type Func func(r *Response) (any, error)

// MethodSet is a registry of response methods. It is safe for concurrent use.
type MethodSet struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewMethodSet returns a set holding only the built-in json method.
func NewMethodSet() *MethodSet {
	return &MethodSet{
		funcs: map[string]Func{
			JSONMethod: readBody,
		},
	}
}

// readBody resolves immediately with the stored body.
func readBody(r *Response) (any, error) {
	return r.Body, nil
}

// Add registers fn under name, replacing any earlier method with that name.
func (s *MethodSet) Add(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("%w: method name must be a non-empty string", fetchsim.ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: method %q requires a function", fetchsim.ErrInvalidArgument, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[name] = fn
	return nil
}

// Lookup returns the method registered under name.
func (s *MethodSet) Lookup(name string) (Func, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.funcs[name]
	return fn, ok
}

// Names returns the registered method names in sorted order.
func (s *MethodSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.funcs))
	for n := range s.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
