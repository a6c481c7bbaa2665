package route

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/fetchsim/fetchsim"
	"github.com/mitchellh/mapstructure"
)

// Definition describes a route by method name. Method names may use any case.
// Each value is a map (or an Entry) with optional body, expect and wait keys.
type Definition map[string]any

// Entry is a typed form of a single method definition.
type Entry struct {
	// Body is returned as the response body.
	Body any `mapstructure:"body"`
	// Expect holds extra fields copied onto the response.
	Expect map[string]any `mapstructure:"expect"`
	// Wait is the delay in milliseconds.
	Wait float64 `mapstructure:"wait"`
}

// rawEntry is the decode target for one method definition. Response is the
// older spelling of Body and is used only when Body is absent.
type rawEntry struct {
	Body     any            `mapstructure:"body"`
	Response any            `mapstructure:"response"`
	Expect   map[string]any `mapstructure:"expect"`
	Wait     float64        `mapstructure:"wait"`
}

// MethodEntry is the resolved response data for one method on a route.
type MethodEntry struct {
	// Body is the canned payload, nil when none was declared.
	Body any
	// Wait is how long a dispatch suspends before resolving.
	Wait time.Duration
	// Expect holds the fields merged into the response. Never nil.
	Expect map[string]any
}

// Route is a registered URL and its per-method entries.
type Route struct {
	// URL is the key the route is registered under.
	URL string
	// Methods is keyed by upper-case HTTP method name.
	Methods map[string]MethodEntry
}

// Method returns the entry for name, matched case-insensitively.
func (r *Route) Method(name string) (MethodEntry, bool) {
	e, ok := r.Methods[strings.ToUpper(name)]
	return e, ok
}

// MethodNames returns the route's methods in sorted order.
func (r *Route) MethodNames() []string {
	names := make([]string, 0, len(r.Methods))
	for m := range r.Methods {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// Parse validates def and builds the Route for key. Any wait above ceiling is
// rejected.
func Parse(key string, def Definition, ceiling time.Duration) (*Route, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: route key must be a non-empty string", fetchsim.ErrInvalidArgument)
	}
	if len(def) == 0 {
		return nil, fmt.Errorf("%w: route %s requires a non-empty definition", fetchsim.ErrInvalidArgument, key)
	}

	r := &Route{URL: key, Methods: make(map[string]MethodEntry, len(def))}
	for name, v := range def {
		method := strings.ToUpper(name)
		if method == "" {
			return nil, fmt.Errorf("%w: route %s has an empty method name", fetchsim.ErrInvalidArgument, key)
		}
		if _, ok := r.Methods[method]; ok {
			return nil, fmt.Errorf("%w: route %s defines %s more than once", fetchsim.ErrInvalidArgument, key, method)
		}

		entry, err := parseEntry(v, ceiling)
		if err != nil {
			return nil, fmt.Errorf("route %s method %s: %w", key, method, err)
		}
		r.Methods[method] = entry
	}

	return r, nil
}

// ParseAll parses every definition in defs. Keys are visited in sorted order so
// the reported error is stable.
func ParseAll(defs map[string]Definition, ceiling time.Duration) (map[string]*Route, error) {
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	routes := make(map[string]*Route, len(defs))
	for _, k := range keys {
		r, err := Parse(k, defs[k], ceiling)
		if err != nil {
			return nil, err
		}
		routes[k] = r
	}
	return routes, nil
}

func parseEntry(v any, ceiling time.Duration) (MethodEntry, error) {
	var raw rawEntry

	if v != nil {
		kind := reflect.Indirect(reflect.ValueOf(v)).Kind()
		if kind != reflect.Map && kind != reflect.Struct {
			return MethodEntry{}, fmt.Errorf("%w: method definition must be an object, got %T", fetchsim.ErrInvalidArgument, v)
		}

		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &raw,
		})
		if err != nil {
			return MethodEntry{}, err
		}
		if err := dec.Decode(v); err != nil {
			return MethodEntry{}, errors.Join(
				fmt.Errorf("%w: expect must be an object and wait a number of milliseconds", fetchsim.ErrInvalidArgument),
				err,
			)
		}
	}

	if math.IsNaN(raw.Wait) || math.IsInf(raw.Wait, 0) {
		return MethodEntry{}, fmt.Errorf("%w: wait must be a finite number, got %v", fetchsim.ErrInvalidArgument, raw.Wait)
	}
	if raw.Wait < 0 {
		return MethodEntry{}, fmt.Errorf("%w: wait must not be negative, got %v", fetchsim.ErrInvalidArgument, raw.Wait)
	}
	// Compared in milliseconds so large waits cannot overflow time.Duration.
	if raw.Wait > float64(ceiling)/float64(time.Millisecond) {
		return MethodEntry{}, fmt.Errorf(
			"%w: wait %vms exceeds the timeout ceiling %s, raise it with SetTimeout",
			fetchsim.ErrInvalidArgument,
			raw.Wait,
			ceiling,
		)
	}
	wait := time.Duration(raw.Wait * float64(time.Millisecond))

	body := raw.Body
	if body == nil {
		body = raw.Response
	}

	expect := raw.Expect
	if expect == nil {
		expect = map[string]any{}
	}

	return MethodEntry{Body: body, Wait: wait, Expect: expect}, nil
}
