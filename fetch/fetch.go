package fetch

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fetchsim/fetchsim"
	"github.com/fetchsim/fetchsim/metrics"
	"github.com/fetchsim/fetchsim/response"
	"github.com/fetchsim/fetchsim/route"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
)

// Config controls construction of a Simulator.
type Config struct {
	// Timeout is the ceiling for route waits. Zero uses fetchsim.DefaultTimeout.
	Timeout time.Duration

	// Routes seeds the route table.
	Routes map[string]route.Definition

	// Logger receives debug output. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics records dispatch outcomes. Nil uses unregistered collectors.
	Metrics *metrics.Metrics

	// Methods is the response method set. Nil creates one with only json.
	Methods *response.MethodSet
}

// Options describes a single dispatch.
type Options struct {
	// Method is the HTTP method, matched case-insensitively. Empty means GET.
	Method string
}

// Call records a dispatch that was scheduled to resolve.
type Call struct {
	// ID uniquely identifies the dispatch.
	ID string
	// URL is the route key that was requested.
	URL string
	// Method is the upper-cased HTTP method.
	Method string
	// Wait is the delay applied before resolution.
	Wait time.Duration
	// At is when the dispatch was accepted.
	At time.Time
}

// Simulator resolves fetch calls against a route table. It is safe for
// concurrent use.
type Simulator struct {
	// mu guards timeout, methods and calls.
	mu      sync.RWMutex
	timeout time.Duration
	methods *response.MethodSet
	calls   []Call

	routes  *route.Table
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a Simulator, seeding it with config.Routes.
func New(config Config) (*Simulator, error) {
	s := &Simulator{
		timeout: config.Timeout,
		methods: config.Methods,
		routes:  route.NewTable(),
		metrics: config.Metrics,
	}

	if s.timeout == 0 {
		s.timeout = fetchsim.DefaultTimeout
	}
	if s.methods == nil {
		s.methods = response.NewMethodSet()
	}

	base := zerolog.Nop()
	if config.Logger != nil {
		base = *config.Logger
	}
	s.log = base.With().Str("component", "fetchsim").Logger()

	if s.metrics == nil {
		m, err := metrics.New(metrics.Config{})
		if err != nil {
			return nil, err
		}
		s.metrics = m
	}

	if config.Routes != nil {
		if err := s.SetRoutes(config.Routes); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// AddRoute registers def under key. Nothing is registered when it fails.
func (s *Simulator) AddRoute(key string, def route.Definition) error {
	if key == "" {
		return fmt.Errorf("%w: route key must be a non-empty string", fetchsim.ErrInvalidArgument)
	}
	if s.routes.Has(key) {
		return fmt.Errorf("%w: %s, remove it first to redefine it", fetchsim.ErrDuplicateRoute, key)
	}

	r, err := route.Parse(key, def, s.Timeout())
	if err != nil {
		return err
	}
	if err := s.routes.Add(r); err != nil {
		return err
	}

	s.metrics.SetRoutes(s.routes.Len())
	s.log.Debug().Str("url", key).Strs("methods", r.MethodNames()).Msg("route added")
	return nil
}

// RemoveRoute deletes the route registered under key.
func (s *Simulator) RemoveRoute(key string) error {
	if err := s.routes.Remove(key); err != nil {
		return err
	}

	s.metrics.SetRoutes(s.routes.Len())
	s.log.Debug().Str("url", key).Msg("route removed")
	return nil
}

// SetRoutes replaces every route with defs. All definitions are validated
// before the table changes; an empty map clears it.
func (s *Simulator) SetRoutes(defs map[string]route.Definition) error {
	if defs == nil {
		return fmt.Errorf("%w: routes must be a map of route definitions", fetchsim.ErrInvalidArgument)
	}

	routes, err := route.ParseAll(defs, s.Timeout())
	if err != nil {
		return err
	}
	s.routes.Replace(routes)

	s.metrics.SetRoutes(len(routes))
	s.log.Debug().Int("routes", len(routes)).Msg("routes replaced")
	return nil
}

// Routes returns a deep copy of the route table.
func (s *Simulator) Routes() (map[string]*route.Route, error) {
	return s.routes.Snapshot()
}

// SetTimeout sets the ceiling applied to waits of routes registered afterwards.
func (s *Simulator) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Timeout returns the current wait ceiling.
func (s *Simulator) Timeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeout
}

// AddMethod registers a response method available on every response.
func (s *Simulator) AddMethod(name string, fn response.Func) error {
	return s.methodSet().Add(name, fn)
}

func (s *Simulator) methodSet() *response.MethodSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.methods
}

// Calls returns the dispatches accepted so far, oldest first.
func (s *Simulator) Calls() []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Call(nil), s.calls...)
}

// Reset clears routes and recorded calls, restores the default ceiling and
// replaces the method set with a fresh one.
func (s *Simulator) Reset() {
	s.routes.Replace(nil)

	s.mu.Lock()
	s.timeout = fetchsim.DefaultTimeout
	s.methods = response.NewMethodSet()
	s.calls = nil
	s.mu.Unlock()

	s.metrics.SetRoutes(0)
	s.log.Debug().Msg("simulator reset")
}

// Fetch dispatches input and blocks until the response resolves.
func (s *Simulator) Fetch(input any, opts Options) (*response.Response, error) {
	p, err := s.FetchAsync(input, opts)
	if err != nil {
		return nil, err
	}
	return p.Wait(), nil
}

// FetchAsync validates input and schedules the response. Every failure is
// returned here; a returned Pending always resolves after the route's wait.
// input must be a non-empty string naming a registered route.
func (s *Simulator) FetchAsync(input any, opts Options) (*Pending, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = fetchsim.DefaultMethod
	}

	url, err := urlOf(input)
	if err != nil {
		return nil, s.reject(method, err)
	}

	entry, err := s.routes.Entry(url, method)
	if err != nil {
		return nil, s.reject(method, err)
	}

	resp, err := response.Build(url, entry.Body, entry.Expect, s.methodSet())
	if err != nil {
		return nil, s.reject(method, err)
	}
	call := s.record(url, method, entry.Wait)

	s.log.Debug().
		Str("id", call.ID).
		Str("url", url).
		Str("method", method).
		Dur("wait", entry.Wait).
		Msg("dispatch scheduled")

	p := newPending()
	go p.resolveAfter(entry.Wait, resp, func() {
		s.metrics.Resolved(method, entry.Wait)
		s.log.Debug().Str("id", call.ID).Msg("dispatch resolved")
	})
	return p, nil
}

func (s *Simulator) reject(method string, err error) error {
	s.metrics.Rejected(method)
	s.log.Warn().Err(err).Str("method", method).Msg("dispatch rejected")
	return err
}

func (s *Simulator) record(url, method string, wait time.Duration) Call {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}

	call := Call{
		ID:     id.String(),
		URL:    url,
		Method: method,
		Wait:   wait,
		At:     time.Now(),
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	return call
}

// urlOf extracts the route key from a dispatch input.
func urlOf(input any) (string, error) {
	switch v := input.(type) {
	case nil:
		return "", fmt.Errorf("%w: fetch requires 1 argument, but 0 present", fetchsim.ErrMissingArgument)
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: fetch requires a non-empty URL", fetchsim.ErrMissingArgument)
		}
		return v, nil
	default:
		return "", fmt.Errorf("%w: fetch expects a string URL, got %T", fetchsim.ErrTypeMismatch, input)
	}
}
