package fixture

import (
	"fmt"
	"os"
	"time"

	"github.com/fetchsim/fetchsim"
	"github.com/fetchsim/fetchsim/fetch"
	"github.com/fetchsim/fetchsim/route"
	"gopkg.in/yaml.v3"
)

// Fixture is a route table read from YAML.
type Fixture struct {
	// Timeout is the wait ceiling in milliseconds. Zero keeps the simulator's.
	Timeout int `yaml:"timeout"`

	// Routes maps route keys to their definitions.
	Routes map[string]route.Definition `yaml:"routes"`
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fixture: %w", fetchsim.ErrInvalidArgument, err)
	}
	if f.Timeout < 0 {
		return nil, fmt.Errorf("%w: fixture timeout must not be negative", fetchsim.ErrInvalidArgument)
	}
	if f.Routes == nil {
		f.Routes = map[string]route.Definition{}
	}
	return &f, nil
}

// Ceiling returns the fixture's timeout as a duration.
func (f *Fixture) Ceiling() time.Duration {
	return time.Duration(f.Timeout) * time.Millisecond
}

// Apply loads the fixture into sim. Routes are checked against the fixture's
// ceiling before sim is touched, so a rejected fixture leaves sim as it was.
// Apply is a setup step; routes added concurrently are checked against
// whichever ceiling is current when they arrive.
func (f *Fixture) Apply(sim *fetch.Simulator) error {
	prev := sim.Timeout()
	ceiling := prev
	if f.Timeout > 0 {
		ceiling = f.Ceiling()
	}
	if _, err := route.ParseAll(f.Routes, ceiling); err != nil {
		return err
	}

	sim.SetTimeout(ceiling)
	if err := sim.SetRoutes(f.Routes); err != nil {
		sim.SetTimeout(prev)
		return err
	}
	return nil
}

// Simulator builds a new Simulator configured from the fixture.
func (f *Fixture) Simulator(config fetch.Config) (*fetch.Simulator, error) {
	if f.Timeout > 0 {
		config.Timeout = f.Ceiling()
	}
	config.Routes = f.Routes
	return fetch.New(config)
}
