package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/staticroute/internal/routes"
)

// Scenario defines a navigation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Codec selects the initial decoding: "fallback" (default) or "direct".
	Codec string `yaml:"codec,omitempty"`

	// Initial is the raw address the host serves, e.g. "/?/a&b=1".
	Initial string `yaml:"initial"`

	// Routes lists the route table paths.
	Routes []string `yaml:"routes"`

	// NotFound is the route unknown paths fall through to. Optional.
	NotFound string `yaml:"not_found,omitempty"`

	// Steps run in order after the router starts.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one navigation action. Exactly one of Navigate, Replace, Pop
// or Close is set.
type Step struct {
	// Navigate pushes a direct URL ("/path?query").
	Navigate string `yaml:"navigate,omitempty"`

	// Replace replaces the current entry with a direct URL.
	Replace string `yaml:"replace,omitempty"`

	// Pop simulates a back/forward event landing on a raw URL.
	Pop string `yaml:"pop,omitempty"`

	// Close shuts the router down.
	Close bool `yaml:"close,omitempty"`

	// Expect is the expected current location after the step.
	Expect string `yaml:"expect,omitempty"`

	// ExpectRoute is the route the outlet is expected to show.
	ExpectRoute string `yaml:"expect_route,omitempty"`

	// ExpectError names the expected misuse: not_active or invalid_target.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Op returns the step's action name.
func (s Step) Op() string {
	switch {
	case s.Navigate != "":
		return OpNavigate
	case s.Replace != "":
		return OpReplace
	case s.Pop != "":
		return OpPop
	case s.Close:
		return OpClose
	}
	return ""
}

// Step actions.
const (
	OpNavigate = "navigate"
	OpReplace  = "replace"
	OpPop      = "pop"
	OpClose    = "close"
)

// Codec names.
const (
	CodecFallback = "fallback"
	CodecDirect   = "direct"
)

// Expected error names.
const (
	ErrorNotActive     = "not_active"
	ErrorInvalidTarget = "invalid_target"
)

// Assertion validates the final state.
type Assertion struct {
	// Type is one of current, url, history, notifications.
	Type string `yaml:"type"`

	// Location is the expected location (current, url).
	Location string `yaml:"location,omitempty"`

	// Kinds is the expected history kinds (history).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of trace events (notifications).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertCurrent       = "current"
	AssertURL           = "url"
	AssertHistory       = "history"
	AssertNotifications = "notifications"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// manifest returns the route declarations as a route manifest.
func (s *Scenario) manifest() *routes.Manifest {
	m := &routes.Manifest{NotFound: s.NotFound}
	for _, p := range s.Routes {
		m.Routes = append(m.Routes, routes.RouteSpec{Path: p})
	}
	return m
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Initial == "" {
		return fmt.Errorf("initial is required")
	}

	switch s.Codec {
	case "", CodecFallback, CodecDirect:
	default:
		return fmt.Errorf("codec must be %q or %q, got %q", CodecFallback, CodecDirect, s.Codec)
	}

	if err := s.manifest().Validate(); err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s Step) error {
	set := 0
	for _, v := range []bool{s.Navigate != "", s.Replace != "", s.Pop != "", s.Close} {
		if v {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of navigate, replace, pop, close is required", index)
	}

	switch s.ExpectError {
	case "", ErrorNotActive, ErrorInvalidTarget:
	default:
		return fmt.Errorf("steps[%d]: unknown expect_error %q", index, s.ExpectError)
	}
	if s.ExpectError != "" && (s.Expect != "" || s.ExpectRoute != "") {
		return fmt.Errorf("steps[%d]: expect_error excludes expect and expect_route", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertCurrent, AssertURL:
		if a.Location == "" {
			return fmt.Errorf("assertions[%d]: location is required for %s", index, a.Type)
		}
	case AssertHistory:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for history", index)
		}
	case AssertNotifications:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must not be negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
