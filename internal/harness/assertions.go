package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertCurrent:
		if got := result.State.Current.String(); got != a.Location {
			return &AssertionError{Type: a.Type, Expected: a.Location, Actual: got}
		}
	case AssertURL:
		if result.URL != a.Location {
			return &AssertionError{Type: a.Type, Expected: a.Location, Actual: result.URL}
		}
	case AssertHistory:
		kinds := make([]string, len(result.State.History))
		for i, e := range result.State.History {
			kinds[i] = string(e.Kind)
		}
		want, got := strings.Join(a.Kinds, ","), strings.Join(kinds, ",")
		if want != got {
			return &AssertionError{Type: a.Type, Expected: "[" + want + "]", Actual: "[" + got + "]"}
		}
	case AssertNotifications:
		if len(result.Trace) != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Count), Actual: fmt.Sprint(len(result.Trace))}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
