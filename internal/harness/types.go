package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/staticroute/internal/router"
)

// TraceEvent is one view delivered by the outlet.
type TraceEvent struct {
	Seq      int64            `json:"seq"`
	Kind     router.EntryKind `json:"kind"`
	Key      string           `json:"key"`
	Location string           `json:"location"`
	Route    string           `json:"route"`
	NotFound bool             `json:"not_found,omitempty"`
	URL      string           `json:"url"`
}

// String renders the event as one trace line.
func (e TraceEvent) String() string {
	line := fmt.Sprintf("seq=%d kind=%s key=%s location=%s route=%s url=%s",
		e.Seq, e.Kind, e.Key, e.Location, e.Route, e.URL)
	if e.NotFound {
		line += " not_found"
	}
	return line
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds the delivered views in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	Errors []string `json:"errors,omitempty"`

	// State is the router state after the last step.
	State router.State `json:"state"`

	// URL is the final address bar contents.
	URL string `json:"url"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceText renders the trace for golden comparison: a header line with
// the scenario name followed by one line per event.
func (r *Result) TraceText(name string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s\n", name)
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
