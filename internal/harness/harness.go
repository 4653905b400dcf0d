package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/staticroute/internal/location"
	"github.com/roach88/staticroute/internal/router"
	"github.com/roach88/staticroute/internal/testutil"
)

// Harness drives one scenario against a router on a fake host.
type Harness struct {
	platform  *testutil.FakePlatform
	router    *router.Router
	outlet    *router.Outlet
	result    *Result
	lastRoute string
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the route table from the scenario's routes
//  2. Attach an outlet that records every delivered view
//  3. Start the router on the initial raw address
//  4. Execute steps in order, checking per-step expectations
//  5. Evaluate assertions against the final state
//
// A returned error means the scenario could not run; failed expectations
// are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := scenario.manifest().Table(nil)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &Harness{
		platform: testutil.NewFakePlatform(testutil.SplitURL(scenario.Initial)),
		result:   NewResult(),
	}
	h.router = router.New(h.platform,
		router.WithCodec(codecFor(scenario.Codec)),
		router.WithLogger(logger),
		router.WithKeyGenerator(testutil.NewSequentialKeys("key")),
	)
	h.outlet = router.NewOutlet(h.router, table, scenario.NotFound, h.record,
		router.WithOutletLogger(logger),
	)

	h.outlet.Attach(ctx)
	defer h.outlet.Detach()
	defer h.router.Close()

	if err := h.router.Start(); err != nil {
		return nil, fmt.Errorf("start router: %w", err)
	}

	for i, step := range scenario.Steps {
		h.executeStep(i, step)
	}

	h.result.State = h.router.State()
	h.result.URL = urlOf(h.platform.Location())

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

func codecFor(name string) location.Codec {
	if name == CodecDirect {
		return location.Direct{}
	}
	return location.Fallback{}
}

// record is the outlet's renderer.
func (h *Harness) record(v router.View) {
	event := TraceEvent{
		Location: v.Location.String(),
		Route:    v.Route,
		NotFound: v.NotFound,
		URL:      urlOf(h.platform.Location()),
	}
	if history := h.router.State().History; len(history) > 0 {
		last := history[len(history)-1]
		event.Seq = last.Seq
		event.Kind = last.Kind
		event.Key = last.Key
	}
	h.result.Trace = append(h.result.Trace, event)
	h.lastRoute = v.Route
}

func (h *Harness) executeStep(index int, step Step) {
	op := step.Op()

	var err error
	switch op {
	case OpNavigate:
		target := testutil.SplitURL(step.Navigate)
		err = h.router.Navigate(target.Pathname, target.Search)
	case OpReplace:
		target := testutil.SplitURL(step.Replace)
		err = h.router.Replace(target.Pathname, target.Search)
	case OpPop:
		h.platform.Pop(testutil.SplitURL(step.Pop))
	case OpClose:
		h.router.Close()
	}

	if step.ExpectError != "" {
		want := router.ErrNotActive
		if step.ExpectError == ErrorInvalidTarget {
			want = router.ErrInvalidTarget
		}
		if !errors.Is(err, want) {
			h.result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %v", index, op, step.ExpectError, err))
		}
		return
	}

	if err != nil {
		h.result.AddError(fmt.Sprintf("steps[%d] %s: %v", index, op, err))
		return
	}

	if step.Expect != "" {
		if got := h.router.Current().String(); got != step.Expect {
			h.result.AddError(fmt.Sprintf("steps[%d] %s: expected location %s, got %s", index, op, step.Expect, got))
		}
	}
	if step.ExpectRoute != "" && h.lastRoute != step.ExpectRoute {
		h.result.AddError(fmt.Sprintf("steps[%d] %s: expected route %s, got %s", index, op, step.ExpectRoute, h.lastRoute))
	}
}

func urlOf(raw location.RawLocation) string {
	return raw.Pathname + raw.Search
}
