package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/staticroute/internal/location"
	"github.com/roach88/staticroute/internal/routes"
)

// View is what an Outlet hands to its renderer.
type View struct {
	// Location is the logical location that was navigated to.
	Location location.LogicalLocation

	// Route is the table path that was loaded. It differs from
	// Location.Path when the not-found route was substituted.
	Route string

	// NotFound is set when Location.Path is not in the table.
	NotFound bool

	// Module is the loaded route content.
	Module routes.Module

	// Err is the load failure, if any.
	Err error
}

// RenderFunc receives views in navigation order. Stale views are dropped.
type RenderFunc func(v View)

// Outlet connects a Router to a route table: on every change it resolves
// the route, starts its lazy load, and renders the result unless a newer
// navigation happened while the load was in flight.
type Outlet struct {
	router   *Router
	table    *routes.Table
	notFound string
	render   RenderFunc
	dispatch func(func())
	logger   *slog.Logger

	ctx         context.Context
	unsubscribe func()

	mu       sync.Mutex
	attached bool
}

// OutletOption configures an Outlet.
type OutletOption func(*Outlet)

// WithDispatcher sets how views are handed back to the UI loop. Every
// show dispatches exactly once, from the UI goroutine when the module is
// already loaded and from a load goroutine otherwise.
// Default: call the renderer directly.
func WithDispatcher(dispatch func(func())) OutletOption {
	return func(o *Outlet) {
		o.dispatch = dispatch
	}
}

// WithOutletLogger sets the logger. Default: slog.Default().
func WithOutletLogger(l *slog.Logger) OutletOption {
	return func(o *Outlet) {
		o.logger = l
	}
}

// NewOutlet creates an outlet. notFound is the route unknown paths fall
// through to; when empty, unknown paths render a View with NotFound set
// and routes.ErrNotFound as Err.
func NewOutlet(r *Router, table *routes.Table, notFound string, render RenderFunc, opts ...OutletOption) *Outlet {
	o := &Outlet{
		router:   r,
		table:    table,
		notFound: notFound,
		render:   render,
		dispatch: func(fn func()) { fn() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Attach subscribes the outlet to the router. If the router is already
// active the current location is shown immediately.
func (o *Outlet) Attach(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o.ctx = ctx
	o.setAttached(true)
	o.unsubscribe = o.router.watch(o.show)
	if o.router.Active() {
		o.show(o.router.Current(), o.router.Seq())
	}
}

// Detach removes the outlet's subscription. In-flight loads are discarded,
// including those whose dispatch runs on another goroutine.
func (o *Outlet) Detach() {
	o.setAttached(false)
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}

func (o *Outlet) setAttached(v bool) {
	o.mu.Lock()
	o.attached = v
	o.mu.Unlock()
}

func (o *Outlet) show(loc location.LogicalLocation, seq int64) {
	view := View{Location: loc, Route: loc.Path}

	if _, err := o.table.Lookup(loc.Path); err != nil {
		view.NotFound = true
		if o.notFound == "" {
			view.Err = err
			o.dispatch(func() { o.deliver(seq, view) })
			return
		}
		view.Route = o.notFound
	}

	task := o.table.Load(o.ctx, view.Route)
	if task.Ready() {
		view.Module, view.Err = task.Result()
		o.dispatch(func() { o.deliver(seq, view) })
		return
	}

	go func() {
		view.Module, view.Err = task.Wait(o.ctx)
		o.dispatch(func() { o.deliver(seq, view) })
	}()
}

func (o *Outlet) deliver(seq int64, view View) {
	o.mu.Lock()
	attached := o.attached
	o.mu.Unlock()
	if !attached {
		return
	}
	if current := o.router.Seq(); current != seq {
		o.logger.Debug("discarding stale route load",
			"route", view.Route,
			"seq", seq,
			"current_seq", current,
		)
		return
	}
	o.render(view)
}
