package router

import (
	"log/slog"
	"strings"

	"github.com/roach88/staticroute/internal/location"
)

// Platform is the host environment the router runs in.
type Platform interface {
	// Location returns the current raw address.
	Location() location.RawLocation

	// PushURL adds a direct URL to the address bar history.
	PushURL(url string)

	// ReplaceURL overwrites the current address bar entry.
	ReplaceURL(url string)

	// OnPopState registers fn for back/forward events and returns a
	// function that removes it.
	OnPopState(fn func()) (cancel func())
}

// Listener receives the new location after every change.
type Listener func(loc location.LogicalLocation)

// EntryKind records how a history entry was produced.
type EntryKind string

const (
	EntryInitial EntryKind = "initial"
	EntryPush    EntryKind = "push"
	EntryReplace EntryKind = "replace"
	EntryPop     EntryKind = "pop"
)

// HistoryEntry is one step of the navigation log.
type HistoryEntry struct {
	Key      string                   `json:"key"`
	Seq      int64                    `json:"seq"`
	Kind     EntryKind                `json:"kind"`
	Location location.LogicalLocation `json:"location"`
}

// State is a snapshot of the router.
type State struct {
	Current location.LogicalLocation `json:"current"`
	History []HistoryEntry           `json:"history"`
}

type status int

const (
	statusUninitialized status = iota
	statusActive
	statusClosed
)

// Router is the process-wide navigation context.
type Router struct {
	platform Platform
	codec    location.Codec
	logger   *slog.Logger
	keys     KeyGenerator
	clock    *Clock

	status    status
	current   location.LogicalLocation
	history   []HistoryEntry
	subs      []*subscription
	cancelPop func()
}

type subscription struct {
	fn     func(loc location.LogicalLocation, seq int64)
	active bool
}

// Option configures a Router.
type Option func(*Router)

// WithCodec sets the codec used for the initial location.
// Default: location.Fallback{}.
func WithCodec(c location.Codec) Option {
	return func(r *Router) {
		r.codec = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithKeyGenerator sets the history key generator. Default: UUIDv7Generator.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(r *Router) {
		r.keys = g
	}
}

// WithClock sets the navigation clock.
func WithClock(c *Clock) Option {
	return func(r *Router) {
		r.clock = c
	}
}

// New creates an uninitialized Router bound to platform.
func New(platform Platform, opts ...Option) *Router {
	r := &Router{
		platform: platform,
		codec:    location.Fallback{},
		logger:   slog.Default(),
		keys:     UUIDv7Generator{},
		clock:    NewClock(),
		current:  location.Root,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start resolves the initial location and activates the router.
// It registers the single back/forward listener and notifies subscribers.
func (r *Router) Start() error {
	if r.status != statusUninitialized {
		return &MisuseError{Op: "start", Err: ErrAlreadyStarted}
	}

	raw := r.platform.Location()
	loc, err := location.Resolve(r.codec, raw)
	if err != nil {
		r.logger.Warn("initial location degraded to root",
			"pathname", raw.Pathname,
			"search", raw.Search,
			"error", err,
		)
	}

	r.status = statusActive
	r.cancelPop = r.platform.OnPopState(r.handlePopState)

	seq := r.commit(EntryInitial, loc)
	if direct := loc.String(); direct != raw.Pathname+raw.Search {
		// Address bar still shows the fallback form.
		r.platform.ReplaceURL(direct)
	}

	r.logger.Info("router started", "path", loc.Path, "search", loc.Search)
	r.notify(loc, seq)
	return nil
}

// Navigate moves to path+search, appending a history entry.
func (r *Router) Navigate(path, search string) error {
	loc, err := r.target("navigate", path, search)
	if err != nil {
		return err
	}

	seq := r.commit(EntryPush, loc)
	r.platform.PushURL(loc.String())
	r.logger.Debug("navigated", "path", loc.Path, "search", loc.Search, "seq", seq)
	r.notify(loc, seq)
	return nil
}

// Replace moves to path+search, overwriting the latest history entry.
func (r *Router) Replace(path, search string) error {
	loc, err := r.target("replace", path, search)
	if err != nil {
		return err
	}

	seq := r.commit(EntryReplace, loc)
	r.platform.ReplaceURL(loc.String())
	r.logger.Debug("replaced", "path", loc.Path, "search", loc.Search, "seq", seq)
	r.notify(loc, seq)
	return nil
}

// Subscribe registers fn for every location change. The returned function
// removes the subscription and may be called any number of times.
//
// A listener that navigates supersedes the change it was called for:
// listeners after it receive only the newer location.
func (r *Router) Subscribe(fn Listener) (unsubscribe func()) {
	return r.watch(func(loc location.LogicalLocation, _ int64) { fn(loc) })
}

// watch is Subscribe with the sequence number of each change.
func (r *Router) watch(fn func(loc location.LogicalLocation, seq int64)) (unsubscribe func()) {
	sub := &subscription{fn: fn, active: true}
	r.subs = append(r.subs, sub)

	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, s := range r.subs {
			if s == sub {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				break
			}
		}
	}
}

// Current returns the current logical location.
func (r *Router) Current() location.LogicalLocation {
	return r.current
}

// State returns a copy of the router state.
func (r *Router) State() State {
	history := make([]HistoryEntry, len(r.history))
	copy(history, r.history)
	return State{Current: r.current, History: history}
}

// Active reports whether the router has started and not been closed.
func (r *Router) Active() bool {
	return r.status == statusActive
}

// Seq returns the sequence number of the latest change.
// Safe to call from any goroutine.
func (r *Router) Seq() int64 {
	return r.clock.Current()
}

// Close deregisters the back/forward listener and drops all subscribers.
// Idempotent.
func (r *Router) Close() {
	if r.status == statusClosed {
		return
	}
	if r.cancelPop != nil {
		r.cancelPop()
		r.cancelPop = nil
	}
	for _, s := range r.subs {
		s.active = false
	}
	r.subs = nil
	r.status = statusClosed
	r.logger.Info("router closed")
}

func (r *Router) handlePopState() {
	if r.status != statusActive {
		return
	}

	raw := r.platform.Location()
	loc, err := location.Resolve(location.Direct{}, raw)
	if err != nil {
		r.logger.Warn("pop-state location degraded to root",
			"pathname", raw.Pathname,
			"search", raw.Search,
			"error", err,
		)
	}

	seq := r.commit(EntryPop, loc)
	r.logger.Debug("pop-state", "path", loc.Path, "search", loc.Search, "seq", seq)
	r.notify(loc, seq)
}

func (r *Router) target(op, path, search string) (location.LogicalLocation, error) {
	if r.status != statusActive {
		return location.LogicalLocation{}, &MisuseError{Op: op, Target: path + search, Err: ErrNotActive}
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") ||
		(search != "" && !strings.HasPrefix(search, "?")) {
		return location.LogicalLocation{}, &MisuseError{Op: op, Target: path + search, Err: ErrInvalidTarget}
	}
	return location.LogicalLocation{Path: path, Search: search}, nil
}

// commit records loc in history and makes it current.
func (r *Router) commit(kind EntryKind, loc location.LogicalLocation) int64 {
	entry := HistoryEntry{
		Key:      r.keys.Generate(),
		Seq:      r.clock.Next(),
		Kind:     kind,
		Location: loc,
	}

	if kind == EntryReplace && len(r.history) > 0 {
		r.history[len(r.history)-1] = entry
	} else {
		r.history = append(r.history, entry)
	}
	r.current = loc
	return entry.Seq
}

// notify calls subscribers in registration order. Subscriptions removed
// during notification are skipped.
func (r *Router) notify(loc location.LogicalLocation, seq int64) {
	subs := make([]*subscription, len(r.subs))
	copy(subs, r.subs)
	for _, s := range subs {
		if r.clock.Current() != seq {
			// A listener moved the router on; its own notify has
			// already reached everyone.
			return
		}
		if s.active {
			s.fn(loc, seq)
		}
	}
}
