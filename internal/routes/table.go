package routes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/roach88/staticroute/internal/location"
)

// Module is the content a route resolves to. The table never inspects it.
type Module any

// Loader produces a route's content. It may block; it is only called from
// a Task goroutine.
type Loader func(ctx context.Context) (Module, error)

// UXMeta is per-route presentation metadata.
type UXMeta struct {
	Title          string            `json:"title,omitempty"`
	First5sMessage string            `json:"first_5s_message,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Entry registers one logical path.
type Entry struct {
	Path   string
	Loader Loader
	UX     *UXMeta
}

// Table is the route registry. Safe for concurrent use.
type Table struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	entry    Entry
	loaded   bool
	module   Module
	inflight *Task
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{slots: make(map[string]*slot)}
}

// Register adds e to the table.
// Returns a *ConfigError for duplicate or invalid paths.
func (t *Table) Register(e Entry) error {
	if err := ValidatePath(e.Path); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.slots[e.Path]; exists {
		return &ConfigError{
			Code:    ErrCodeDuplicateRoute,
			Path:    e.Path,
			Message: "route already registered",
		}
	}
	t.slots[e.Path] = &slot{entry: e}
	return nil
}

// MustRegister is like Register but panics on error.
func (t *Table) MustRegister(entries ...Entry) *Table {
	for _, e := range entries {
		if err := t.Register(e); err != nil {
			panic(err)
		}
	}
	return t
}

// Lookup returns the entry registered at exactly path, or ErrNotFound.
func (t *Table) Lookup(path string) (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[path]
	if !ok {
		return Entry{}, fmt.Errorf("lookup %q: %w", path, ErrNotFound)
	}
	return s.entry, nil
}

// UXMeta returns the metadata for path. Absence is not an error.
func (t *Table) UXMeta(path string) (*UXMeta, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[path]
	if !ok || s.entry.UX == nil {
		return nil, false
	}
	return s.entry.UX, true
}

// Paths returns all registered paths in lexical order.
func (t *Table) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	paths := make([]string, 0, len(t.slots))
	for p := range t.slots {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// Load starts (or joins) the lazy load of path's content.
//
// The loader runs at most once concurrently per path. Once it succeeds the
// module is cached and later calls return an already-finished Task.
// Unknown paths return a finished Task carrying ErrNotFound.
func (t *Table) Load(ctx context.Context, path string) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[path]
	if !ok {
		return finishedTask(path, nil, fmt.Errorf("load %q: %w", path, ErrNotFound))
	}
	if s.loaded {
		return finishedTask(path, s.module, nil)
	}
	if s.entry.Loader == nil {
		s.loaded = true
		return finishedTask(path, nil, nil)
	}
	if s.inflight != nil {
		return s.inflight
	}

	task := newTask(path)
	s.inflight = task
	go t.run(ctx, s, task)
	return task
}

func (t *Table) run(ctx context.Context, s *slot, task *Task) {
	module, err := s.entry.Loader(ctx)

	t.mu.Lock()
	if err == nil {
		s.loaded = true
		s.module = module
	}
	s.inflight = nil
	t.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("load %q: %w", task.path, err)
	}
	task.finish(module, err)
}

// ValidatePath checks that path is usable as a logical route path.
func ValidatePath(path string) error {
	switch {
	case !strings.HasPrefix(path, "/"):
		return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must start with /"}
	case path != "/" && strings.HasSuffix(path, "/"):
		return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not end with /"}
	case strings.HasPrefix(path, "//"):
		return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not be protocol-relative"}
	case strings.ContainsAny(path, "?#"):
		return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not contain ? or #"}
	case strings.Contains(path, location.EscapeToken):
		return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not contain " + location.EscapeToken}
	}
	if path == "/" {
		return nil
	}
	for _, seg := range strings.Split(path[1:], "/") {
		switch seg {
		case "":
			return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not contain empty segments"}
		case ".", "..":
			return &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "path must not contain . or .. segments"}
		}
	}
	return nil
}
