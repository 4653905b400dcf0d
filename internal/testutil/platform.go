package testutil

import (
	"strings"
	"sync"

	"github.com/roach88/staticroute/internal/location"
)

// FakePlatform is an in-memory host environment for router tests.
//
// It records every address bar write and lets tests fire back/forward
// events with Pop.
type FakePlatform struct {
	mu        sync.Mutex
	raw       location.RawLocation
	pushes    []string
	replaces  []string
	listeners map[int]func()
	nextID    int
}

// NewFakePlatform creates a platform whose address is raw.
func NewFakePlatform(raw location.RawLocation) *FakePlatform {
	return &FakePlatform{raw: raw, listeners: make(map[int]func())}
}

// Location returns the current raw address.
func (p *FakePlatform) Location() location.RawLocation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.raw
}

// PushURL records url and makes it the current address.
func (p *FakePlatform) PushURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, url)
	p.raw = SplitURL(url)
}

// ReplaceURL records url and makes it the current address.
func (p *FakePlatform) ReplaceURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replaces = append(p.replaces, url)
	p.raw = SplitURL(url)
}

// OnPopState registers fn.
func (p *FakePlatform) OnPopState(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Pop simulates a back/forward event landing on raw.
func (p *FakePlatform) Pop(raw location.RawLocation) {
	p.mu.Lock()
	p.raw = raw
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Pushes returns every URL passed to PushURL.
func (p *FakePlatform) Pushes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.pushes...)
}

// Replaces returns every URL passed to ReplaceURL.
func (p *FakePlatform) Replaces() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.replaces...)
}

// Listeners returns the number of registered pop-state listeners.
func (p *FakePlatform) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// SplitURL splits a direct URL into its raw pathname and search parts.
func SplitURL(url string) location.RawLocation {
	path, query, found := strings.Cut(url, "?")
	if !found {
		return location.RawLocation{Pathname: path}
	}
	return location.RawLocation{Pathname: path, Search: "?" + query}
}
