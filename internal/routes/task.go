package routes

import "context"

// Task is an in-flight or finished route content load.
type Task struct {
	path   string
	done   chan struct{}
	module Module
	err    error
}

func newTask(path string) *Task {
	return &Task{path: path, done: make(chan struct{})}
}

func finishedTask(path string, module Module, err error) *Task {
	t := newTask(path)
	t.finish(module, err)
	return t
}

func (t *Task) finish(module Module, err error) {
	t.module = module
	t.err = err
	close(t.done)
}

// Path returns the route path being loaded.
func (t *Task) Path() string {
	return t.path
}

// Done is closed once the load has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the load finishes or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) (Module, error) {
	select {
	case <-t.done:
		return t.module, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether the load has finished.
func (t *Task) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome without blocking, or ErrPending while the
// load is still running.
func (t *Task) Result() (Module, error) {
	if !t.Ready() {
		return nil, ErrPending
	}
	return t.module, t.err
}
