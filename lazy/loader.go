// Package lazy defers construction of heavy visual modules until a view first
// asks for them.
//
// Each module id is loaded at most once per session. Loads run off the frame
// loop and their results come back through a post function, normally
// kernel.Dispatcher.Post, so waiters are called on the frame loop.
package lazy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"vitrine/internal/logging"
	"vitrine/kernel"
)

// ErrUnknownModule is the failure reason for ids nobody registered.
var ErrUnknownModule = errors.New("lazy: unknown module")

// State is the lifecycle of one module.
type State uint8

const (
	Unloaded State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// LoadState is a module's state plus its handle (Ready) or reason (Failed).
type LoadState struct {
	State  State
	Handle any
	Err    error
}

// Settled reports whether the load finished either way.
func (s LoadState) Settled() bool { return s.State == Ready || s.State == Failed }

// LoadFunc builds a module. ctx is cancelled when the Loader is closed.
type LoadFunc func(ctx context.Context, id string) (any, error)

type waiter struct {
	ctx context.Context
	cb  func(LoadState)
}

type entry struct {
	state   LoadState
	waiters []waiter
	// done is closed once state settles.
	done chan struct{}
}

// Loader caches module load states for the session. In-flight loads are keyed
// by module id in a singleflight group, so concurrent requests for one id
// share a single LoadFunc call.
type Loader struct {
	mu      sync.Mutex
	funcs   map[string]LoadFunc
	entries map[string]*entry
	group   singleflight.Group

	post   func(func()) bool
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a loader that delivers completions through post.
func New(post func(func()) bool, log *slog.Logger) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		funcs:   make(map[string]LoadFunc),
		entries: make(map[string]*entry),
		post:    post,
		log:     logging.OrDiscard(log),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register sets the load function for id. Registering after the first
// EnsureLoaded for id has no effect on that load.
func (l *Loader) Register(id string, fn LoadFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.funcs[id] = fn
}

// State returns the current state of id without starting a load.
func (l *Loader) State(id string) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e.state
	}
	return LoadState{State: Unloaded}
}

// EnsureLoaded returns the state of id, starting the load if it has not been
// started. While the load is in flight cb is queued and is called once with
// the settled state, unless ctx is done by then. When the returned state is
// already settled cb is not called. EnsureLoaded is safe to call from any
// goroutine; callbacks always run through the post function.
func (l *Loader) EnsureLoaded(ctx context.Context, id string, cb func(LoadState)) LoadState {
	if ctx == nil {
		ctx = context.Background()
	}
	l.mu.Lock()
	e, ok := l.entries[id]
	if ok && e.state.Settled() {
		l.mu.Unlock()
		return e.state
	}
	fn := l.funcs[id]
	if fn == nil {
		e = &entry{state: LoadState{State: Failed, Err: fmt.Errorf("%w: %q", ErrUnknownModule, id)}}
		l.entries[id] = e
		l.mu.Unlock()
		l.log.Warn("lazy.load.failed", "id", id, "err", e.state.Err)
		return e.state
	}
	if !ok {
		e = &entry{state: LoadState{State: Loading}, done: make(chan struct{})}
		l.entries[id] = e
		l.log.Debug("lazy.load.start", "id", id)
	}
	if cb != nil {
		e.waiters = append(e.waiters, waiter{ctx: ctx, cb: cb})
	}
	l.mu.Unlock()

	// Joins the running load for id, if any. The result channel is buffered
	// and completions travel through post instead.
	l.group.DoChan(id, func() (any, error) { return l.load(id, fn) })
	return LoadState{State: Loading}
}

// Preload starts loading id without waiting for it.
func (l *Loader) Preload(id string) LoadState {
	return l.EnsureLoaded(context.Background(), id, nil)
}

// Wait blocks until id settles or ctx is done. Callbacks for id have been
// posted by the time Wait returns a settled state. Ids that were never
// requested return Unloaded immediately.
func (l *Loader) Wait(ctx context.Context, id string) (LoadState, error) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok || e.state.Settled() {
		l.mu.Unlock()
		return l.State(id), nil
	}
	done := e.done
	l.mu.Unlock()

	select {
	case <-done:
		return l.State(id), nil
	case <-ctx.Done():
		return l.State(id), ctx.Err()
	}
}

// Close cancels in-flight loads. Their completions are still delivered.
func (l *Loader) Close() { l.cancel() }

// load is the singleflight body for id. It settles the entry before
// returning, so a call that starts after the group forgets id sees the
// settled state and does not run fn again.
func (l *Loader) load(id string, fn LoadFunc) (any, error) {
	l.mu.Lock()
	e := l.entries[id]
	if e.state.Settled() {
		st := e.state
		l.mu.Unlock()
		return st.Handle, st.Err
	}
	l.mu.Unlock()

	handle, err := l.run(id, fn)
	state := LoadState{State: Ready, Handle: handle}
	if err != nil {
		state = LoadState{State: Failed, Err: err}
	}

	l.mu.Lock()
	e.state = state
	waiters := e.waiters
	e.waiters = nil
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("lazy.load.failed", "id", id, "err", err)
	} else {
		l.log.Debug("lazy.load.ready", "id", id, "waiters", len(waiters))
	}
	if len(waiters) > 0 && !l.post(func() { l.deliver(id, state, waiters) }) {
		l.log.Debug("lazy.load.dropped", "id", id, "waiters", len(waiters))
	}
	close(e.done)
	return handle, err
}

func (l *Loader) run(id string, fn LoadFunc) (handle any, err error) {
	defer func() {
		if r := recover(); r != nil {
			handle, err = nil, fmt.Errorf("lazy: load %q panicked: %v", id, r)
		}
	}()
	return fn(l.ctx, id)
}

func (l *Loader) deliver(id string, state LoadState, waiters []waiter) {
	for _, w := range waiters {
		if w.ctx.Err() != nil {
			continue
		}
		cb := w.cb
		if info, panicked := kernel.Capture("lazy:"+id, func() { cb(state) }); panicked {
			l.log.Warn("lazy.waiter.panic", "id", id, "value", info.Value)
		}
	}
}
