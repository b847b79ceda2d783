// Package kernel provides the single logical thread the showcase runs on.
//
// The host calls Drain once per frame. Work that finishes elsewhere (module
// loads) is posted into the mailbox and runs at the next Drain, so state owned
// by the frame loop is only ever touched from that loop.
package kernel

import (
	"log/slog"
	"sync"
)

// mailboxSlots is the initial capacity of the dispatcher queue. The queue
// grows past it; completions are never dropped.
const mailboxSlots = 16

// Dispatcher is a multi-producer, single-consumer queue of callbacks.
type Dispatcher struct {
	mu     sync.Mutex
	head   int
	count  int
	slots  []func()
	closed bool

	log *slog.Logger
}

// NewDispatcher creates an empty dispatcher. log may be nil.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{slots: make([]func(), mailboxSlots), log: log}
}

// Post enqueues fn for the next Drain. It is safe to call from any goroutine.
// Post reports false once the dispatcher is closed.
func (d *Dispatcher) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if d.count == len(d.slots) {
		d.grow()
	}
	d.slots[(d.head+d.count)%len(d.slots)] = fn
	d.count++
	return true
}

func (d *Dispatcher) grow() {
	next := make([]func(), len(d.slots)*2)
	for i := 0; i < d.count; i++ {
		next[i] = d.slots[(d.head+i)%len(d.slots)]
	}
	d.slots = next
	d.head = 0
}

func (d *Dispatcher) pop() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.count == 0 {
		return nil, false
	}
	fn := d.slots[d.head]
	d.slots[d.head] = nil
	d.head = (d.head + 1) % len(d.slots)
	d.count--
	return fn, true
}

// Pending reports the number of queued callbacks.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Drain runs queued callbacks in FIFO order on the calling goroutine and
// returns how many ran. Callbacks posted while draining run in the same call.
// A panicking callback is recovered and reported; the rest still run.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		fn, ok := d.pop()
		if !ok {
			return n
		}
		if info, panicked := Capture("dispatch", fn); panicked {
			d.report(info)
		}
		n++
	}
}

// Close rejects further posts. Queued callbacks are discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for i := range d.slots {
		d.slots[i] = nil
	}
	d.head = 0
	d.count = 0
}

func (d *Dispatcher) report(info PanicInfo) {
	if d.log == nil {
		return
	}
	d.log.Error("kernel.dispatch.panic", "source", info.Source, "value", info.Value, "stack", string(info.Stack))
}
