// Package overlay holds the single product modal: which product is open, the
// detail view mounted for it, and its entrance animation.
package overlay

import (
	"log/slog"

	"vitrine/content"
	"vitrine/internal/logging"
	"vitrine/kernel"
)

// State is Closed or Open(product).
type State struct {
	open    bool
	product content.Product
}

// Closed is the state with no modal shown.
func Closed() State { return State{} }

// Open is the state showing p.
func Open(p content.Product) State { return State{open: true, product: p} }

func (s State) IsOpen() bool { return s.open }

// Product returns the open product, or the zero Product when closed.
func (s State) Product() content.Product { return s.product }

// Equal compares two states by product content.
func (s State) Equal(o State) bool {
	if s.open != o.open {
		return false
	}
	return !s.open || s.product.Equal(o.product)
}

func (s State) String() string {
	if !s.open {
		return "closed"
	}
	return "open(" + s.product.Name + ")"
}

// Mounter stands up the detail view for p and returns its teardown.
type Mounter func(p content.Product) (teardown func())

// Observer is told about every transition once, after the detail view for
// next is mounted.
type Observer func(prev, next State)

// Controller is the modal state machine. It runs on the frame loop and is not
// safe for concurrent use.
type Controller struct {
	catalog  *content.Catalog
	mount    Mounter
	teardown func()
	state    State

	observers []*Observer
	log       *slog.Logger
}

// NewController creates a closed controller. Selections are checked against
// catalog; mount may be nil.
func NewController(catalog *content.Catalog, mount Mounter, log *slog.Logger) *Controller {
	return &Controller{catalog: catalog, mount: mount, log: logging.OrDiscard(log)}
}

// State returns the current modal state.
func (c *Controller) State() State { return c.state }

// OnChange registers fn for transitions.
func (c *Controller) OnChange(fn Observer) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	o := &fn
	c.observers = append(c.observers, o)
	return func() {
		for i, other := range c.observers {
			if other == o {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// Select opens p, replacing whatever is open in a single transition. Products
// not in the catalog and the already open product are ignored. Select reports
// whether the state changed.
func (c *Controller) Select(p content.Product) bool {
	if p.IsZero() || (c.catalog != nil && !c.catalog.Contains(p)) {
		c.log.Debug("overlay.select.ignored", "product", p.Name)
		return false
	}
	next := Open(p)
	if c.state.Equal(next) {
		return false
	}
	c.transition(next)
	return true
}

// SelectName looks name up in the catalog and selects it.
func (c *Controller) SelectName(name string) bool {
	if c.catalog == nil {
		return false
	}
	p, ok := c.catalog.Lookup(name)
	if !ok {
		c.log.Debug("overlay.select.unknown", "name", name)
		return false
	}
	return c.Select(p)
}

// Dismiss closes the modal. Dismissing a closed modal does nothing.
func (c *Controller) Dismiss() bool {
	if !c.state.open {
		return false
	}
	c.transition(Closed())
	return true
}

func (c *Controller) transition(next State) {
	prev := c.state
	if c.teardown != nil {
		td := c.teardown
		c.teardown = nil
		c.guard("teardown", td)
	}
	c.state = next
	if next.open && c.mount != nil {
		c.guard("mount", func() { c.teardown = c.mount(next.product) })
	}
	c.log.Info("overlay.transition", "from", prev.String(), "to", next.String())

	observers := append([]*Observer(nil), c.observers...)
	for _, o := range observers {
		fn := *o
		c.guard("observer", func() { fn(prev, next) })
	}
}

func (c *Controller) guard(what string, fn func()) {
	if info, panicked := kernel.Capture("overlay."+what, fn); panicked {
		c.log.Warn("overlay.panic", "stage", what, "value", info.Value)
	}
}
