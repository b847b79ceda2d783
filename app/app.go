// Package app composes the showcase page: input feeds the motion signals,
// springs and scene drivers animate it, and the overlay opens product details
// backed by lazily loaded models.
package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"vitrine/content"
	"vitrine/hal"
	"vitrine/internal/config"
	"vitrine/internal/logging"
	"vitrine/kernel"
	"vitrine/lazy"
	"vitrine/motion"
	"vitrine/overlay"
	"vitrine/quarkgl"
	"vitrine/scene"
)

// Options wires an App. Zero values select defaults.
type Options struct {
	Config  *config.Config
	Catalog *content.Catalog
	Logger  *slog.Logger
	// Now is the frame clock.
	Now func() time.Time
	// ModelLoader replaces the product-model module loader.
	ModelLoader lazy.LoadFunc

	Brand   string
	Tagline string
}

// productView is one product card with its spinning model.
type productView struct {
	product content.Product
	modelView
}

// App is the showcase. It implements hal.App and hal.CursorApp; all methods
// run on the host's frame loop.
type App struct {
	cfg     *config.Config
	catalog *content.Catalog
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	dispatcher *kernel.Dispatcher
	driver     *scene.Driver
	loader     *lazy.Loader
	overlay    *overlay.Controller
	panel      *overlay.Panel

	signals  *pageSignals
	spin     scene.Spin
	layout   layout
	products []*productView
	contact  modelView
	detail   *detailView
	shown    content.Product

	renderer *quarkgl.Renderer
	frame    *image.RGBA

	brand, tagline string
	quit           bool
	fatal          *kernel.PanicInfo
}

var (
	_ hal.App       = (*App)(nil)
	_ hal.CursorApp = (*App)(nil)
)

// New builds the page and mounts one spinning bottle per product plus the
// contact section's decorative bottle.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = content.Load(cfg.Catalog); err != nil {
			return nil, err
		}
	}
	log := logging.OrDiscard(opts.Logger)

	signals, err := newPageSignals(motion.SpringConfig{
		Stiffness: cfg.Motion.Stiffness,
		Damping:   cfg.Motion.Damping,
		RestDelta: cfg.Motion.RestDelta,
	})
	if err != nil {
		return nil, fmt.Errorf("page signals: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:        cfg,
		catalog:    catalog,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		dispatcher: kernel.NewDispatcher(log),
		driver:     scene.NewDriver(log, opts.Now),
		panel:      overlay.NewPanel(cfg.Window.TPS),
		signals:    signals,
		spin:       scene.Spin{Rate: cfg.Spin.Rate, BobAmplitude: cfg.Spin.BobAmplitude, BobFrequency: cfg.Spin.BobFrequency},
		layout:     layout{w: cfg.Window.Width, h: cfg.Window.Height},
		renderer:   quarkgl.NewRenderer(),
		frame:      image.NewRGBA(image.Rect(0, 0, cfg.Window.Width, cfg.Window.Height)),
		brand:      opts.Brand,
		tagline:    opts.Tagline,
	}
	if a.brand == "" {
		a.brand = "Aesop"
	}
	if a.tagline == "" {
		a.tagline = "Formulations for skin, hair, home and body"
	}

	a.loader = lazy.New(a.dispatcher.Post, log)
	modelLoader := opts.ModelLoader
	if modelLoader == nil {
		modelLoader = loadProductModel
	}
	a.loader.Register(ProductModelModule, modelLoader)

	a.overlay = overlay.NewController(catalog, a.mountDetail, log)
	a.overlay.OnChange(a.overlayChanged)

	a.driver.Register("springs", a.signals.springs.Tick)
	a.driver.Register("overlay.panel", func(float64) { a.panel.Step() })

	for i, p := range catalog.Products() {
		mv, err := a.mountModel(fmt.Sprintf("product:%d", i), scene.BottleParts(), 0)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("product %d model: %w", i, err)
		}
		a.products = append(a.products, &productView{product: p, modelView: mv})
	}
	if a.contact, err = a.mountModel("contact", scene.BottleParts(), 0); err != nil {
		a.Close()
		return nil, fmt.Errorf("contact model: %w", err)
	}

	log.Info("app.ready", "products", len(a.products), "size", fmt.Sprintf("%dx%d", a.layout.w, a.layout.h))
	return a, nil
}

// Size is the logical canvas size.
func (a *App) Size() (w, h int) { return a.layout.w, a.layout.h }

// Step drains completed loads and runs one frame of every driver callback.
// A panic escaping the frame is kept and shown instead of the page.
func (a *App) Step() error {
	if a.quit {
		return hal.ErrQuit
	}
	if a.fatal != nil {
		return nil
	}
	info, panicked := kernel.Capture("app.step", func() {
		a.dispatcher.Drain()
		a.driver.Tick()
	})
	if panicked {
		a.crash(info)
	}
	return nil
}

// HandleEvent applies one input event.
func (a *App) HandleEvent(ev hal.Event) {
	if a.fatal != nil {
		if ev.Kind == hal.EventKey && ev.Code == hal.KeyEscape {
			a.quit = true
		}
		return
	}
	if info, panicked := kernel.Capture("app.event", func() { a.handle(ev) }); panicked {
		a.crash(info)
	}
}

func (a *App) handle(ev hal.Event) {
	switch ev.Kind {
	case hal.EventPointer:
		a.signals.pointer(ev.X, ev.Y, a.layout.storyRect(), a.cfg.Motion.TiltRange)
	case hal.EventScroll:
		a.scrollBy(ev.Delta * scrollStep)
	case hal.EventClick:
		a.click(int(ev.X), int(ev.Y))
	case hal.EventDrag:
		a.drag(ev)
	case hal.EventKey:
		a.key(ev)
	}
}

func (a *App) key(ev hal.Event) {
	switch {
	case ev.Code == hal.KeyEscape:
		a.overlay.Dismiss()
	case ev.Code == hal.KeyUp:
		a.scrollBy(-scrollStep)
	case ev.Code == hal.KeyDown:
		a.scrollBy(scrollStep)
	case ev.Rune == 'q' || ev.Rune == 'Q':
		a.quit = true
	case ev.Rune >= '1' && ev.Rune <= '9':
		a.selectIndex(int(ev.Rune - '1'))
	}
}

func (a *App) click(x, y int) {
	if a.overlay.State().IsOpen() {
		m := a.modalRect()
		p := image.Pt(x, y)
		if !p.In(m) || p.In(a.layout.closeButton(m)) {
			a.overlay.Dismiss()
		}
		return
	}
	if a.signals.titleOpacity.Value() > 0 {
		for _, item := range a.navItems() {
			if image.Pt(x, y).In(item.rect) {
				a.scrollTo(item.section)
				return
			}
		}
	}
	if i, ok := a.layout.cardAt(x, y, len(a.products)); ok {
		a.selectIndex(i)
	}
}

// drag orbits the model under the press point. With the modal open only the
// detail model responds.
func (a *App) drag(ev hal.Event) {
	p := image.Pt(int(ev.X), int(ev.Y))
	if a.overlay.State().IsOpen() {
		vp := a.layout.modalViewport(a.modalRect())
		if a.detail != nil && p.In(vp) {
			a.detail.drag(ev.DX, ev.DY, vp)
		}
		return
	}
	n := len(a.products)
	for i, pv := range a.products {
		if vp := a.layout.cardViewport(i, n); p.In(vp) {
			pv.drag(ev.DX, ev.DY, vp)
			return
		}
	}
	if vp := a.layout.contactViewport(); p.In(vp) {
		a.contact.drag(ev.DX, ev.DY, vp)
	}
}

func (a *App) selectIndex(i int) {
	if i < 0 || i >= len(a.products) {
		return
	}
	a.overlay.Select(a.products[i].product)
}

func (a *App) scrollBy(dy float64) {
	a.setScroll(a.layout.offset + dy)
}

// scrollTo jumps to the top of section i.
func (a *App) scrollTo(i int) {
	a.setScroll(float64(i * a.layout.h))
}

func (a *App) setScroll(offset float64) {
	limit := a.layout.maxScroll()
	a.layout.offset = clampScroll(offset, limit)
	if limit > 0 {
		a.signals.scroll.Set(a.layout.offset / limit)
	}
}

func (a *App) overlayChanged(prev, next overlay.State) {
	if next.IsOpen() {
		a.shown = next.Product()
		a.panel.Open()
		return
	}
	a.panel.Close()
}

// Cursor reports the custom cursor circle.
func (a *App) Cursor() (x, y, r float64, ok bool) {
	if a.fatal != nil {
		return 0, 0, 0, false
	}
	r = CursorSize / 2
	return a.signals.cursorX.Value() + r, a.signals.cursorY.Value() + r, r, true
}

// Overlay exposes the modal controller.
func (a *App) Overlay() *overlay.Controller { return a.overlay }

// Loader exposes the lazy module loader.
func (a *App) Loader() *lazy.Loader { return a.loader }

// DetailState returns the load state of the open detail view.
func (a *App) DetailState() (lazy.LoadState, bool) {
	if a.detail == nil {
		return lazy.LoadState{}, false
	}
	return a.detail.state, true
}

// ScrollProgress returns scroll progress in [0,1].
func (a *App) ScrollProgress() float64 { return a.signals.scroll.Value() }

// Close tears down every scene and cancels pending loads.
func (a *App) Close() {
	a.overlay.Dismiss()
	for _, p := range a.products {
		p.mount.Unmount()
	}
	if a.contact.mount != nil {
		a.contact.mount.Unmount()
	}
	a.cancel()
	a.loader.Close()
	a.dispatcher.Close()
}

func (a *App) crash(info kernel.PanicInfo) {
	a.fatal = &info
	a.log.Error("app.panic", "source", info.Source, "value", info.Value, "stack", string(info.Stack))
}
