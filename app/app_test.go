package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vitrine/hal"
	"vitrine/kernel"
	"vitrine/lazy"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestApp(t *testing.T, opts Options) (*App, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	if opts.Now == nil {
		opts.Now = clock.now
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a, clock
}

// frames steps the app n times, advancing the clock one 60 Hz frame each.
func frames(t *testing.T, a *App, clock *fakeClock, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		clock.advance(time.Second / 60)
		if err := a.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
}

// waitDetail steps until the detail view settles its load.
func waitDetail(t *testing.T, a *App, clock *fakeClock) lazy.LoadState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, ok := a.DetailState()
		if !ok {
			t.Fatal("no detail view mounted")
		}
		if st.Settled() {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("detail stuck in %v", st.State)
		}
		frames(t, a, clock, 1)
		time.Sleep(time.Millisecond)
	}
}

func TestNewMountsProductScenes(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	if len(a.products) != 3 {
		t.Fatalf("products=%d", len(a.products))
	}
	if n := a.driver.Len(); n != 6 {
		t.Fatalf("driver mounts=%d, want springs + panel + 3 products + contact", n)
	}
	if !a.contact.mount.Live() || a.contact.mount.Name() != "contact" {
		t.Fatal("contact model not mounted")
	}
	if w, h := a.Size(); w != 480 || h != 320 {
		t.Fatalf("size=%dx%d", w, h)
	}
	if img := a.Render(); img == nil || img.Bounds().Dx() != 480 {
		t.Fatal("render returned no frame")
	}
}

func TestScrollDrivesDerivedSignals(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.HandleEvent(hal.ScrollEvent(1))

	// One notch of a four-screen page: 40 / (3 * 320).
	s := a.signals
	p := 40.0 / 960
	if !approx(a.ScrollProgress(), p) {
		t.Fatalf("progress=%v", a.ScrollProgress())
	}
	if !approx(s.titleY.Value(), -1000*p) || !approx(s.titleOpacity.Value(), 1-10*p) {
		t.Fatalf("titleY=%v opacity=%v", s.titleY.Value(), s.titleOpacity.Value())
	}

	a.HandleEvent(hal.ScrollEvent(100))
	if a.ScrollProgress() != 1 || s.titleOpacity.Value() != 0 || !approx(s.backgroundScale.Value(), 1.2) || !approx(s.backgroundY.Value(), 300) {
		t.Fatalf("bottom: progress=%v opacity=%v scale=%v y=%v",
			a.ScrollProgress(), s.titleOpacity.Value(), s.backgroundScale.Value(), s.backgroundY.Value())
	}

	a.HandleEvent(hal.ScrollEvent(-1000))
	if a.ScrollProgress() != 0 || s.titleOpacity.Value() != 1 {
		t.Fatal("scrolling back up should restore the hero")
	}
	a.Render()
}

func TestCursorFollowsPointer(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.HandleEvent(hal.PointerEvent(100, 50))
	x, y, r, ok := a.Cursor()
	if !ok || x != 100 || y != 50 || r != CursorSize/2 {
		t.Fatalf("cursor=(%v,%v,%v,%v)", x, y, r, ok)
	}
	if a.signals.cursorX.Value() != 100-CursorSize/2 {
		t.Fatalf("cursorX=%v", a.signals.cursorX.Value())
	}
}

func TestStoryTiltEasesThroughSprings(t *testing.T) {
	a, clock := newTestApp(t, Options{})
	a.scrollTo(sectionStory)

	story := a.layout.story()
	a.HandleEvent(hal.PointerEvent(float64(story.Max.X-1), float64(story.Min.Y+story.Dy()/2)))

	s := a.signals
	target := s.x.Target()
	if target < 19 || target > 20 {
		t.Fatalf("x target=%v", target)
	}
	if s.x.Value() != 0 {
		t.Fatal("spring jumped before any frame ran")
	}

	frames(t, a, clock, 10)
	mid := s.x.Value()
	if mid <= 0 || mid >= target {
		t.Fatalf("spring should be in flight, got %v", mid)
	}

	frames(t, a, clock, 400)
	if !s.x.Idle() || s.x.Value() != target || s.rotateY.Value() != target {
		t.Fatalf("springs did not settle: x=%v rotateY=%v", s.x.Value(), s.rotateY.Value())
	}
	a.Render()

	// Pointer outside the panel leaves the targets alone.
	a.HandleEvent(hal.PointerEvent(1, 1))
	if s.x.Target() != target {
		t.Fatal("pointer outside the story panel moved the tilt")
	}
}

func TestSelectReplaceDismiss(t *testing.T) {
	a, clock := newTestApp(t, Options{})

	a.HandleEvent(hal.RuneEvent('2'))
	st := a.Overlay().State()
	if !st.IsOpen() || st.Product().Name != a.products[1].product.Name {
		t.Fatalf("state=%v", st)
	}
	if s, _ := a.DetailState(); s.State != lazy.Loading {
		t.Fatalf("first detail should be loading, got %v", s.State)
	}
	a.Render()

	if s := waitDetail(t, a, clock); s.State != lazy.Ready {
		t.Fatalf("detail state=%v err=%v", s.State, s.Err)
	}
	first := a.detail
	if first.mount == nil || !first.mount.Live() {
		t.Fatal("detail scene not mounted")
	}
	frames(t, a, clock, 200)
	a.Render()

	a.HandleEvent(hal.RuneEvent('3'))
	if first.mount.Live() {
		t.Fatal("previous detail view survived the replace")
	}
	s, _ := a.DetailState()
	if s.State != lazy.Ready || a.detail.mount == nil || !a.detail.mount.Live() {
		t.Fatalf("cached model should mount immediately, got %v", s.State)
	}
	if !a.panel.Settled() {
		t.Fatal("replace restarted the panel animation")
	}

	second := a.detail
	a.HandleEvent(hal.KeyEvent(hal.KeyEscape))
	if a.Overlay().State().IsOpen() {
		t.Fatal("escape did not dismiss")
	}
	if second.mount.Live() {
		t.Fatal("detail view survived dismiss")
	}
	if _, ok := a.DetailState(); ok {
		t.Fatal("detail view still attached")
	}
	frames(t, a, clock, 200)
	if a.panel.Visible() {
		t.Fatal("panel still visible after closing")
	}
}

func TestFailedModelShowsFallback(t *testing.T) {
	boom := errors.New("asset fetch failed")
	a, clock := newTestApp(t, Options{
		ModelLoader: func(context.Context, string) (any, error) { return nil, boom },
	})
	a.HandleEvent(hal.RuneEvent('1'))
	s := waitDetail(t, a, clock)
	if s.State != lazy.Failed || !errors.Is(s.Err, boom) {
		t.Fatalf("state=%v err=%v", s.State, s.Err)
	}
	if !a.Overlay().State().IsOpen() {
		t.Fatal("failure closed the modal")
	}
	frames(t, a, clock, 5)
	a.Render()
}

func TestUnexpectedHandleFails(t *testing.T) {
	a, clock := newTestApp(t, Options{
		ModelLoader: func(context.Context, string) (any, error) { return "not a model", nil },
	})
	a.HandleEvent(hal.RuneEvent('1'))
	waitDetail(t, a, clock)
	s, _ := a.DetailState()
	if s.State != lazy.Failed {
		t.Fatalf("state=%v", s.State)
	}
}

func TestClicks(t *testing.T) {
	a, clock := newTestApp(t, Options{})

	for i := 0; i < 8; i++ {
		a.HandleEvent(hal.ScrollEvent(1))
	}
	card := a.layout.card(0, len(a.products))
	a.HandleEvent(hal.ClickEvent(float64(card.Min.X+10), float64(card.Min.Y+10)))
	if st := a.Overlay().State(); !st.IsOpen() || st.Product().Name != a.products[0].product.Name {
		t.Fatalf("card click state=%v", st)
	}
	frames(t, a, clock, 200)

	m := a.modalRect()
	a.HandleEvent(hal.ClickEvent(float64(m.Max.X-20), float64(m.Min.Y+20)))
	if !a.Overlay().State().IsOpen() {
		t.Fatal("click inside the modal dismissed it")
	}

	btn := a.layout.closeButton(m)
	a.HandleEvent(hal.ClickEvent(float64(btn.Min.X+2), float64(btn.Min.Y+2)))
	if a.Overlay().State().IsOpen() {
		t.Fatal("close button did not dismiss")
	}

	a.HandleEvent(hal.RuneEvent('1'))
	a.HandleEvent(hal.ClickEvent(1, 1))
	if a.Overlay().State().IsOpen() {
		t.Fatal("backdrop click did not dismiss")
	}
}

func TestUnknownSelectionIgnored(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.HandleEvent(hal.RuneEvent('9'))
	if a.Overlay().State().IsOpen() {
		t.Fatal("out of range product opened")
	}
}

func TestQuitKey(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.HandleEvent(hal.RuneEvent('q'))
	if err := a.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("err=%v", err)
	}
}

func TestPanicScreen(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	a.crash(kernel.PanicInfo{Source: "test", Value: "boom", Stack: []byte("main.go:1\n\tframe")})

	img := a.Render()
	if c := img.RGBAAt(a.layout.w-1, a.layout.h-1); c.R != 255 {
		t.Fatalf("panic screen not drawn: %+v", c)
	}
	if _, _, _, ok := a.Cursor(); ok {
		t.Fatal("cursor shown over panic screen")
	}
	if err := a.Step(); err != nil {
		t.Fatalf("Step after panic: %v", err)
	}
	a.HandleEvent(hal.KeyEvent(hal.KeyEscape))
	if err := a.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("err=%v", err)
	}
}

func TestRunHeadlessSmoke(t *testing.T) {
	a, _ := newTestApp(t, Options{Now: time.Now})
	script, err := hal.ParseScript("2:pointer:300:100,3:key:1,10:scroll:3,20:key:esc")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hal.RunHeadless(ctx, a, hal.HeadlessConfig{Hz: 500, Ticks: 30, Script: script}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if a.Overlay().State().IsOpen() {
		t.Fatal("script should have closed the modal")
	}
}

func TestReplaceWhileFirstModelLoading(t *testing.T) {
	var (
		loads   atomic.Int32
		release = make(chan struct{})
		once    sync.Once
	)
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	a, clock := newTestApp(t, Options{
		ModelLoader: func(ctx context.Context, id string) (any, error) {
			loads.Add(1)
			<-release
			return loadProductModel(ctx, id)
		},
	})

	a.HandleEvent(hal.RuneEvent('1'))
	first := a.detail
	if first == nil || first.state.State != lazy.Loading {
		t.Fatal("first detail view should be loading")
	}
	a.HandleEvent(hal.RuneEvent('2'))
	second := a.detail
	if second == first {
		t.Fatal("replace kept the first detail view")
	}
	unblock()

	if st := waitDetail(t, a, clock); st.State != lazy.Ready {
		t.Fatalf("second state=%v err=%v", st.State, st.Err)
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("model loaded %d times, want 1", n)
	}
	if first.state.State != lazy.Loading || first.mount != nil {
		t.Fatalf("torn-down view received the load: state=%v mounted=%v", first.state.State, first.mount != nil)
	}
	if second.mount == nil || !second.mount.Live() {
		t.Fatal("second detail model not mounted")
	}
}

func TestDragOrbitsCardModelWhileSpinning(t *testing.T) {
	a, clock := newTestApp(t, Options{})
	a.scrollTo(sectionProducts)

	pv := a.products[0]
	frames(t, a, clock, 10)
	spinBefore := pv.bottle.Current().Rotation.Y
	camBefore := pv.scene.Camera.Position

	vp := a.layout.cardViewport(0, len(a.products))
	a.HandleEvent(hal.DragEvent(float64(vp.Min.X+10), float64(vp.Min.Y+10), 30, 0))
	if pv.orbit.Yaw == 0 {
		t.Fatal("drag did not change the orbit yaw")
	}
	if pv.scene.Camera.Position == camBefore {
		t.Fatal("drag did not move the camera")
	}
	if a.Overlay().State().IsOpen() {
		t.Fatal("drag opened the product")
	}
	if other := a.products[1].orbit; other.Yaw != 0 {
		t.Fatalf("drag leaked into another card: yaw=%v", other.Yaw)
	}

	yaw := pv.orbit.Yaw
	frames(t, a, clock, 10)
	if !(pv.bottle.Current().Rotation.Y > spinBefore) {
		t.Fatalf("spin stopped: %v -> %v", spinBefore, pv.bottle.Current().Rotation.Y)
	}
	if pv.orbit.Yaw != yaw {
		t.Fatal("frames changed the user's orbit")
	}
	a.Render()
}

func TestDragOrbitsDetailAndContactModels(t *testing.T) {
	a, clock := newTestApp(t, Options{})

	a.scrollTo(sectionContact)
	vp := a.layout.contactViewport()
	a.HandleEvent(hal.DragEvent(float64(vp.Min.X+5), float64(vp.Min.Y+5), 0, 20))
	if a.contact.orbit.Pitch == 0 {
		t.Fatal("contact model did not orbit")
	}

	a.HandleEvent(hal.RuneEvent('1'))
	waitDetail(t, a, clock)
	frames(t, a, clock, 200)
	mvp := a.layout.modalViewport(a.modalRect())
	a.HandleEvent(hal.DragEvent(float64(mvp.Min.X+5), float64(mvp.Min.Y+5), -25, 0))
	if a.detail.orbit == nil || a.detail.orbit.Yaw == 0 {
		t.Fatal("detail model did not orbit")
	}
	pitch := a.contact.orbit.Pitch
	a.HandleEvent(hal.DragEvent(float64(vp.Min.X+5), float64(vp.Min.Y+5), 0, 20))
	if a.contact.orbit.Pitch != pitch {
		t.Fatal("page model orbited under the open modal")
	}
	a.Render()
}

func TestContactSectionAndNav(t *testing.T) {
	a, _ := newTestApp(t, Options{})

	var contact navItem
	for _, item := range a.navItems() {
		if item.label == "Contact" {
			contact = item
		}
	}
	if contact.rect.Empty() {
		t.Fatal("no contact nav item")
	}
	c := contact.rect.Min.Add(contact.rect.Size().Div(2))
	a.HandleEvent(hal.ClickEvent(float64(c.X), float64(c.Y)))
	if a.ScrollProgress() != 1 {
		t.Fatalf("contact nav scrolled to %v, want 1", a.ScrollProgress())
	}
	if top := a.layout.section(sectionContact).Min.Y; top != 0 {
		t.Fatalf("contact section top=%d", top)
	}
	img := a.Render()
	if got := img.RGBAAt(2, a.layout.h-2); got != night {
		t.Fatalf("contact background=%+v", got)
	}
}
