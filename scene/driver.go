package scene

import (
	"log/slog"
	"math"
	"time"

	"vitrine/internal/logging"
	"vitrine/kernel"
)

// FrameFunc is called once per tick with the seconds elapsed since mount.
type FrameFunc func(elapsed float64)

// Driver runs the per-frame callbacks of every mounted scene. It is owned by
// the frame loop and is not safe for concurrent use.
type Driver struct {
	now    func() time.Time
	log    *slog.Logger
	mounts []*Mount
	frames uint64
}

// NewDriver creates a driver reading time from now (time.Now when nil).
func NewDriver(log *slog.Logger, now func() time.Time) *Driver {
	if now == nil {
		now = time.Now
	}
	return &Driver{now: now, log: logging.OrDiscard(log)}
}

// Mount is one registered frame callback.
type Mount struct {
	d     *Driver
	name  string
	scene Scene
	fn    FrameFunc
	start time.Time
	live  bool
}

// Mount registers fn for sc. The elapsed clock starts now.
func (d *Driver) Mount(name string, sc Scene, fn FrameFunc) *Mount {
	m := &Mount{d: d, name: name, scene: sc, fn: fn, start: d.now(), live: true}
	d.mounts = append(d.mounts, m)
	d.log.Debug("scene.mount", "name", name, "mounts", len(d.mounts))
	return m
}

// Register adds a frame callback that has no scene attached.
func (d *Driver) Register(name string, fn FrameFunc) *Mount {
	return d.Mount(name, nil, fn)
}

// Len reports the number of live mounts.
func (d *Driver) Len() int { return len(d.mounts) }

// Frames reports how many ticks have run.
func (d *Driver) Frames() uint64 { return d.frames }

// Tick runs every live callback once. A callback unmounted earlier in the same
// tick is skipped. Panics are contained to the callback that raised them.
func (d *Driver) Tick() {
	d.frames++
	now := d.now()

	mounts := d.mounts
	for _, m := range mounts {
		if !m.live || m.fn == nil {
			continue
		}
		elapsed := now.Sub(m.start).Seconds()
		if elapsed < 0 || math.IsNaN(elapsed) {
			continue
		}
		if info, panicked := kernel.Capture(m.name, func() { m.fn(elapsed) }); panicked {
			d.log.Warn("scene.frame.panic", "name", m.name, "value", info.Value)
		}
	}
}

// Name returns the mount name.
func (m *Mount) Name() string { return m.name }

// Scene returns the mounted scene, which may be nil.
func (m *Mount) Scene() Scene { return m.scene }

// Live reports whether the callback is still registered.
func (m *Mount) Live() bool { return m != nil && m.live }

// Elapsed returns seconds since mount on the driver clock.
func (m *Mount) Elapsed() float64 {
	return m.d.now().Sub(m.start).Seconds()
}

// Unmount deregisters the callback and disposes the scene. It takes effect
// immediately, including when called from inside a running tick, and is safe
// to call more than once.
func (m *Mount) Unmount() {
	if m == nil || !m.live {
		return
	}
	m.live = false

	d := m.d
	next := make([]*Mount, 0, len(d.mounts))
	for _, other := range d.mounts {
		if other != m {
			next = append(next, other)
		}
	}
	d.mounts = next

	if m.scene != nil {
		m.scene.Dispose()
	}
	d.log.Debug("scene.unmount", "name", m.name, "mounts", len(d.mounts))
}
