//go:build cgo

package hal

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var cursorColor = color.RGBA{R: 0x41, G: 0x3F, B: 0x3D, A: 0xC0}

// RunWindow opens a desktop window that presents app's frames and forwards
// pointer, wheel and key input. It blocks until the window closes.
func RunWindow(app App, cfg WindowConfig) error {
	w, h := app.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	g := &hostGame{app: app, cfg: cfg, w: w, h: h}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	app  App
	cfg  WindowConfig
	w, h int

	input inputPoller
	fbImg *ebiten.Image
}

func (g *hostGame) Update() error {
	g.input.poll(g.app.HandleEvent)
	if err := g.app.Step(); err != nil {
		if errors.Is(err, ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	frame := g.app.Render()
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != b.Dx() || g.fbImg.Bounds().Dy() != b.Dy() {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.fbImg.WritePixels(contiguous(frame))
	screen.DrawImage(g.fbImg, nil)

	if ca, ok := g.app.(CursorApp); ok {
		if x, y, r, visible := ca.Cursor(); visible {
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), cursorColor, true)
		}
	}
	if g.cfg.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f", ebiten.ActualTPS()), 2, g.h-16)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

// contiguous returns img's pixels without row padding.
func contiguous(img *image.RGBA) []byte {
	b := img.Bounds()
	if img.Stride == b.Dx()*4 {
		off := img.PixOffset(b.Min.X, b.Min.Y)
		return img.Pix[off : off+b.Dx()*b.Dy()*4]
	}
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+b.Dx()*4]...)
	}
	return out
}
