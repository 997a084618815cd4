//go:build ebiten

package view

import (
	"errors"
	"fmt"
	"image/color"

	"flashlife/src/universe"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	DefCellScale = 8
	labelHeight  = 20
	paneGap      = 16
)

var (
	deadColor = color.RGBA{0x11, 0x18, 0x27, 0xff}
	gridColor = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	//emerald first, then the tracked transaction colours
	windowColors = []color.RGBA{
		{0x10, 0xb9, 0x81, 0xff},
		{0xa8, 0x55, 0xf7, 0xff},
		{0xea, 0xb3, 0x08, 0xff},
		{0x3b, 0x82, 0xf6, 0xff},
		{0xf9, 0x73, 0x16, 0xff},
		{0xec, 0x48, 0x99, 0xff},
		{0x63, 0x66, 0xf1, 0xff},
		{0x06, 0xb6, 0xd4, 0xff},
	}
)

//Window renders both panes in an ebiten window
type Window struct {
	u       universe.Universe
	scale   int
	size    int
	painter [2]*ebiten.Image
	buf     []byte
}

func NewWindow(scale int) *Window {
	if scale <= 0 {
		scale = DefCellScale
	}
	return &Window{scale: scale}
}

func (w *Window) Register(u universe.Universe) {
	w.u = u
	w.size = u.Options().Size
	w.buf = make([]byte, 4*w.size*w.size)
	for i := range w.painter {
		w.painter[i] = ebiten.NewImage(w.size, w.size)
	}
}

//Refresh is a no-op, Draw pulls the state on every frame
func (w *Window) Refresh() {}

func (w *Window) Start() {
	side := w.size * w.scale
	ebiten.SetWindowTitle("flashlife: flashblocks vs blocks")
	ebiten.SetWindowSize(2*side+paneGap, side+labelHeight)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(err)
	}
}

//Update handles the keyboard, the simulation itself is driven by the feed
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		w.u.NextPattern()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.u.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		w.u.Tick(universe.PaneFlashblocks)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		w.u.Tick(universe.PaneBlocks)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		w.u.TrackLatest()
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(gridColor)
	st := w.u.Status()
	side := w.size * w.scale
	for i, p := range universe.Panes() {
		ps := st.Pane(p)
		on := windowColors[0]
		if ps.Highlight {
			n := len(windowColors)
			on = windowColors[((st.TrackIndex%n)+n)%n]
		}
		fillArea(w.buf, w.u.Area(p), on, deadColor)
		w.painter[i].WritePixels(w.buf)

		x := i * (side + paneGap)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(w.scale), float64(w.scale))
		op.GeoM.Translate(float64(x), labelHeight)
		screen.DrawImage(w.painter[i], op)

		label := fmt.Sprintf("%s  Gen %d", ps.Name, ps.Ticks)
		text.Draw(screen, label, basicfont.Face7x13, x+4, 14, color.White)
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := w.size * w.scale
	return 2*side + paneGap, side + labelHeight
}

//fillArea converts the area into RGBA pixels in buf
func fillArea(buf []byte, a universe.Area, on, off color.RGBA) {
	for i, row := range a.Entities {
		for j, alive := range row {
			c := off
			if alive {
				c = on
			}
			base := (i*a.Size + j) * 4
			buf[base+0] = c.R
			buf[base+1] = c.G
			buf[base+2] = c.B
			buf[base+3] = c.A
		}
	}
}
