package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"flashlife/src/universe"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u universe.Universe
	g *gocui.Gui
	k []keyBindings

	deadFiller string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}

	//highlight colours cycled per tracked transaction, red is left out as it reads as an error
	highlightColors = []aurora.Color{
		aurora.GreenFg,
		aurora.MagentaFg,
		aurora.YellowFg,
		aurora.BlueFg,
		aurora.BrightFg | aurora.RedFg,
		aurora.BrightFg | aurora.MagentaFg,
		aurora.BrightFg | aurora.BlueFg,
		aurora.CyanFg,
	}

	paneViews = map[universe.PaneID]string{
		universe.PaneFlashblocks: "flashblocks",
		universe.PaneBlocks:      "blocks",
	}
)

//highlightColor picks the colour of the tracked transaction, index 0 is the base colour
func highlightColor(index int) aurora.Color {
	n := len(highlightColors)
	return highlightColors[((index%n)+n)%n]
}

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'q',
			"Q",
			"Exit",
			t.cmdQuit,
			""},
		{'p',
			"P",
			"Next pattern",
			t.cmdNextPattern,
			""},
		{'r',
			"R",
			"Reset",
			t.cmdReset,
			""},
		{'f',
			"F",
			"Flashblock tick",
			t.cmdTickFlashblocks,
			""},
		{'b',
			"B",
			"Block tick",
			t.cmdTickBlocks,
			""},
		{'t',
			"T",
			"Track latest tx",
			t.cmdTrack,
			""},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

func (t *ConsoleUI) Refresh() {
	st := t.u.Status()
	for _, p := range universe.Panes() {
		t.renderField(p, st)
	}
	t.renderConfiguration()
	t.renderStatus(st)
}

//liveFiller returns the glyph of a live cell, highlighted panes use the tracked transaction colour
func (t *ConsoleUI) liveFiller(highlight bool, trackIndex int) string {
	c := highlightColor(0)
	if highlight {
		c = highlightColor(trackIndex)
	}
	return aurora.Colorize("█", c).String()
}

func (t *ConsoleUI) renderField(pane universe.PaneID, st universe.Status) {
	a := t.u.Area(pane)
	ps := st.Pane(pane)
	liveFiller := t.liveFiller(ps.Highlight, st.TrackIndex)

	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View(paneViews[pane])
		if e != nil {
			return nil
		}
		v.Title = fmt.Sprintf("%s - Gen %d", ps.Name, ps.Ticks)
		v.Clear()

		crop := false
		maxW, maxH := v.Size()
		if a.Size > maxW || a.Size > maxH {
			crop = true
		}

		var b bytes.Buffer

		for i, l := range a.Entities {
			//discard the data outside the view area
			if i >= maxH {
				break
			}
			//line feed char
			if i != 0 {
				b.WriteByte(10)
			}
			if crop && i == (maxH-1) {
				b.WriteString(aurora.Red("The field is larger than the view").BgBlack().String())
				break
			}
			for j, e := range l {
				if j >= maxW {
					break
				}
				if e {
					b.WriteString(liveFiller)
				} else {
					b.WriteString(t.deadFiller)
				}
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus(s universe.Status) {
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Pattern", "%v", patternDescr(s.Pattern)))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", s.Seed))
			_, _ = fmt.Fprintln(v, t.renderProp("Block", "%v", s.CurrentBlock))
			for _, ps := range s.Panes {
				_, _ = fmt.Fprintln(v, "")
				_, _ = fmt.Fprintln(v, " "+aurora.Bold(ps.Name).String())
				_, _ = fmt.Fprintln(v, t.renderProp("Ticks", "%v", ps.Ticks))
				_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", ps.Generation))
				_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", ps.LiveCells))
				_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", ps.IterationTime.Round(time.Microsecond)))
			}
			if s.TrackedTx != "" {
				_, _ = fmt.Fprintln(v, "")
				_, _ = fmt.Fprintln(v, t.renderProp("Tracking", "%v", aurora.Colorize(shortHash(s.TrackedTx), highlightColor(s.TrackIndex))))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Size, c.Size))
			if c.MaxSteps > 0 {
				_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
			}
			for _, k := range sortedKeys(c.Advanced) {
				_, _ = fmt.Fprintln(v, t.renderProp(k, "%v", c.Advanced[k]))
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

//minimal terminal size for the full layout
const (
	minWindowWidth  = 60
	minWindowHeight = 20
)

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 30

	switch {
	case maxY < minWindowHeight:
		return t.tooSmallLayout(g, maxY, "Terminal height too small")
	case maxX < minWindowWidth:
		return t.tooSmallLayout(g, maxY, "Terminal width too small")
	}
	if _, err := t.headerLayout(g, 3, "Flashblocks vs Blocks: \"The Life\" game"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 9); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 10, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(t.u.Status())
	}

	fieldWidth := (maxX - leftColumnWidth - 2) / 2
	x0 := leftColumnWidth + 1
	st := t.u.Status()
	for i, p := range universe.Panes() {
		x1 := x0 + i*(fieldWidth+1)
		if v, err := g.SetView(paneViews[p], x1, 3, x1+fieldWidth, maxY-5); err != nil {
			if err != gocui.ErrUnknownView || v == nil {
				return err
			}
			v.Frame = true
		}
		t.renderField(p, st)
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

//tooSmallLayout replaces every view by a full screen header carrying the message
func (t *ConsoleUI) tooSmallLayout(g *gocui.Gui, height int, message string) error {
	if _, err := t.headerLayout(g, height, message); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}
	for _, name := range []string{"configuration", "status", "help"} {
		_ = g.DeleteView(name)
	}
	for _, name := range paneViews {
		_ = g.DeleteView(name)
	}
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, headerText(maxX, height, text))
	}
	return
}

//headerText centers text in a header of the given size, text wider than the header is cut
func headerText(width int, height int, text string) string {
	if width < 0 {
		width = 0
	}
	if len(text) > width {
		text = text[:width]
	}
	return strings.Repeat("\n", height/2+1) + strings.Repeat(" ", (width-len(text))/2) + text
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextPattern(_ *gocui.View) error {
	t.u.NextPattern()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.u.Reset()
	return nil
}

func (t *ConsoleUI) cmdTickFlashblocks(_ *gocui.View) error {
	t.u.Tick(universe.PaneFlashblocks)
	return nil
}

func (t *ConsoleUI) cmdTickBlocks(_ *gocui.View) error {
	t.u.Tick(universe.PaneBlocks)
	return nil
}

func (t *ConsoleUI) cmdTrack(_ *gocui.View) error {
	t.u.TrackLatest()
	return nil
}
