package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"flashlife/src/universe"

	"github.com/logrusorgru/aurora"
)

const DefReportEvery = 10 //generations of the flashblocks pane between progress lines

//ConsoleOut prints the progress of a headless run
type ConsoleOut struct {
	u           universe.Universe
	w           io.Writer
	startTime   time.Time
	lastReport  int
	reportEvery int
	finished    bool
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{w: os.Stdout, reportEvery: DefReportEvery}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	flash := st.Pane(universe.PaneFlashblocks)
	if st.RunningMode == universe.RunningStateFinished {
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Total time": totalTime,
			"Block":      st.CurrentBlock,
		}
		for _, ps := range st.Panes {
			resultData[ps.Name+" generations"] = ps.Generation
			resultData[ps.Name+" live cells"] = ps.LiveCells
		}
		_, _ = fmt.Fprintln(c.w, "\nFinished:")
		c.printHashData(resultData)
		return
	}
	c.finished = false
	if flash.Generation < c.lastReport {
		//the universe was reset
		c.lastReport = 0
	}
	if flash.Generation > 0 && flash.Generation%c.reportEvery == 0 && flash.Generation != c.lastReport {
		c.lastReport = flash.Generation
		blocks := st.Pane(universe.PaneBlocks)
		_, _ = fmt.Fprintf(c.w, "  %s %v (%v live), %s %v (%v live)\n",
			aurora.Green(flash.Name), flash.Generation, flash.LiveCells,
			aurora.Cyan(blocks.Name), blocks.Generation, blocks.LiveCells)
	}
}

//Register also starts the clock, the universe may refresh the viewer before Start is called
func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	c.startTime = time.Now()
	o := c.u.Options()
	st := c.u.Status()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Size, o.Size)
	_, _ = fmt.Fprintf(c.w, "  Pattern: %v\n", patternDescr(st.Pattern))
	_, _ = fmt.Fprintf(c.w, "  Seed: %v\n", st.Seed)
	if o.MaxSteps > 0 {
		_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	}
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	for _, propName := range sortedKeys(d) {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}

func sortedKeys(d map[string]interface{}) []string {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	return propNames
}

//patternDescr names the pattern together with its template description
func patternDescr(p universe.Pattern) string {
	if tmpl, ok := universe.TemplateOf(p); ok {
		return fmt.Sprintf("%v (%s)", p, tmpl.Descr)
	}
	return p.String()
}

//shortHash abbreviates a transaction hash to 0x1234…abcd
func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:6] + "…" + h[len(h)-4:]
}
