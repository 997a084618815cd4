package universe

import (
	"fmt"
	"sync"

	"flashlife/src/feed"
)

//PaneID identifies one of the two side by side automata
type PaneID int

const (
	PaneFlashblocks PaneID = iota //advanced once per flashblock
	PaneBlocks                    //advanced once per completed block
	paneCount
)

var paneNames = [paneCount]string{"Flashblocks", "Blocks"}

func (p PaneID) String() string {
	if p >= 0 && p < paneCount {
		return paneNames[p]
	}
	return fmt.Sprintf("Pane(%d)", int(p))
}

//Panes lists all panes in display order
func Panes() []PaneID {
	return []PaneID{PaneFlashblocks, PaneBlocks}
}

//Options represents the Universe's configurable options
type Options struct {
	Size     int
	Pattern  Pattern
	Seed     int //initial reset token
	Engine   string
	Stepper  Stepper
	MaxSteps int //stop after the flashblocks pane reached MaxSteps generations, 0 means unlimited
	Advanced map[string]interface{} //advanced options (engine specific)
}

//PaneStatus represents the status of one pane
type PaneStatus struct {
	Name  string
	Ticks int //feed events counted since the last reset
	AutomatonStatus
	Highlight bool //the tracked transaction landed in this pane's feed
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	RunningMode  RunningState
	Pattern      Pattern
	ResetKey     int
	Seed         int
	Panes        [paneCount]PaneStatus
	CurrentBlock uint64
	TrackedTx    string
	TrackIndex   int //bumped on every tracked transaction, selects the highlight colour
}

//Pane returns the status of the pane p
func (s Status) Pane(p PaneID) PaneStatus {
	return s.Panes[p]
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

const (
	RunningStateRun      RunningState = 0x0
	RunningStateFinished RunningState = 0x1
)

func (r RunningState) String() string {
	if r == RunningStateFinished {
		return "finished"
	}
	return "running"
}

//default options
const (
	DefSize     = 50
	DefSeed     = 1
	DefMaxSteps = 0
	DefEngine   = "simple"
)

var DefaultUniverseOptions = Options{
	Size:     DefSize,
	Pattern:  PatternRandom,
	Seed:     DefSeed,
	Engine:   DefEngine,
	MaxSteps: DefMaxSteps,
}

//BaseUniverse hosts the flashblocks and blocks automata
//implements Universe interface
//every mutation is queued to the main loop so the automata only ever run on one goroutine
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	panes     [paneCount]*Automaton
	tracker   *feed.Tracker
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan bool
	closeOnce sync.Once
	done      chan struct{}
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
//stateCh is optional, when set every status change is written to it
func NewBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		d := DefaultUniverseOptions
		o = &d
	}
	opts := *o
	if opts.Stepper == nil {
		opts.Stepper = Step
	}
	opts.Advanced = make(map[string]interface{})
	for k, v := range o.Advanced {
		opts.Advanced[k] = v
	}
	if opts.Engine != "" {
		opts.Advanced["engine"] = opts.Engine
	}

	u := BaseUniverse{
		options:   opts,
		tracker:   feed.NewTracker(),
		stateCh:   stateCh,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		done:      make(chan struct{}),
	}
	u.state.ResetKey = opts.Seed
	u.state.Pattern = opts.Pattern
	for _, p := range Panes() {
		u.panes[p] = NewAutomaton(opts.Size, opts.Pattern, opts.Seed, opts.Stepper)
		u.state.Panes[p].Name = p.String()
	}
	u.updateStatus()
	go u.mainLoop()
	return &u
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	v.Register(u)
	u.do(func() { u.views = append(u.views, v) })
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Area returns the current area of the pane, it must not be modified
func (u *BaseUniverse) Area(pane PaneID) Area {
	u.state.Lock()
	defer u.state.Unlock()
	return u.panes[pane].Area()
}

//SelectPattern reinitialises both panes with the pattern, returns immediately
func (u *BaseUniverse) SelectPattern(p Pattern) {
	u.do(func() { u.reset(p) })
}

//NextPattern switches to the next selectable pattern, returns immediately
func (u *BaseUniverse) NextPattern() {
	u.do(func() { u.reset(u.state.Pattern.Next()) })
}

//Reset reinitialises both panes with the current pattern, returns immediately
func (u *BaseUniverse) Reset() {
	u.do(func() { u.reset(u.state.Pattern) })
}

//Tick counts one event for the pane, returns immediately
func (u *BaseUniverse) Tick(pane PaneID) {
	u.do(func() {
		u.tick(pane)
		u.publish()
	})
}

//Observe feeds a flashblock record, returns immediately
//the record ticks the flashblocks pane and, when it starts a new block, the blocks pane
func (u *BaseUniverse) Observe(fb *feed.Flashblock) {
	u.do(func() {
		for _, ev := range u.tracker.Observe(fb) {
			switch ev.Kind {
			case feed.EventFlashblock:
				u.tick(PaneFlashblocks)
			case feed.EventBlock:
				u.tick(PaneBlocks)
			}
		}
		u.state.Lock()
		u.state.CurrentBlock = u.tracker.CurrentBlock()
		u.state.Unlock()
		u.updateHighlight()
		u.publish()
	})
}

//Track highlights the panes where the transaction hash shows up, returns immediately
func (u *BaseUniverse) Track(hash string) {
	u.do(func() { u.track(hash) })
}

//TrackLatest tracks the newest transaction seen on the feed, returns immediately
func (u *BaseUniverse) TrackLatest() {
	u.do(func() {
		if hash, ok := u.tracker.LatestTransaction(); ok {
			u.track(hash)
		}
	})
}

//Close stops the main loop, returns immediately
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() {
		u.closeCh <- true
	})
}

//do queues the command, it is dropped once the universe is closed
func (u *BaseUniverse) do(cmd func()) {
	select {
	case u.controlCh <- cmd:
	case <-u.done:
	}
}

//flush waits until every command queued before it has run
func (u *BaseUniverse) flush() {
	ch := make(chan struct{})
	u.do(func() { close(ch) })
	select {
	case <-ch:
	case <-u.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			close(u.done)
			return
		}
	}
}

//reset bumps the reset key, zeroes the counters and reinitialises both panes
func (u *BaseUniverse) reset(p Pattern) {
	u.state.Lock()
	u.state.ResetKey++
	u.state.Pattern = p
	u.state.RunningMode = RunningStateRun
	key := u.state.ResetKey
	for _, pane := range Panes() {
		u.state.Panes[pane].Ticks = 0
		u.panes[pane].OnReset(p, key)
	}
	u.state.Unlock()
	u.updateStatus()
	u.publish()
}

//tick counts one event for the pane and lets the automaton observe the counter
func (u *BaseUniverse) tick(pane PaneID) {
	u.state.Lock()
	if u.state.RunningMode == RunningStateFinished {
		u.state.Unlock()
		return
	}
	u.state.Panes[pane].Ticks++
	u.panes[pane].OnTick(u.state.Panes[pane].Ticks)
	maxSteps := u.options.MaxSteps
	if maxSteps > 0 && u.panes[PaneFlashblocks].Generation() >= maxSteps {
		u.state.RunningMode = RunningStateFinished
	}
	u.state.Unlock()
	u.updateStatus()
}

func (u *BaseUniverse) track(hash string) {
	u.state.Lock()
	u.state.TrackedTx = hash
	u.state.TrackIndex++
	u.state.Unlock()
	u.updateHighlight()
	u.publish()
}

//updateHighlight marks the flashblocks pane while the tracked transaction sits in the block being built
//and the blocks pane once that block completed
func (u *BaseUniverse) updateHighlight() {
	u.state.Lock()
	defer u.state.Unlock()
	flash, block := false, false
	if u.state.TrackedTx != "" {
		if loc, ok := u.tracker.Locate(u.state.TrackedTx); ok {
			flash = loc.Pending
			block = !loc.Pending
		}
	}
	u.state.Panes[PaneFlashblocks].Highlight = flash
	u.state.Panes[PaneBlocks].Highlight = block
}

//updateStatus copies the automata state into the status
func (u *BaseUniverse) updateStatus() {
	u.state.Lock()
	defer u.state.Unlock()
	for _, p := range Panes() {
		u.state.Panes[p].AutomatonStatus = u.panes[p].Status()
	}
	u.state.Seed = u.panes[PaneFlashblocks].Seed()
}

//publish writes the status to the stateCh and refreshes the views
func (u *BaseUniverse) publish() {
	if u.stateCh != nil {
		st := u.Status()
		select {
		case u.stateCh <- st:
		case <-u.closeCh:
			//put the close request back for the main loop
			u.closeCh <- true
		}
	}
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}
