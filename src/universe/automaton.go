package universe

import (
	"fmt"
	"time"
)

//Automaton owns the lifecycle of one area
//it reinitialises when the reset token or the pattern changes and advances exactly
//one generation per observed increase of the external tick counter
//Automaton does no locking, the owner serialises calls
type Automaton struct {
	size    int
	stepper Stepper

	area       Area
	pattern    Pattern
	seed       int
	resetToken int
	lastTick   int

	generation    int
	liveCells     int
	iterationTime time.Duration
}

//AutomatonStatus is the automaton's state at a concrete moment
type AutomatonStatus struct {
	Pattern       Pattern
	Seed          int
	Tick          int
	Generation    int
	LiveCells     int
	IterationTime time.Duration
}

//NewAutomaton creates the automaton and initialises its area
//a nil stepper means Step
func NewAutomaton(size int, p Pattern, token int, stepper Stepper) *Automaton {
	if size <= 0 {
		panic(fmt.Sprintf("universe: invalid automaton size %d", size))
	}
	if stepper == nil {
		stepper = Step
	}
	a := &Automaton{size: size, stepper: stepper}
	a.reset(p, token)
	return a
}

//OnReset reinitialises the area when the pattern or the token differs from the last seen ones
//returns true if the area was replaced
func (a *Automaton) OnReset(p Pattern, token int) bool {
	if p == a.pattern && token == a.resetToken {
		return false
	}
	a.reset(p, token)
	return true
}

//OnTick advances one generation if tick is above the last seen counter value
//any positive jump counts as a single notification
//a counter below the baseline means the owner rebased it, the value is adopted without a step
func (a *Automaton) OnTick(tick int) bool {
	if tick <= a.lastTick {
		a.lastTick = tick
		return false
	}
	a.lastTick = tick
	start := time.Now()
	a.area = a.stepper(a.area)
	a.iterationTime = time.Since(start)
	a.liveCells = a.area.LiveCells()
	a.generation++
	return true
}

//Observe is the polling form of OnReset and OnTick, the reset is applied first
func (a *Automaton) Observe(p Pattern, token int, tick int) (reset bool, stepped bool) {
	reset = a.OnReset(p, token)
	stepped = a.OnTick(tick)
	return
}

//Area returns the current area, callers must treat it as read-only
func (a *Automaton) Area() Area { return a.area }

func (a *Automaton) Size() int { return a.size }

func (a *Automaton) Pattern() Pattern { return a.pattern }

//Seed returns the normalized seed of the last reset, meaningful for PatternRandom only
func (a *Automaton) Seed() int { return a.seed }

func (a *Automaton) Tick() int { return a.lastTick }

//Generation returns the count of steps since the last reset
func (a *Automaton) Generation() int { return a.generation }

func (a *Automaton) Status() AutomatonStatus {
	return AutomatonStatus{
		Pattern:       a.pattern,
		Seed:          a.seed,
		Tick:          a.lastTick,
		Generation:    a.generation,
		LiveCells:     a.liveCells,
		IterationTime: a.iterationTime,
	}
}

func (a *Automaton) reset(p Pattern, token int) {
	a.pattern = p
	a.resetToken = token
	a.seed = NormalizeSeed(token)
	a.area = Initialize(a.size, p, a.seed)
	a.lastTick = 0
	a.generation = 0
	a.liveCells = a.area.LiveCells()
	a.iterationTime = 0
}
