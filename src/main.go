package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"flashlife/src/feed"
	"flashlife/src/universe"
	"flashlife/src/view"

	"github.com/integrii/flaggy"
)

var (
	engines = map[string]func(o *universe.Options) universe.Stepper{
		"simple": func(o *universe.Options) universe.Stepper {
			return universe.Step
		},
		"multithreaded": func(o *universe.Options) universe.Stepper {
			o.Advanced["workers"] = universe.DefWorkers
			return universe.NewParallelStepper(universe.DefWorkers)
		},
	}
)

type EnvOptions struct {
	interactive bool
	gui         bool
	pattern     string
	feed        string
	interval    time.Duration
	perBlock    int
	track       string
	scale       int
}

func main() {
	eo, uo := initOptions()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if eo.interactive || eo.gui {
		//the terminal belongs to the view
		logger.SetOutput(io.Discard)
	}

	src, err := feed.NewSource(eo.feed, logger)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	if sim, ok := src.(*feed.Simulated); ok {
		sim.Interval = eo.interval
		sim.PerBlock = eo.perBlock
	}

	var stateCh chan universe.Status
	if !eo.interactive && !eo.gui {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := universe.NewBaseUniverse(uo, stateCh)
	if eo.track != "" {
		u.Track(eo.track)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	records := make(chan *feed.Flashblock, 16)
	feedDone := make(chan error, 1)
	go func() {
		feedDone <- src.Run(ctx, records)
	}()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case fb := <-records:
				u.Observe(fb)
			}
		}
	}()

	switch {
	case eo.gui:
		v := view.NewWindow(eo.scale)
		u.RegisterViewer(v)
		v.Start()
	case eo.interactive:
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
	default:
		v := view.NewConsoleOut()
		u.RegisterViewer(v)
		v.Start()
		runHeadless(ctx, u, feedDone, logger)
	}
	cancel()
	u.Close()
}

//runHeadless drains the status channel until the universe finished or the feed ended
func runHeadless(ctx context.Context, u universe.Universe, feedDone <-chan error, logger *log.Logger) {
	stateCh := u.StateCh()
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-stateCh:
			if st.RunningMode == universe.RunningStateFinished {
				return
			}
		case err := <-feedDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("feed stopped: %v", err)
			}
			return
		}
	}
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	uo.Advanced = map[string]interface{}{}
	engineNames := make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	patternNames := make([]string, 0, len(universe.Patterns()))
	for _, p := range universe.Patterns() {
		patternNames = append(patternNames, p.String())
	}

	eo = &EnvOptions{
		pattern:  universe.DefaultUniverseOptions.Pattern.String(),
		feed:     "sim",
		interval: feed.DefInterval,
		perBlock: feed.DefPerBlock,
		scale:    view.DefCellScale,
	}
	flaggy.SetName("flashlife")
	flaggy.SetDescription("Game of Life panes ticking on flashblocks and on full blocks")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Size, "s", "size", "Side length of each simulation field")
	flaggy.Int(&uo.Seed, "", "seed", "Initial reset token, the random pattern seed is derived from it")
	flaggy.Int(&uo.MaxSteps, "m", "maxSteps", "Stop once the flashblocks pane reached maxSteps generations")
	flaggy.String(&eo.pattern, "p", "pattern", "Initial pattern ["+strings.Join(patternNames, "|")+"]")
	flaggy.String(&uo.Engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"]")
	flaggy.String(&eo.feed, "f", "feed", "Feed source [sim|stdin|file:<path>|tcp://<host:port>|wss://<url>]")
	flaggy.Duration(&eo.interval, "i", "interval", "Flashblock interval of the simulated feed, for example 200ms")
	flaggy.Int(&eo.perBlock, "k", "perBlock", "Flashblocks per block of the simulated feed")
	flaggy.String(&eo.track, "t", "track", "Transaction hash to highlight")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.gui, "g", "gui", "Start the GUI window (needs the ebiten build tag)")
	flaggy.Int(&eo.scale, "", "scale", "Pixels per cell in the GUI window")

	flaggy.Parse()

	engine, ok := engines[uo.Engine]
	if !ok {
		flaggy.ShowHelpAndExit("unknown engine")
	}
	uo.Stepper = engine(uo)

	p, err := universe.ParsePattern(eo.pattern)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	uo.Pattern = p

	if uo.Size <= 0 {
		flaggy.ShowHelpAndExit(fmt.Sprintf("invalid size %d", uo.Size))
	}

	return
}
