package universe

import (
	"encoding/json"
	"testing"

	"flashlife/src/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUniverse(t *testing.T, mutate func(o *Options)) *BaseUniverse {
	o := DefaultUniverseOptions
	o.Size = 20
	if mutate != nil {
		mutate(&o)
	}
	u := NewBaseUniverse(&o, nil)
	t.Cleanup(u.Close)
	return u
}

func flashblock(block uint64, index int, txs ...string) *feed.Flashblock {
	fb := &feed.Flashblock{
		Index:    index,
		Metadata: feed.Metadata{BlockNumber: block, Receipts: map[string]json.RawMessage{}},
	}
	for _, tx := range txs {
		fb.Diff.Transactions = append(fb.Diff.Transactions, tx)
		fb.Metadata.Receipts[tx] = json.RawMessage(`{}`)
	}
	return fb
}

type countingViewer struct {
	refreshed int
	u         Universe
}

func (v *countingViewer) Refresh()            { v.refreshed++ }
func (v *countingViewer) Register(u Universe) { v.u = u }
func (v *countingViewer) Start()              {}

func TestUniverseInitialPanesMatch(t *testing.T) {
	u := newTestUniverse(t, nil)
	st := u.Status()
	assert.Equal(t, PatternRandom, st.Pattern)
	assert.Equal(t, DefSeed, st.ResetKey)
	assert.Equal(t, "Flashblocks", st.Pane(PaneFlashblocks).Name)
	assert.Equal(t, "Blocks", st.Pane(PaneBlocks).Name)
	assert.True(t, u.Area(PaneFlashblocks).Equal(u.Area(PaneBlocks)), "both panes start from the same grid")
	assert.Equal(t, "simple", u.Options().Advanced["engine"])
}

func TestUniverseTickAdvancesOnlyItsPane(t *testing.T) {
	u := newTestUniverse(t, nil)
	initial := u.Area(PaneBlocks)

	u.Tick(PaneFlashblocks)
	u.Tick(PaneFlashblocks)
	u.Tick(PaneBlocks)
	u.flush()

	st := u.Status()
	assert.Equal(t, 2, st.Pane(PaneFlashblocks).Ticks)
	assert.Equal(t, 2, st.Pane(PaneFlashblocks).Generation)
	assert.Equal(t, 1, st.Pane(PaneBlocks).Generation)
	assert.True(t, Step(initial).Equal(u.Area(PaneBlocks)))
}

func TestUniverseObserveDerivesBlockTicks(t *testing.T) {
	u := newTestUniverse(t, nil)
	for block := uint64(100); block < 103; block++ {
		for i := 0; i < 4; i++ {
			u.Observe(flashblock(block, i))
		}
	}
	u.flush()

	st := u.Status()
	assert.Equal(t, 12, st.Pane(PaneFlashblocks).Generation)
	// blocks 100 and 101 completed, 102 is still being built
	assert.Equal(t, 2, st.Pane(PaneBlocks).Generation)
	assert.Equal(t, uint64(102), st.CurrentBlock)
}

func TestUniverseSelectPatternResets(t *testing.T) {
	u := newTestUniverse(t, nil)
	u.Tick(PaneFlashblocks)
	u.Tick(PaneBlocks)
	u.SelectPattern(PatternGliderGun)
	u.flush()

	st := u.Status()
	assert.Equal(t, PatternGliderGun, st.Pattern)
	assert.Equal(t, DefSeed+1, st.ResetKey)
	for _, p := range Panes() {
		assert.Equal(t, 0, st.Pane(p).Ticks, p.String())
		assert.Equal(t, 0, st.Pane(p).Generation, p.String())
		assert.True(t, PatternArea(20, PatternGliderGun).Equal(u.Area(p)), p.String())
	}

	u.Tick(PaneBlocks)
	u.flush()
	assert.Equal(t, 1, u.Status().Pane(PaneBlocks).Generation, "counting restarts after a reset")
}

func TestUniverseResetReseeds(t *testing.T) {
	u := newTestUniverse(t, nil)
	u.Reset()
	u.flush()
	st := u.Status()
	assert.Equal(t, NormalizeSeed(DefSeed+1), st.Seed)
	assert.True(t, RandomArea(20, st.Seed).Equal(u.Area(PaneFlashblocks)))
}

func TestUniverseNextPattern(t *testing.T) {
	u := newTestUniverse(t, nil)
	u.NextPattern()
	u.flush()
	assert.Equal(t, PatternPentadecathlon, u.Status().Pattern)
	u.NextPattern()
	u.flush()
	assert.Equal(t, PatternGliderGun, u.Status().Pattern)
}

func TestUniverseMaxSteps(t *testing.T) {
	stateCh := make(chan Status, 64)
	o := DefaultUniverseOptions
	o.Size = 10
	o.MaxSteps = 3
	u := NewBaseUniverse(&o, stateCh)
	defer u.Close()

	for i := 0; i < 5; i++ {
		u.Tick(PaneFlashblocks)
	}
	u.flush()

	st := u.Status()
	assert.Equal(t, RunningStateFinished, st.RunningMode)
	assert.Equal(t, 3, st.Pane(PaneFlashblocks).Generation)

	finished := 0
	for len(stateCh) > 0 {
		if s := <-stateCh; s.RunningMode == RunningStateFinished {
			finished++
		}
	}
	assert.GreaterOrEqual(t, finished, 1)

	u.Reset()
	u.flush()
	assert.Equal(t, RunningStateRun, u.Status().RunningMode, "a reset starts a new run")
}

func TestUniverseTracksTransaction(t *testing.T) {
	u := newTestUniverse(t, nil)
	u.Track("0xabc")
	u.Observe(flashblock(7, 0))
	u.Observe(flashblock(7, 1, "0xabc"))
	u.flush()

	st := u.Status()
	assert.Equal(t, "0xabc", st.TrackedTx)
	assert.Equal(t, 1, st.TrackIndex)
	assert.True(t, st.Pane(PaneFlashblocks).Highlight)
	assert.False(t, st.Pane(PaneBlocks).Highlight)

	u.Observe(flashblock(8, 0))
	u.flush()
	st = u.Status()
	assert.False(t, st.Pane(PaneFlashblocks).Highlight)
	assert.True(t, st.Pane(PaneBlocks).Highlight, "the block holding the transaction completed")
}

func TestUniverseTrackLatest(t *testing.T) {
	u := newTestUniverse(t, nil)
	u.TrackLatest()
	u.flush()
	assert.Empty(t, u.Status().TrackedTx, "nothing to track before any transaction")

	u.Observe(flashblock(3, 0, "0x1", "0x2"))
	u.TrackLatest()
	u.TrackLatest()
	u.flush()
	st := u.Status()
	assert.Equal(t, "0x2", st.TrackedTx)
	assert.Equal(t, 2, st.TrackIndex)
	assert.True(t, st.Pane(PaneFlashblocks).Highlight)
}

func TestUniverseRefreshesViewers(t *testing.T) {
	u := newTestUniverse(t, nil)
	v := &countingViewer{}
	u.RegisterViewer(v)
	u.Tick(PaneFlashblocks)
	u.flush()
	require.Equal(t, u, v.u)
	assert.Equal(t, 1, v.refreshed)
}

func TestUniverseEngineStepper(t *testing.T) {
	u := newTestUniverse(t, func(o *Options) {
		o.Engine = "multithreaded"
		o.Stepper = NewParallelStepper(3)
		o.Pattern = PatternPulsar
	})
	for i := 0; i < 3; i++ {
		u.Tick(PaneBlocks)
	}
	u.flush()
	assert.True(t, PatternArea(20, PatternPulsar).Equal(u.Area(PaneBlocks)))
}

func TestUniverseCloseDropsCommands(t *testing.T) {
	o := DefaultUniverseOptions
	o.Size = 10
	u := NewBaseUniverse(&o, nil)
	u.Close()
	u.Close()
	<-u.done
	u.Tick(PaneFlashblocks)
	u.flush()
	assert.Equal(t, 0, u.Status().Pane(PaneFlashblocks).Generation)
}
