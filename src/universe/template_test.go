package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//areaOf builds an area from rows of '#' and '.'
func areaOf(rows ...string) Area {
	a := NewArea(len(rows))
	for i, r := range rows {
		for j, c := range r {
			a.Entities[i][j] = c == '#'
		}
	}
	return a
}

func liveSet(a Area) map[[2]int]bool {
	set := map[[2]int]bool{}
	a.walk(func(row int, col int, e Cell) {
		if e {
			set[[2]int{row, col}] = true
		}
	})
	return set
}

func TestRandomAreaFixture(t *testing.T) {
	want := areaOf(
		"##..",
		".##.",
		"....",
		".##.",
	)
	assert.True(t, want.Equal(RandomArea(4, 1)))
}

func TestRandomAreaDeterministic(t *testing.T) {
	for _, seed := range []int{1, 7, 500, 1000} {
		a, b := RandomArea(50, seed), RandomArea(50, seed)
		assert.True(t, a.Equal(b), "seed %d", seed)
	}
}

func TestRandomAreaSeedSensitive(t *testing.T) {
	pairs := [][2]int{{1, 2}, {7, 42}, {500, 1000}, {999, 1000}}
	for _, p := range pairs {
		assert.False(t, RandomArea(50, p[0]).Equal(RandomArea(50, p[1])), "seeds %v", p)
	}
}

func TestRandomAreaDensity(t *testing.T) {
	for _, seed := range []int{1, 2, 7, 42, 500, 1000} {
		a := RandomArea(50, seed)
		density := float64(a.LiveCells()) / float64(50*50)
		assert.InDelta(t, RandomDensity, density, 0.05, "seed %d", seed)
	}
}

func TestPatternAreaCentered(t *testing.T) {
	counts := map[Pattern]int{
		PatternPulsar:         48,
		PatternPentadecathlon: 12,
		PatternGliderGun:      36,
	}
	for p, n := range counts {
		a := PatternArea(50, p)
		assert.Equal(t, n, a.LiveCells(), "%v", p)
		assert.True(t, a.Equal(PatternArea(50, p)), "%v must be placed deterministically", p)
	}
}

func TestPulsarSymmetric(t *testing.T) {
	a := PatternArea(51, PatternPulsar)
	for cell := range liveSet(a) {
		mirrored := [2]int{50 - cell[0], 50 - cell[1]}
		assert.True(t, bool(a.Entities[mirrored[0]][mirrored[1]]), "cell %v has no 180° counterpart", cell)
	}
}

func TestGliderGunClipped(t *testing.T) {
	// anchor (-5, -13): only the points landing inside a 10x10 area survive
	small := PatternArea(10, PatternGliderGun)
	want := map[[2]int]bool{
		{0, 1}: true, {0, 3}: true, {0, 4}: true, {0, 9}: true,
		{1, 3}: true, {2, 2}: true, {3, 0}: true,
	}
	assert.Equal(t, want, liveSet(small))

	// anchor (0, -8): the two leftmost columns of the gun are cut, nothing wraps
	a := PatternArea(20, PatternGliderGun)
	require.Equal(t, 28, a.LiveCells())
	for cell := range liveSet(a) {
		assert.LessOrEqual(t, cell[0], 8, "row of %v", cell)
		assert.GreaterOrEqual(t, cell[1], 2, "col of %v", cell)
		assert.LessOrEqual(t, cell[1], 16, "col of %v", cell)
	}
}

func TestPatternAreaRejectsRandom(t *testing.T) {
	assert.Panics(t, func() { PatternArea(50, PatternRandom) })
	assert.Panics(t, func() { PatternArea(50, Pattern(42)) })
	assert.Panics(t, func() { PatternArea(0, PatternPulsar) })
}

func TestInitializeRoutes(t *testing.T) {
	assert.True(t, RandomArea(30, 9).Equal(Initialize(30, PatternRandom, 9)))
	assert.True(t, PatternArea(30, PatternGliderGun).Equal(Initialize(30, PatternGliderGun, 9)))
	assert.True(t, Initialize(30, PatternPentadecathlon, 1).Equal(Initialize(30, PatternPentadecathlon, 2)),
		"fixed patterns ignore the seed")
}

func TestParsePattern(t *testing.T) {
	for _, p := range Patterns() {
		got, err := ParsePattern(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePattern("GLIDERGUN")
	require.NoError(t, err)
	assert.Equal(t, PatternGliderGun, got)

	_, err = ParsePattern("glider")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

func TestPatternNext(t *testing.T) {
	assert.Equal(t, PatternPentadecathlon, PatternRandom.Next())
	assert.Equal(t, PatternGliderGun, PatternPentadecathlon.Next())
	assert.Equal(t, PatternRandom, PatternGliderGun.Next())
	// pulsar is not offered by the selector, cycling restarts from the first entry
	assert.Equal(t, PatternRandom, PatternPulsar.Next())
}

func TestTemplateOf(t *testing.T) {
	_, ok := TemplateOf(PatternRandom)
	assert.False(t, ok)
	for _, p := range Patterns()[1:] {
		tmpl, ok := TemplateOf(p)
		require.True(t, ok, p.String())
		assert.Equal(t, p.String(), tmpl.Name)
		assert.NotEmpty(t, tmpl.Descr)
	}
}
