package universe

import (
	"errors"
	"fmt"
	"strings"
)

//Pattern selects how an area is seeded on reset
type Pattern int

const (
	PatternRandom Pattern = iota
	PatternPulsar
	PatternPentadecathlon
	PatternGliderGun
)

const (
	MaxSeed       = 1000
	RandomDensity = 0.25
)

var ErrUnknownPattern = errors.New("unknown pattern")

var patternNames = map[Pattern]string{
	PatternRandom:         "random",
	PatternPulsar:         "pulsar",
	PatternPentadecathlon: "pentadecathlon",
	PatternGliderGun:      "gliderGun",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

//Next returns the pattern following p in the selector order
func (p Pattern) Next() Pattern {
	sel := Selectable()
	for i, s := range sel {
		if s == p {
			return sel[(i+1)%len(sel)]
		}
	}
	return sel[0]
}

//Patterns lists every valid pattern
func Patterns() []Pattern {
	return []Pattern{PatternRandom, PatternPulsar, PatternPentadecathlon, PatternGliderGun}
}

//Selectable lists the patterns offered by the pattern selector
//pulsar stays a valid pattern but is only reachable by name
func Selectable() []Pattern {
	return []Pattern{PatternRandom, PatternPentadecathlon, PatternGliderGun}
}

//ParsePattern resolves a pattern by its name, case-insensitive
func ParsePattern(name string) (Pattern, error) {
	for p, n := range patternNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}
	return PatternRandom, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

//Template represent the seeding template which is stamped around an anchor point
type Template struct {
	Name        string                          //template name
	Descr       string                          //template descr
	Anchor      func(center int) (row, col int) //anchor point for the given area center
	Coordinates [][2]int                        //array of [row, col] offsets from the anchor
}

func centered(center int) (int, int) {
	return center, center
}

var templates = map[Pattern]Template{
	PatternPulsar: {
		Name:   "pulsar",
		Descr:  "period 3 oscillator",
		Anchor: centered,
		Coordinates: [][2]int{
			{-6, -4}, {-6, -3}, {-6, -2}, {-6, 2}, {-6, 3}, {-6, 4},
			{-4, -6}, {-3, -6}, {-2, -6}, {2, -6}, {3, -6}, {4, -6},
			{-1, -4}, {-1, -3}, {-1, -2}, {-1, 2}, {-1, 3}, {-1, 4},
			{-4, -1}, {-3, -1}, {-2, -1}, {2, -1}, {3, -1}, {4, -1},
			{1, -4}, {1, -3}, {1, -2}, {1, 2}, {1, 3}, {1, 4},
			{-4, 1}, {-3, 1}, {-2, 1}, {2, 1}, {3, 1}, {4, 1},
			{6, -4}, {6, -3}, {6, -2}, {6, 2}, {6, 3}, {6, 4},
			{-4, 6}, {-3, 6}, {-2, 6}, {2, 6}, {3, 6}, {4, 6},
		},
	},
	PatternPentadecathlon: {
		Name:   "pentadecathlon",
		Descr:  "period 15 oscillator",
		Anchor: centered,
		Coordinates: [][2]int{
			{-5, 0}, {-4, 0},
			{-3, -1}, {-3, 1},
			{-2, 0}, {-1, 0}, {0, 0}, {1, 0},
			{2, -1}, {2, 1},
			{3, 0}, {4, 0},
		},
	},
	PatternGliderGun: {
		Name:  "gliderGun",
		Descr: "Gosper glider gun, emits a glider every 30 generations",
		Anchor: func(center int) (int, int) {
			return center - 10, center - 18
		},
		Coordinates: [][2]int{
			{0, 24},
			{1, 22}, {1, 24},
			{2, 12}, {2, 13}, {2, 20}, {2, 21}, {2, 34}, {2, 35},
			{3, 11}, {3, 15}, {3, 20}, {3, 21}, {3, 34}, {3, 35},
			{4, 0}, {4, 1}, {4, 10}, {4, 16}, {4, 20}, {4, 21},
			{5, 0}, {5, 1}, {5, 10}, {5, 14}, {5, 16}, {5, 17}, {5, 22}, {5, 24},
			{6, 10}, {6, 16}, {6, 24},
			{7, 11}, {7, 15},
			{8, 12}, {8, 13},
		},
	},
}

//TemplateOf returns the stamping template of a fixed pattern
func TemplateOf(p Pattern) (Template, bool) {
	t, ok := templates[p]
	return t, ok
}

//RandomArea fills a blank area in row-major order, a cell is alive when its draw is below RandomDensity
func RandomArea(size int, seed int) Area {
	a := NewArea(size)
	random := SeededRandom(int64(seed))
	for i := range a.Entities {
		for j := range a.Entities[i] {
			a.Entities[i][j] = random() < RandomDensity
		}
	}
	return a
}

//PatternArea stamps the pattern template onto a blank area
//points falling outside the area are dropped, not wrapped
func PatternArea(size int, p Pattern) Area {
	tmpl, ok := templates[p]
	if !ok {
		panic(fmt.Sprintf("universe: no template for pattern %v", p))
	}
	a := NewArea(size)
	row, col := tmpl.Anchor(size / 2)
	a.settle(row, col, tmpl.Coordinates)
	return a
}

//Initialize builds the initial area for the pattern, seed is used by PatternRandom only
func Initialize(size int, p Pattern, seed int) Area {
	if p == PatternRandom {
		return RandomArea(size, seed)
	}
	return PatternArea(size, p)
}

//settle places live cells at anchor+offset, skipping coordinates outside the area
func (a Area) settle(row int, col int, offsets [][2]int) {
	for _, o := range offsets {
		r, c := row+o[0], col+o[1]
		if r < 0 || c < 0 || r >= a.Size || c >= a.Size {
			continue
		}
		a.Entities[r][c] = true
	}
}
