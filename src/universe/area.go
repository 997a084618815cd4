package universe

import "fmt"

type Cell bool

//Area is a square field of cells, Entities[row][col]
//areas are replaced wholesale on every generation, the engine never writes into an area it has handed out
type Area struct {
	Size     int
	Entities [][]Cell
}

//NewArea allocates a blank size x size area
//a non-positive size is a caller contract violation
func NewArea(size int) Area {
	if size <= 0 {
		panic(fmt.Sprintf("universe: invalid area size %d", size))
	}
	return createArea(size)
}

//createArea allocates the new area, all rows share one backing slice
func createArea(size int) Area {
	area := Area{Size: size, Entities: make([][]Cell, size)}
	b := make([]Cell, size*size)
	for i := range area.Entities {
		start := size * i
		area.Entities[i] = b[start : start+size : start+size]
	}
	return area
}

//Alive reports the state of the cell at row, col, coordinates wrap toroidally
func (a Area) Alive(row int, col int) bool {
	row = (row%a.Size + a.Size) % a.Size
	col = (col%a.Size + a.Size) % a.Size
	return bool(a.Entities[row][col])
}

//LiveCells calculates the count of live cells
func (a Area) LiveCells() int {
	liveCells := 0
	a.walk(func(_ int, _ int, e Cell) {
		if e {
			liveCells++
		}
	})
	return liveCells
}

//Equal reports whether both areas have the same size and the same live cells
func (a Area) Equal(b Area) bool {
	if a.Size != b.Size {
		return false
	}
	for i := range a.Entities {
		for j := range a.Entities[i] {
			if a.Entities[i][j] != b.Entities[i][j] {
				return false
			}
		}
	}
	return true
}

//Clone returns a deep copy
func (a Area) Clone() Area {
	c := createArea(a.Size)
	for i := range a.Entities {
		copy(c.Entities[i], a.Entities[i])
	}
	return c
}

//walk walks the entire area in row-major order and calls the cb function for each cell
func (a Area) walk(cb func(row int, col int, e Cell)) {
	for i := range a.Entities {
		for j := range a.Entities[i] {
			cb(i, j, a.Entities[i][j])
		}
	}
}
