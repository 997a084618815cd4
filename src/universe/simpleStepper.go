package universe

/*
	Simple stepper
	All cells state is calculated from the old area into a freshly allocated one,
	the old area is never written so no cell can see a neighbour's updated value
*/

//Stepper computes the next generation of an area without modifying it
type Stepper func(a Area) Area

//Step applies the B3/S23 rule to every cell of a toroidal area
func Step(a Area) Area {
	next := createArea(a.Size)
	a.walk(func(row int, col int, _ Cell) {
		next.Entities[row][col] = Cell(cellNextState(a, row, col))
	})
	return next
}

//neighbours lists the 8 offsets around a cell
var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

//cellNextState calculates the next state for the cell
func cellNextState(a Area, row int, col int) (live bool) {
	liveNeighbours := 0
	size := a.Size
	for _, n := range neighbours {
		nr := (row + n[0] + size) % size
		nc := (col + n[1] + size) % size
		if a.Entities[nr][nc] {
			liveNeighbours++
		}
	}

	if a.Entities[row][col] {
		return liveNeighbours == 2 || liveNeighbours == 3
	}
	return liveNeighbours == 3
}
