package universe

import "sync"

/*
	Stepper with multithreaded computation algorithm
	the area is splitted into row bands each of which is computed by individual goroutine,
	every goroutine reads the shared old area and writes only its own rows of the new one
*/

const (
	DefWorkers          = 10 //default workers
	DefMinRowsPerWorker = 3  //minimum rows for one worker
)

//workArea describe the rows handled by one worker, both bounds inclusive
type workArea struct {
	y1 int
	y2 int
}

//splitRows divides size rows between at most workers bands
func splitRows(size int, workers int) []workArea {
	if workers <= 0 {
		workers = DefWorkers
	}
	linesPerWorker := size / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < size {
		linesPerWorker++
	}
	areas := make([]workArea, 0, workers)
	for y1 := 0; y1 < size; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > size-1 {
			y2 = size - 1
		}
		areas = append(areas, workArea{y1, y2})
	}
	return areas
}

//NewParallelStepper returns a Stepper computing row bands concurrently
//the result is identical to Step
func NewParallelStepper(workers int) Stepper {
	return func(a Area) Area {
		next := createArea(a.Size)
		var waitGroup sync.WaitGroup
		for _, wa := range splitRows(a.Size, workers) {
			waitGroup.Add(1)
			go func(wa workArea) {
				defer waitGroup.Done()
				calcArea(a, next, wa)
			}(wa)
		}
		waitGroup.Wait()
		return next
	}
}

//calcArea calculates new states for the cells inside workArea
func calcArea(prev Area, next Area, wa workArea) {
	for y := wa.y1; y <= wa.y2; y++ {
		for x := 0; x < prev.Size; x++ {
			next.Entities[y][x] = Cell(cellNextState(prev, y, x))
		}
	}
}
