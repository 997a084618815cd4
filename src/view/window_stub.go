//go:build !ebiten

package view

import (
	"fmt"
	"os"

	"flashlife/src/universe"
)

const DefCellScale = 8

//Window is a placeholder, the GUI needs the ebiten build tag
type Window struct{}

func NewWindow(int) *Window { return &Window{} }

func (w *Window) Register(universe.Universe) {}

func (w *Window) Refresh() {}

//Start reports that the GUI build tag is missing
func (w *Window) Start() {
	fmt.Fprintln(os.Stderr, "The GUI build of flashlife requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./src` or build with `-tags ebiten`.")
}
