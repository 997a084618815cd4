package universe

import "flashlife/src/feed"

type Universe interface {
	Status() Status
	Options() Options
	Area(pane PaneID) Area
	StateCh() chan Status
	SelectPattern(p Pattern)
	NextPattern()
	Reset()
	Tick(pane PaneID)
	Observe(fb *feed.Flashblock)
	Track(hash string)
	TrackLatest()
	RegisterViewer(v Viewer)
	Close()
}
