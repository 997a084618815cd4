package universe

import (
	"sort"
	"testing"
)

const (
	benchSize = 200
)

func engineNames() (engineNames []string) {
	engineNames = make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	return
}

func Benchmark_Step(b *testing.B) {
	for _, e := range engineNames() {
		b.Run(e, func(b *testing.B) {
			step := engines[e]
			a := RandomArea(benchSize, 1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a = step(a)
			}
		})
	}
}

func Benchmark_Automaton(b *testing.B) {
	for _, e := range engineNames() {
		b.Run(e, func(b *testing.B) {
			a := NewAutomaton(benchSize, PatternGliderGun, 1, engines[e])
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.OnTick(i + 1)
			}
		})
	}
}

func Benchmark_Universe(b *testing.B) {
	o := DefaultUniverseOptions
	o.Size = benchSize
	u := NewBaseUniverse(&o, nil)
	defer u.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Tick(PaneFlashblocks)
	}
	u.flush()
}
