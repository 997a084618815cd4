package universe

import "fmt"

const (
	lehmerMultiplier = 16807
	lehmerModulus    = 2147483647 // 2^31 - 1
)

//SeededRandom returns a Park-Miller multiplicative generator seeded with seed
//each call returns a float in [0, 1), identical seeds give identical streams
//the seed must be positive, NormalizeSeed maps any reset token into the valid range
func SeededRandom(seed int64) func() float64 {
	if seed <= 0 || seed%lehmerModulus == 0 {
		panic(fmt.Sprintf("universe: invalid generator seed %d", seed))
	}
	s := seed % lehmerModulus
	return func() float64 {
		s = (s * lehmerMultiplier) % lehmerModulus
		return float64(s-1) / float64(lehmerModulus-1)
	}
}

//NormalizeSeed maps a reset token into [1, MaxSeed]
func NormalizeSeed(token int) int {
	m := (token - 1) % MaxSeed
	if m < 0 {
		m += MaxSeed
	}
	return m + 1
}
