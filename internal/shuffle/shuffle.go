// Package shuffle implements the Fisher–Yates permutation used by every
// engine to randomize tile, card and option order when GameState is built.
package shuffle

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source supplies uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default is backed by the runtime-seeded math/rand/v2 generator.
var Default Source = globalSource{}

// Slice permutes items in place and returns the same slice.
// A nil src uses Default.
func Slice[T any](src Source, items []T) []T {
	if src == nil {
		src = Default
	}
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// NewSeeded returns a deterministic source, used by tests and replays.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSource returns an independent source seeded from crypto/rand.
func NewSource() *rand.Rand {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}
