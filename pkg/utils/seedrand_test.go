package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedRand_Deterministic(t *testing.T) {
	a := NewSeedRand("session-1")
	b := NewSeedRand("session-1")

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64(), "same seed must produce the same stream")
	}
}

func TestSeedRand_DifferentSeeds(t *testing.T) {
	a := NewSeedRand("session-1")
	b := NewSeedRand("session-2")

	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 5, "different seeds should produce different streams")
}

func TestSeedRand_Float64Range(t *testing.T) {
	r := NewSeedRand("range-check")
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestShuffle_IsPermutation(t *testing.T) {
	items := make([]string, 50)
	for i := range items {
		items[i] = fmt.Sprintf("img%02d.jpg", i)
	}

	shuffled := append([]string{}, items...)
	NewSeedRand("perm").Shuffle(shuffled)

	assert.ElementsMatch(t, items, shuffled)
	assert.NotEqual(t, items, shuffled, "50 elements should not come back in directory order")
}

func TestShuffle_StableAcrossRuns(t *testing.T) {
	first := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	second := append([]string{}, first...)

	NewSeedRand("stable").Shuffle(first)
	NewSeedRand("stable").Shuffle(second)

	assert.Equal(t, first, second)
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	empty := []string{}
	NewSeedRand("x").Shuffle(empty)
	assert.Empty(t, empty)

	single := []string{"only.jpg"}
	NewSeedRand("x").Shuffle(single)
	assert.Equal(t, []string{"only.jpg"}, single)
}
