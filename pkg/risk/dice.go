package risk

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"sort"
)

// Roller produces dice rolls. The production implementation draws from a
// cryptographically secure source; tests inject a seeded roller so battle
// outcomes are reproducible.
type Roller interface {
	// Roll returns count dice in [1,6], sorted descending.
	Roll(count int) []int
}

// CryptoRoller rolls dice from crypto/rand. Each die is drawn independently
// uniform over {1..6} using rejection sampling: byte values >= 252 (the
// largest multiple of 6 below 256) are discarded so no face is favored by
// modulo bias.
type CryptoRoller struct{}

func (CryptoRoller) Roll(count int) []int {
	if count <= 0 {
		return nil
	}
	dice := make([]int, 0, count)
	buf := make([]byte, count)
	for len(dice) < count {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand failing means the OS entropy source is broken;
			// there is no meaningful recovery for a game server.
			panic(fmt.Sprintf("risk: crypto/rand read failed: %v", err))
		}
		for _, b := range buf {
			if b >= 252 {
				continue
			}
			dice = append(dice, int(b%6)+1)
			if len(dice) == count {
				break
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dice)))
	return dice
}

// SeededRoller rolls dice from a deterministic PRNG. Test use only.
type SeededRoller struct {
	rng *mathrand.Rand
}

// NewSeededRoller creates a SeededRoller from a fixed seed.
func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: mathrand.New(mathrand.NewSource(seed))}
}

func (r *SeededRoller) Roll(count int) []int {
	if count <= 0 {
		return nil
	}
	dice := make([]int, count)
	for i := range dice {
		dice[i] = r.rng.Intn(6) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dice)))
	return dice
}
