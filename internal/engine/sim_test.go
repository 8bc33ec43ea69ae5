package engine_test

import (
	"testing"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine/sim"
)

func TestSelfPlayManySeeds(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		if err := sim.RunSelfPlayHands(seed, 3); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	}
}

func FuzzSelfPlayHands(f *testing.F) {
	f.Add(int64(1))
	f.Add(int64(42))
	f.Add(int64(20260830))
	f.Fuzz(func(t *testing.T, seed int64) {
		if err := sim.RunSelfPlayHands(seed, 2); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	})
}
