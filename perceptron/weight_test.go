package perceptron

import (
	"math"
	"math/rand"
	"testing"
)

func TestAveragingWeightZeroTime(t *testing.T) {
	var w AveragingWeight
	if got := w.Average(0); got != 0 {
		t.Errorf("Average(0) = %v, want 0", got)
	}
}

func TestAveragingWeightConstant(t *testing.T) {
	// A weight set once at time 0 and never touched again averages to
	// itself.
	var w AveragingWeight
	w.Update(3, 0)
	if got := w.Average(10); got != 3 {
		t.Errorf("Average(10) = %v, want 3", got)
	}
}

func TestAveragingWeightStepFunction(t *testing.T) {
	// Weight is 0 for the first 5 steps, then 1 for the next 5: the mean
	// over 10 steps is 0.5.
	var w AveragingWeight
	w.Update(1, 5)
	if got := w.Average(10); got != 0.5 {
		t.Errorf("Average(10) = %v, want 0.5", got)
	}
}

func TestAveragingWeightLazyFresheningIsExact(t *testing.T) {
	// Compare the lazily maintained mean against a brute-force trajectory
	// that records the weight value at every clock step.
	rng := rand.New(rand.NewSource(42))
	var w AveragingWeight
	var trajectory []float64
	current := 0.0
	clock := uint64(0)

	for i := 0; i < 200; i++ {
		// Idle for a random stretch, then apply a random +/-1 update.
		idle := uint64(rng.Intn(7))
		for j := uint64(0); j < idle; j++ {
			trajectory = append(trajectory, current)
		}
		clock += idle
		tau := 1.0
		if rng.Intn(2) == 0 {
			tau = -1.0
		}
		w.Update(tau, clock)
		current += tau
		trajectory = append(trajectory, current)
		clock++
	}

	want := 0.0
	for _, v := range trajectory {
		want += v
	}
	want /= float64(len(trajectory))

	if got := w.Average(clock); math.Abs(got-want) > 1e-12 {
		t.Errorf("Average(%d) = %v, want %v", clock, got, want)
	}
}

func TestAveragingWeightGetSet(t *testing.T) {
	var w AveragingWeight
	w.Set(2.5)
	if got := w.Get(); got != 2.5 {
		t.Errorf("Get() = %v, want 2.5", got)
	}
}
