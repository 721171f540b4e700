// Package perceptron implements averaged perceptron classifiers over sparse
// or dense feature spaces.
//
// The package provides binomial (boolean-label) and multinomial
// (multi-label) classifiers in two forms each: an averaging form used
// during training, and a finalized form produced by a single irreversible
// Average call, which installs the time-weighted mean of every weight. The
// finalized form is immutable and is the only form eligible for
// persistence. Feature storage is selected at construction time: dense
// models index weights by small contiguous integers, sparse models key them
// by arbitrary strings.
package perceptron

// Weight is a plain scalar weight with no history.
type Weight = float64

// AveragingWeight tracks a weight together with the running sum needed to
// produce its exact time-weighted mean on demand. The sum is folded in
// lazily: a weight untouched for n logical steps contributes n times its
// last value at the next freshening, so training cost does not scale with
// the number of untouched features.
//
// Time arguments must be monotonically non-decreasing across calls on the
// same instance; this is a precondition, not a checked error.
type AveragingWeight struct {
	weight Weight
	summed float64
	time   uint64
}

// Get returns the current (non-averaged) weight.
func (w *AveragingWeight) Get() Weight { return w.weight }

// Set overwrites the current weight without touching the running sum.
func (w *AveragingWeight) Set(v Weight) { w.weight = v }

// Freshen folds the contribution of the current weight over the elapsed
// time into the running sum and advances the internal timestamp.
func (w *AveragingWeight) Freshen(time uint64) {
	elapsed := time - w.time
	w.summed += float64(elapsed) * w.weight
	w.time = time
}

// Update freshens to the given time, then adds tau to the current weight.
func (w *AveragingWeight) Update(tau Weight, time uint64) {
	w.Freshen(time)
	w.weight += tau
}

// Average freshens to the given time and returns the exact time-weighted
// mean of the weight over [0, time). The mean at time zero is zero.
func (w *AveragingWeight) Average(time uint64) Weight {
	w.Freshen(time)
	if w.time == 0 {
		return 0
	}
	return w.summed / float64(w.time)
}
