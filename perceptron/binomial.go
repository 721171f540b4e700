package perceptron

import (
	"math"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// BinomialAveragingPerceptron is the training form of a two-class linear
// classifier. F is the feature type: int for dense models, string for
// sparse models.
//
// The instance carries a logical clock advanced by Train (or by Tick when a
// decoder batches updates). It is not safe for concurrent mutation.
type BinomialAveragingPerceptron[F comparable] struct {
	bias   AveragingWeight
	table  AveragingInner[F]
	margin float64
	clock  uint64
}

// NewDenseBinomialAveragingPerceptron creates a dense binomial trainer over
// a feature space of exactly nfeats contiguous integer features.
func NewDenseBinomialAveragingPerceptron(nfeats int, opts ...Option) (*BinomialAveragingPerceptron[int], error) {
	if nfeats <= 0 {
		return nil, errors.NewValidationError("nfeats", "must be positive", nfeats)
	}
	cfg := newConfig(opts)
	return &BinomialAveragingPerceptron[int]{table: NewDenseAveragingInner(nfeats), margin: cfg.margin}, nil
}

// NewSparseBinomialAveragingPerceptron creates a sparse binomial trainer
// over string features; nfeats is only a capacity hint.
func NewSparseBinomialAveragingPerceptron(nfeats int, opts ...Option) (*BinomialAveragingPerceptron[string], error) {
	if nfeats <= 0 {
		return nil, errors.NewValidationError("nfeats", "must be positive", nfeats)
	}
	cfg := newConfig(opts)
	return &BinomialAveragingPerceptron[string]{table: NewSparseAveragingInner(nfeats), margin: cfg.margin}, nil
}

// Score returns the bias plus the sum of the current weights of the active
// features.
func (p *BinomialAveragingPerceptron[F]) Score(fb []F) Weight {
	score := p.bias.Get()
	for _, f := range fb {
		score += p.table.Current(f)
	}
	return score
}

// Predict returns true when the score is strictly positive.
func (p *BinomialAveragingPerceptron[F]) Predict(fb []F) bool {
	return p.Score(fb) > 0
}

// Train predicts a single example, updates on a mistake (or on a correct
// prediction whose per-feature score magnitude is below the margin), then
// advances the clock. It returns whether the pre-update prediction was
// correct.
func (p *BinomialAveragingPerceptron[F]) Train(fb []F, y bool) bool {
	score := p.Score(fb)
	yhat := score > 0
	if y != yhat {
		p.Update(fb, y, yhat)
	} else if p.margin > 0 && len(fb) > 0 && math.Abs(score)/float64(len(fb)) < p.margin {
		p.Update(fb, y, yhat)
	}
	p.Tick(1)
	return y == yhat
}

// Update moves the bias and every active feature weight one unit toward
// the true label: +1 when y is true, -1 otherwise. The predicted label is
// accepted for interface symmetry with the multinomial form and is unused.
func (p *BinomialAveragingPerceptron[F]) Update(fb []F, y, yhat bool) {
	tau := Weight(-1)
	if y {
		tau = 1
	}
	p.bias.Update(tau, p.clock)
	for _, f := range fb {
		p.table.GetMut(f).Update(tau, p.clock)
	}
}

// Tick advances the clock. Train ticks by one automatically; greedy
// sequence training ticks once per sequence.
func (p *BinomialAveragingPerceptron[F]) Tick(step uint64) { p.clock += step }

// Time returns the current value of the logical clock.
func (p *BinomialAveragingPerceptron[F]) Time() uint64 { return p.clock }

// Size returns the number of present feature weights.
func (p *BinomialAveragingPerceptron[F]) Size() int { return p.table.Size() }

// BinomialPerceptron is the finalized, immutable form of a two-class
// linear classifier. It is safe for concurrent Predict calls.
type BinomialPerceptron[F comparable] struct {
	bias  Weight
	table Inner[F]
}

// FinalizeBinomial consumes a training instance and produces the finalized
// model holding the time-weighted mean of every weight at the trainer's
// current clock. The training instance must not be used afterwards.
func FinalizeBinomial[F comparable](avg *BinomialAveragingPerceptron[F]) *BinomialPerceptron[F] {
	time := avg.clock
	return &BinomialPerceptron[F]{
		bias:  avg.bias.Average(time),
		table: avg.table.Average(time),
	}
}

// Score returns the bias plus the sum of the weights of the active
// features.
func (p *BinomialPerceptron[F]) Score(fb []F) Weight {
	score := p.bias
	for _, f := range fb {
		score += p.table.Get(f)
	}
	return score
}

// Predict returns true when the score is strictly positive.
func (p *BinomialPerceptron[F]) Predict(fb []F) bool {
	return p.Score(fb) > 0
}

// Size returns the number of present feature weights.
func (p *BinomialPerceptron[F]) Size() int { return p.table.Size() }
