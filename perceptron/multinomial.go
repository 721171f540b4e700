package perceptron

import (
	"math"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// MultinomialAveragingPerceptron is the training form of a multiclass
// linear classifier. F is the feature type and L the label type; the three
// supported shapes are [int, int] (dense), [string, int] (sparse features
// over a fixed label set) and [string, string] (fully sparse).
type MultinomialAveragingPerceptron[F, L comparable] struct {
	bias   AveragingInner[L]
	table  AveragingOuter[F, L]
	margin float64
	clock  uint64
}

// NewDenseMultinomialAveragingPerceptron creates a dense multiclass trainer
// over nfeats contiguous integer features and nlabels contiguous integer
// labels.
func NewDenseMultinomialAveragingPerceptron(nfeats, nlabels int, opts ...Option) (*MultinomialAveragingPerceptron[int, int], error) {
	if err := validateMultinomial(nfeats, nlabels); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &MultinomialAveragingPerceptron[int, int]{
		bias:   NewDenseAveragingInner(nlabels),
		table:  NewDenseAveragingOuter(nfeats, nlabels),
		margin: cfg.margin,
	}, nil
}

// NewSparseDenseMultinomialAveragingPerceptron creates a multiclass trainer
// with string features and exactly nlabels integer labels; nfeats is only a
// capacity hint.
func NewSparseDenseMultinomialAveragingPerceptron(nfeats, nlabels int, opts ...Option) (*MultinomialAveragingPerceptron[string, int], error) {
	if err := validateMultinomial(nfeats, nlabels); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &MultinomialAveragingPerceptron[string, int]{
		bias:   NewDenseAveragingInner(nlabels),
		table:  NewSparseDenseAveragingOuter(nfeats, nlabels),
		margin: cfg.margin,
	}, nil
}

// NewSparseMultinomialAveragingPerceptron creates a multiclass trainer with
// string features and string labels; nfeats and nlabels are capacity hints.
func NewSparseMultinomialAveragingPerceptron(nfeats, nlabels int, opts ...Option) (*MultinomialAveragingPerceptron[string, string], error) {
	if err := validateMultinomial(nfeats, nlabels); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &MultinomialAveragingPerceptron[string, string]{
		bias:   NewSparseAveragingInner(nlabels),
		table:  NewSparseAveragingOuter(nfeats, nlabels),
		margin: cfg.margin,
	}, nil
}

func validateMultinomial(nfeats, nlabels int) error {
	if nfeats <= 0 {
		return errors.NewValidationError("nfeats", "must be positive", nfeats)
	}
	if nlabels <= 2 {
		return errors.NewValidationError("nlabels", "must exceed 2; use a binomial model for two classes", nlabels)
	}
	return nil
}

// Score returns the per-label scores for a feature bundle: the bias row
// plus the sum over active features of that feature's row.
func (p *MultinomialAveragingPerceptron[F, L]) Score(fb []F) Inner[L] {
	scores := p.bias.Snapshot()
	for _, f := range fb {
		row, ok := p.table.Row(f)
		if !ok {
			continue
		}
		row.Each(func(l L, w *AveragingWeight) bool {
			scores.Add(l, w.Get())
			return true
		})
	}
	return scores
}

// Predict returns the label with the maximal score.
func (p *MultinomialAveragingPerceptron[F, L]) Predict(fb []F) L {
	return p.Score(fb).ArgMax()
}

// Train predicts a single example, updates on a mistake (or, with a
// positive margin, when the gap between the predicted and true label scores
// per feature is below the margin), then advances the clock. It returns
// whether the pre-update prediction was correct.
func (p *MultinomialAveragingPerceptron[F, L]) Train(fb []F, y L) bool {
	scores := p.Score(fb)
	yhat := scores.ArgMax()
	if y != yhat {
		p.Update(fb, y, yhat)
	} else if p.margin > 0 && len(fb) > 0 &&
		math.Abs(scores.Get(yhat)-scores.Get(y))/float64(len(fb)) < p.margin {
		p.Update(fb, y, yhat)
	}
	p.Tick(1)
	return y == yhat
}

// Update moves the bias and every active feature row one unit toward the
// true label and away from the predicted label. When y equals yhat the two
// moves cancel and only the entry timestamps advance.
func (p *MultinomialAveragingPerceptron[F, L]) Update(fb []F, y, yhat L) {
	p.bias.GetMut(y).Update(1, p.clock)
	p.bias.GetMut(yhat).Update(-1, p.clock)
	for _, f := range fb {
		row := p.table.RowMut(f)
		row.GetMut(y).Update(1, p.clock)
		row.GetMut(yhat).Update(-1, p.clock)
	}
}

// Tick advances the clock. Train ticks by one automatically; greedy
// sequence training ticks once per sequence.
func (p *MultinomialAveragingPerceptron[F, L]) Tick(step uint64) { p.clock += step }

// Time returns the current value of the logical clock.
func (p *MultinomialAveragingPerceptron[F, L]) Time() uint64 { return p.clock }

// Size returns the number of present feature rows.
func (p *MultinomialAveragingPerceptron[F, L]) Size() int { return p.table.OuterSize() }

// MultinomialPerceptron is the finalized, immutable form of a multiclass
// linear classifier. It is safe for concurrent Predict calls.
type MultinomialPerceptron[F, L comparable] struct {
	bias  Inner[L]
	table Outer[F, L]
}

// FinalizeMultinomial consumes a training instance and produces the
// finalized model holding the time-weighted mean of every weight at the
// trainer's current clock. The training instance must not be used
// afterwards. Sparse label rows drop the reserved empty-string label,
// which only accrues weight when ArgMax of an empty score row defaults to
// it during training.
func FinalizeMultinomial[F, L comparable](avg *MultinomialAveragingPerceptron[F, L]) *MultinomialPerceptron[F, L] {
	time := avg.clock
	bias := avg.bias.Average(time)
	table := avg.table.Average(time)
	if b, ok := any(bias).(*SparseInner); ok {
		delete(b.ws, "")
	}
	if t, ok := any(table).(*SparseOuter); ok {
		for f, row := range t.rows {
			delete(row.ws, "")
			if len(row.ws) == 0 {
				delete(t.rows, f)
			}
		}
	}
	return &MultinomialPerceptron[F, L]{bias: bias, table: table}
}

// Score returns the per-label scores for a feature bundle.
func (p *MultinomialPerceptron[F, L]) Score(fb []F) Inner[L] {
	scores := p.bias.Clone()
	for _, f := range fb {
		if row, ok := p.table.Row(f); ok {
			scores.AddWeights(row)
		}
	}
	return scores
}

// Predict returns the label with the maximal score.
func (p *MultinomialPerceptron[F, L]) Predict(fb []F) L {
	return p.Score(fb).ArgMax()
}

// Size returns the number of present feature rows.
func (p *MultinomialPerceptron[F, L]) Size() int { return p.table.OuterSize() }
