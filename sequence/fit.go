package sequence

import (
	"math/rand"

	"github.com/shiomiya/percepgo/metrics"
	"github.com/shiomiya/percepgo/pkg/errors"
	"github.com/shiomiya/percepgo/pkg/log"
)

// SequenceExample pairs one sequence of emission feature bundles with its
// gold label sequence.
type SequenceExample[L comparable] struct {
	Emissions [][]string
	Labels    []L
}

// SequentialTrainer is the training surface of the sequential model
// wrappers, as consumed by Fit.
type SequentialTrainer[L comparable] interface {
	Train(evectors [][]string, ys []L) (int, error)
}

// fitConfig holds the multi-epoch training knobs.
type fitConfig struct {
	epochs  int
	seed    int64
	shuffle bool
	logger  log.Logger
}

// FitOption configures a call to Fit.
type FitOption func(*fitConfig)

// WithEpochs sets the number of passes over the data. The default is 10.
func WithEpochs(n int) FitOption {
	return func(c *fitConfig) {
		c.epochs = n
	}
}

// WithShuffle enables per-epoch shuffling of the sequence order, seeded
// for reproducibility. Positions within a sequence are never reordered.
func WithShuffle(seed int64) FitOption {
	return func(c *fitConfig) {
		c.shuffle = true
		c.seed = seed
	}
}

// WithFitLogger sets the logger for per-epoch progress events.
func WithFitLogger(logger log.Logger) FitOption {
	return func(c *fitConfig) {
		c.logger = logger
	}
}

// Fit runs multi-epoch greedy training over a set of sequences and returns
// the learning curve of token-level accuracy per epoch. Training mutates
// the trainer in place; the caller decides when to call Average.
func Fit[L comparable](trainer SequentialTrainer[L], data []SequenceExample[L], opts ...FitOption) (*metrics.LearningCurve, error) {
	if len(data) == 0 {
		return nil, errors.ErrEmptyData
	}
	cfg := fitConfig{epochs: 10, logger: log.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.epochs <= 0 {
		return nil, errors.NewValidationError("epochs", "must be positive", cfg.epochs)
	}

	tokens := 0
	for _, ex := range data {
		if len(ex.Emissions) != len(ex.Labels) {
			return nil, errors.NewDimensionError("Fit", len(ex.Emissions), len(ex.Labels))
		}
		tokens += len(ex.Labels)
	}
	if tokens == 0 {
		return nil, errors.ErrEmptyData
	}

	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}
	var rng *rand.Rand
	if cfg.shuffle {
		rng = rand.New(rand.NewSource(cfg.seed))
	}

	curve := &metrics.LearningCurve{}
	for epoch := 0; epoch < cfg.epochs; epoch++ {
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}
		correct := 0
		for _, i := range order {
			n, err := trainer.Train(data[i].Emissions, data[i].Labels)
			if err != nil {
				return nil, err
			}
			correct += n
		}
		accuracy := float64(correct) / float64(tokens)
		curve.Append(accuracy)
		cfg.logger.Info("epoch complete",
			log.EpochKey, epoch,
			log.ExamplesKey, tokens,
			log.AccuracyKey, accuracy)
	}
	return curve, nil
}
