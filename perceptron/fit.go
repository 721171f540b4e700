package perceptron

import (
	"math/rand"

	"github.com/shiomiya/percepgo/core/model"
	"github.com/shiomiya/percepgo/metrics"
	"github.com/shiomiya/percepgo/pkg/errors"
	"github.com/shiomiya/percepgo/pkg/log"
)

// Example pairs one feature bundle with its gold label.
type Example[F, L comparable] struct {
	Features []F
	Label    L
}

// fitConfig holds the multi-epoch training knobs.
type fitConfig struct {
	epochs   int
	seed     int64
	shuffle  bool
	logger   log.Logger
	detector *metrics.DriftDetector
}

// FitOption configures a call to Fit.
type FitOption func(*fitConfig)

// WithEpochs sets the number of passes over the data. The default is 10.
func WithEpochs(n int) FitOption {
	return func(c *fitConfig) {
		c.epochs = n
	}
}

// WithShuffle enables per-epoch shuffling of the example order, seeded for
// reproducibility.
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

// WithDriftDetector feeds every prediction outcome to a drift detector and
// logs a warning when it fires. Useful when the "epochs" are really a
// stream of fresh data rather than repeated passes.
func WithDriftDetector(d *metrics.DriftDetector) FitOption {
	return func(c *fitConfig) {
		c.detector = d
	}
}

// Fit runs multi-epoch online training of a flat model over a fixed set of
// examples and returns the per-epoch learning curve. Training mutates the
// trainer in place; the caller decides when to call Average.
//
// A non-converged final epoch is reported through the logger as a
// ConvergenceWarning, not as an error: a residual error rate is ordinary
// for non-separable data.
func Fit[F, L comparable](trainer model.Trainer[F, L], data []Example[F, L], opts ...FitOption) (*metrics.LearningCurve, error) {
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

	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}
	var rng *rand.Rand
	if cfg.shuffle {
		rng = rand.New(rand.NewSource(cfg.seed))
	}

	curve := &metrics.LearningCurve{}
	mistakes := 0
	for epoch := 0; epoch < cfg.epochs; epoch++ {
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}
		mistakes = 0
		for _, i := range order {
			correct := trainer.Train(data[i].Features, data[i].Label)
			if !correct {
				mistakes++
			}
			if cfg.detector != nil {
				if state := cfg.detector.Observe(correct); state == metrics.DriftDetected {
					cfg.logger.Warn("drift detected in training stream",
						log.EpochKey, epoch,
						log.AccuracyKey, 1-cfg.detector.ErrorRate())
				}
			}
		}
		accuracy := 1 - float64(mistakes)/float64(len(data))
		curve.Append(accuracy)
		cfg.logger.Info("epoch complete",
			log.EpochKey, epoch,
			log.ExamplesKey, len(data),
			log.AccuracyKey, accuracy)
	}

	if mistakes > 0 {
		warn := errors.NewConvergenceWarning("Fit", cfg.epochs, mistakes)
		cfg.logger.Warn(warn.Error(),
			log.EpochKey, cfg.epochs-1,
			log.ExamplesKey, len(data))
	}
	return curve, nil
}
