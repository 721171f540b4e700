package perceptron

import (
	"github.com/shiomiya/percepgo/pkg/log"
)

type config struct {
	margin float64
	logger log.Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: log.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a perceptron at construction time.
type Option func(*config)

// WithMargin sets the margin threshold c. With c > 0 a correct prediction
// whose per-feature score gap is below c still triggers an update, pushing
// scores apart near the decision boundary. The default is 0 (updates on
// mistakes only).
func WithMargin(c float64) Option {
	return func(cfg *config) {
		cfg.margin = c
	}
}

// WithLogger attaches a structured logger to the model wrapper. Lifecycle
// transitions and persistence operations are logged at info level. The
// default logger discards everything.
func WithLogger(logger log.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
