package metrics

import "math"

// DriftState is the outcome of a single drift-detector observation.
type DriftState int

const (
	// DriftNone means the error rate is within the expected band.
	DriftNone DriftState = iota
	// DriftWarning means the error rate has risen past the warning level.
	DriftWarning
	// DriftDetected means the error rate has risen past the drift level;
	// the detector resets its statistics after reporting it.
	DriftDetected
)

// String returns the state name.
func (s DriftState) String() string {
	switch s {
	case DriftNone:
		return "none"
	case DriftWarning:
		return "warning"
	case DriftDetected:
		return "drift"
	default:
		return "unknown"
	}
}

// DriftDetector watches a stream of per-example prediction outcomes and
// reports when the error rate of online training rises significantly above
// its historical minimum, following the drift detection method of Gama et
// al. (2004). A rising error rate during training usually means the data
// distribution has shifted mid-stream.
//
// The detector is fed from a single training loop and is not safe for
// concurrent use.
type DriftDetector struct {
	minObservations int
	warningLevel    float64
	driftLevel      float64

	observations int
	mistakes     int
	rate         float64

	minErrorRate float64
	minStdDev    float64
}

// DriftOption configures a DriftDetector.
type DriftOption func(*DriftDetector)

// WithMinObservations sets how many observations must accumulate before
// the detector starts reporting.
func WithMinObservations(n int) DriftOption {
	return func(d *DriftDetector) {
		d.minObservations = n
	}
}

// WithWarningLevel sets the number of standard deviations above the
// minimum error rate that triggers a warning.
func WithWarningLevel(level float64) DriftOption {
	return func(d *DriftDetector) {
		d.warningLevel = level
	}
}

// WithDriftLevel sets the number of standard deviations above the minimum
// error rate that triggers drift detection.
func WithDriftLevel(level float64) DriftOption {
	return func(d *DriftDetector) {
		d.driftLevel = level
	}
}

// NewDriftDetector creates a detector with the conventional defaults:
// 30 minimum observations, warning at two standard deviations, drift at
// three.
func NewDriftDetector(opts ...DriftOption) *DriftDetector {
	d := &DriftDetector{
		minObservations: 30,
		warningLevel:    2.0,
		driftLevel:      3.0,
		minErrorRate:    math.Inf(1),
		minStdDev:       math.Inf(1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe feeds one prediction outcome and returns the resulting state.
// Reporting DriftDetected resets the statistics so detection can run again
// on the post-drift stream.
func (d *DriftDetector) Observe(correct bool) DriftState {
	d.observations++
	if !correct {
		d.mistakes++
	}
	d.rate = float64(d.mistakes) / float64(d.observations)
	if d.observations < d.minObservations {
		return DriftNone
	}

	p := d.rate
	s := math.Sqrt(p * (1 - p) / float64(d.observations))

	if p+s < d.minErrorRate+d.minStdDev {
		d.minErrorRate = p
		d.minStdDev = s
	}

	switch {
	case p+s > d.minErrorRate+d.driftLevel*d.minStdDev:
		d.Reset()
		// The triggering rate stays readable until the next observation.
		d.rate = p
		return DriftDetected
	case p+s > d.minErrorRate+d.warningLevel*d.minStdDev:
		return DriftWarning
	default:
		return DriftNone
	}
}

// Observations returns the number of outcomes seen since the last reset.
func (d *DriftDetector) Observations() int { return d.observations }

// ErrorRate returns the error rate as of the most recent observation, or
// zero before any. After a detection it keeps reporting the rate that
// triggered the drift until the next observation arrives.
func (d *DriftDetector) ErrorRate() float64 { return d.rate }

// Reset clears all statistics.
func (d *DriftDetector) Reset() {
	d.observations = 0
	d.mistakes = 0
	d.rate = 0
	d.minErrorRate = math.Inf(1)
	d.minStdDev = math.Inf(1)
}
