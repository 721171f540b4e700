package metrics

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// LearningCurve accumulates per-epoch training accuracy.
type LearningCurve struct {
	accuracies []float64
}

// Append records the accuracy of the next epoch.
func (c *LearningCurve) Append(accuracy float64) {
	c.accuracies = append(c.accuracies, accuracy)
}

// Len returns the number of recorded epochs.
func (c *LearningCurve) Len() int { return len(c.accuracies) }

// Final returns the accuracy of the last recorded epoch, or zero when the
// curve is empty.
func (c *LearningCurve) Final() float64 {
	if len(c.accuracies) == 0 {
		return 0
	}
	return c.accuracies[len(c.accuracies)-1]
}

// Accuracies returns a copy of the recorded per-epoch accuracies.
func (c *LearningCurve) Accuracies() []float64 {
	out := make([]float64, len(c.accuracies))
	copy(out, c.accuracies)
	return out
}

// SavePNG renders the curve as accuracy over epochs and writes it to a PNG
// file.
func (c *LearningCurve) SavePNG(path string) error {
	if len(c.accuracies) == 0 {
		return errors.ErrEmptyData
	}
	p := plot.New()
	p.Title.Text = "Training accuracy"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, len(c.accuracies))
	for i, acc := range c.accuracies {
		pts[i].X = float64(i)
		pts[i].Y = acc
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "metrics: failed to build learning curve line")
	}
	p.Add(line)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "metrics: failed to save learning curve plot")
	}
	return nil
}
