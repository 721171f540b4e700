// Package metrics provides evaluation helpers for percepgo models:
// classification scores, learning-curve tracking and plotting, and a
// statistical drift detector for online training streams.
package metrics

import (
	"github.com/shiomiya/percepgo/pkg/errors"
)

// Accuracy returns the fraction of positions where yTrue and yPred agree.
// The slices must be the same non-zero length.
func Accuracy[L comparable](yTrue, yPred []L) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, errors.ErrEmptyData
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ErrorCount returns the number of positions where yTrue and yPred
// disagree.
func ErrorCount[L comparable](yTrue, yPred []L) (int, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("ErrorCount", len(yTrue), len(yPred))
	}
	n := 0
	for i := range yTrue {
		if yTrue[i] != yPred[i] {
			n++
		}
	}
	return n, nil
}

// ConfusionCounts tallies (true label, predicted label) pairs. The outer
// key is the true label and the inner key the predicted label.
func ConfusionCounts[L comparable](yTrue, yPred []L) (map[L]map[L]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("ConfusionCounts", len(yTrue), len(yPred))
	}
	counts := make(map[L]map[L]int)
	for i := range yTrue {
		row := counts[yTrue[i]]
		if row == nil {
			row = make(map[L]int)
			counts[yTrue[i]] = row
		}
		row[yPred[i]]++
	}
	return counts, nil
}
