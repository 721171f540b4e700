// Package percepgo provides averaged perceptron classifiers for Go,
// designed to be embedded in larger text-processing services.
//
// The library implements the classic averaged perceptron in binomial
// (two-class) and multinomial (multi-class) forms, with dense
// (integer-indexed) and sparse (string-keyed) feature storage, plus a
// greedy decoder for structured prediction over sequences. Averaging is
// exact and lazy: weights carry their running time-weighted sums, so the
// cost of training does not scale with the number of untouched features.
//
// # Installation
//
// Install percepgo using go get:
//
//	go get github.com/shiomiya/percepgo
//
// # Quick Start
//
// Train a sparse binomial model and freeze it for inference:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/shiomiya/percepgo/perceptron"
//	)
//
//	func main() {
//	    model, err := perceptron.NewSparseBinomialModel(1024)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    data := []perceptron.Example[string, bool]{
//	        {Features: []string{"w=good"}, Label: true},
//	        {Features: []string{"w=bad"}, Label: false},
//	    }
//	    if _, err := perceptron.Fit[string, bool](model, data); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Averaging is irreversible: the model becomes immutable and
//	    // safe for concurrent prediction.
//	    model.Average()
//	    fmt.Println(model.Predict([]string{"w=good"}))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - perceptron: flat binomial and multinomial models, training and
//     persistence
//   - sequence: greedy structured decoding, transition features, and
//     sequential model wrappers
//   - truecase: token casing classification and restoration utilities
//   - metrics: accuracy, learning curves, and drift detection
//   - core/model: lifecycle and persistence plumbing shared by the model
//     wrappers
//
// # Model lifecycle
//
// Every model moves through exactly two phases. In the Training phase the
// weights are mutable and predictions use the current (non-averaged)
// weights. A single call to Average installs the time-weighted mean of
// every weight and finalizes the model; training after that point is a
// programming error and panics. Only finalized models can be serialized.
package percepgo
