package sequence

import (
	"github.com/shiomiya/percepgo/pkg/errors"
)

// Classifier is the per-position inference surface the greedy decoder
// drives: any string-featured flat model, averaging or finalized.
type Classifier[L comparable] interface {
	Predict(fb []string) L
}

// Trainer extends Classifier with the raw update surface the decoder needs
// for structured training: updates are applied per mispredicted position
// and the clock is advanced once per sequence.
type Trainer[L comparable] interface {
	Classifier[L]
	Update(fb []string, y, yhat L)
	Tick(step uint64)
}

// GreedyPredictVectors labels a sequence left to right, feeding each
// position's prediction into the transition features of the next, and
// returns both the predicted labels and the combined per-position feature
// vectors for use during training.
func GreedyPredictVectors[L comparable](evectors [][]string, tf TransitionFunctor[L], c Classifier[L]) (yhats []L, cvectors [][]string) {
	yhats = make([]L, 0, len(evectors))
	cvectors = make([][]string, len(evectors))
	for i, evector := range evectors {
		tfeats := tf.Extract(yhats)
		// The functor may return a cached slice; the combined vector is
		// always freshly allocated.
		cvector := make([]string, 0, len(tfeats)+len(evector))
		cvector = append(cvector, tfeats...)
		cvector = append(cvector, evector...)
		cvectors[i] = cvector
		yhats = append(yhats, c.Predict(cvector))
	}
	return yhats, cvectors
}

// GreedyPredict labels a sequence left to right, discarding the combined
// feature vectors.
func GreedyPredict[L comparable](evectors [][]string, tf TransitionFunctor[L], c Classifier[L]) []L {
	yhats, _ := GreedyPredictVectors(evectors, tf, c)
	return yhats
}

// GreedyTrain runs one structured training pass over a single sequence:
// it first predicts the whole sequence greedily, conditioning on its own
// predicted history, then applies one update per mispredicted position and
// advances the clock by the sequence length. It returns the number of
// correctly predicted positions.
//
// Conditioning updates on the predicted rather than the gold history is
// what lets the model recover from its own decoding mistakes at inference
// time.
func GreedyTrain[L comparable](evectors [][]string, ys []L, tf TransitionFunctor[L], tr Trainer[L]) (int, error) {
	if len(evectors) != len(ys) {
		return 0, errors.NewDimensionError("GreedyTrain", len(evectors), len(ys))
	}
	yhats, cvectors := GreedyPredictVectors[L](evectors, tf, tr)
	correct := 0
	for i, y := range ys {
		if y == yhats[i] {
			correct++
		} else {
			tr.Update(cvectors[i], y, yhats[i])
		}
	}
	tr.Tick(uint64(len(ys)))
	return correct, nil
}
