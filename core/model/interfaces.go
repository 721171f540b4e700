package model

import "io"

// Classifier is the inference surface shared by all flat model wrappers,
// parameterized by feature and label type. Dense models use int features;
// sparse models use string features.
type Classifier[F, L comparable] interface {
	Predict(fb []F) L
}

// Trainer extends Classifier with the online training step. Train returns
// whether the pre-update prediction was correct.
type Trainer[F, L comparable] interface {
	Classifier[F, L]
	Train(fb []F, y L) bool
}

// SequenceLabeler is the inference surface of the sequential model wrappers.
// Emission feature bundles are always string-keyed.
type SequenceLabeler[L comparable] interface {
	Predict(evectors [][]string) []L
}

// Averager is implemented by every model wrapper: a single irreversible
// transition from the training form to the finalized form.
type Averager interface {
	Average()
	Averaged() bool
}

// Persistable is implemented by model wrappers whose finalized form can be
// serialized with free-text metadata.
type Persistable interface {
	Averager
	Write(w io.Writer, metadata string) error
}
