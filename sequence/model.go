package sequence

import (
	"io"

	"github.com/shiomiya/percepgo/perceptron"
)

// SparseBinomialSequentialModel labels sequences with boolean labels, such
// as segmentation decisions, using a sparse binomial perceptron driven by
// the greedy decoder.
//
// The transition order is decoding configuration, not a model parameter:
// it is not persisted, and the reader supplies it again.
type SparseBinomialSequentialModel struct {
	flat *perceptron.SparseBinomialModel
	tf   *NGramTransition[bool]
}

// NewSparseBinomialSequentialModel creates a binomial sequential model in
// the Training phase. nfeats is a capacity hint and order is the
// transition window size.
func NewSparseBinomialSequentialModel(nfeats, order int, opts ...perceptron.Option) (*SparseBinomialSequentialModel, error) {
	tf, err := NewNGramTransition[bool](order)
	if err != nil {
		return nil, err
	}
	flat, err := perceptron.NewSparseBinomialModel(nfeats, opts...)
	if err != nil {
		return nil, err
	}
	return &SparseBinomialSequentialModel{flat: flat, tf: tf}, nil
}

// Train runs one greedy training pass over a sequence and returns the
// number of correctly predicted positions.
func (m *SparseBinomialSequentialModel) Train(evectors [][]string, ys []bool) (int, error) {
	return GreedyTrain[bool](evectors, ys, m.tf, m.flat)
}

// Predict labels a sequence greedily. Legal in both phases.
func (m *SparseBinomialSequentialModel) Predict(evectors [][]string) []bool {
	return GreedyPredict[bool](evectors, m.tf, m.flat)
}

// Average finalizes the underlying flat model. Irreversible.
func (m *SparseBinomialSequentialModel) Average() { m.flat.Average() }

// Averaged reports whether Average has been called.
func (m *SparseBinomialSequentialModel) Averaged() bool { return m.flat.Averaged() }

// Write serializes the finalized flat model.
func (m *SparseBinomialSequentialModel) Write(w io.Writer, metadata string) error {
	return m.flat.Write(w, metadata)
}

// WriteFile serializes the finalized flat model to a file.
func (m *SparseBinomialSequentialModel) WriteFile(path, metadata string) error {
	return m.flat.WriteFile(path, metadata)
}

// ReadSparseBinomialSequentialModel deserializes a finalized binomial
// sequential model, reattaching a transition functor of the given order.
func ReadSparseBinomialSequentialModel(r io.Reader, order int, opts ...perceptron.Option) (*SparseBinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[bool](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseBinomialModel(r, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseBinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}

// ReadSparseBinomialSequentialModelFile deserializes a binomial sequential
// model from a file.
func ReadSparseBinomialSequentialModelFile(path string, order int, opts ...perceptron.Option) (*SparseBinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[bool](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseBinomialModelFile(path, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseBinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}

// SparseDenseMultinomialSequentialModel labels sequences over a fixed
// integer label set, such as casing classes, using a sparse-feature
// multinomial perceptron driven by the greedy decoder.
type SparseDenseMultinomialSequentialModel struct {
	flat *perceptron.SparseDenseMultinomialModel
	tf   *NGramTransition[int]
}

// NewSparseDenseMultinomialSequentialModel creates a sparse-feature,
// dense-label sequential model in the Training phase.
func NewSparseDenseMultinomialSequentialModel(nfeats, nlabels, order int, opts ...perceptron.Option) (*SparseDenseMultinomialSequentialModel, error) {
	tf, err := NewNGramTransition[int](order)
	if err != nil {
		return nil, err
	}
	flat, err := perceptron.NewSparseDenseMultinomialModel(nfeats, nlabels, opts...)
	if err != nil {
		return nil, err
	}
	return &SparseDenseMultinomialSequentialModel{flat: flat, tf: tf}, nil
}

// Train runs one greedy training pass over a sequence and returns the
// number of correctly predicted positions.
func (m *SparseDenseMultinomialSequentialModel) Train(evectors [][]string, ys []int) (int, error) {
	return GreedyTrain[int](evectors, ys, m.tf, m.flat)
}

// Predict labels a sequence greedily. Legal in both phases.
func (m *SparseDenseMultinomialSequentialModel) Predict(evectors [][]string) []int {
	return GreedyPredict[int](evectors, m.tf, m.flat)
}

// Average finalizes the underlying flat model. Irreversible.
func (m *SparseDenseMultinomialSequentialModel) Average() { m.flat.Average() }

// Averaged reports whether Average has been called.
func (m *SparseDenseMultinomialSequentialModel) Averaged() bool { return m.flat.Averaged() }

// Write serializes the finalized flat model.
func (m *SparseDenseMultinomialSequentialModel) Write(w io.Writer, metadata string) error {
	return m.flat.Write(w, metadata)
}

// WriteFile serializes the finalized flat model to a file.
func (m *SparseDenseMultinomialSequentialModel) WriteFile(path, metadata string) error {
	return m.flat.WriteFile(path, metadata)
}

// ReadSparseDenseMultinomialSequentialModel deserializes a finalized
// sparse-feature, dense-label sequential model, reattaching a transition
// functor of the given order.
func ReadSparseDenseMultinomialSequentialModel(r io.Reader, order int, opts ...perceptron.Option) (*SparseDenseMultinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[int](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseDenseMultinomialModel(r, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseDenseMultinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}

// ReadSparseDenseMultinomialSequentialModelFile deserializes a
// sparse-feature, dense-label sequential model from a file.
func ReadSparseDenseMultinomialSequentialModelFile(path string, order int, opts ...perceptron.Option) (*SparseDenseMultinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[int](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseDenseMultinomialModelFile(path, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseDenseMultinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}

// SparseMultinomialSequentialModel labels sequences over an open string
// label set, such as part-of-speech tags, using a fully sparse multinomial
// perceptron driven by the greedy decoder.
type SparseMultinomialSequentialModel struct {
	flat *perceptron.SparseMultinomialModel
	tf   *NGramTransition[string]
}

// NewSparseMultinomialSequentialModel creates a fully sparse sequential
// model in the Training phase.
func NewSparseMultinomialSequentialModel(nfeats, nlabels, order int, opts ...perceptron.Option) (*SparseMultinomialSequentialModel, error) {
	tf, err := NewNGramTransition[string](order)
	if err != nil {
		return nil, err
	}
	flat, err := perceptron.NewSparseMultinomialModel(nfeats, nlabels, opts...)
	if err != nil {
		return nil, err
	}
	return &SparseMultinomialSequentialModel{flat: flat, tf: tf}, nil
}

// Train runs one greedy training pass over a sequence and returns the
// number of correctly predicted positions.
func (m *SparseMultinomialSequentialModel) Train(evectors [][]string, ys []string) (int, error) {
	return GreedyTrain[string](evectors, ys, m.tf, m.flat)
}

// Predict labels a sequence greedily. Legal in both phases.
func (m *SparseMultinomialSequentialModel) Predict(evectors [][]string) []string {
	return GreedyPredict[string](evectors, m.tf, m.flat)
}

// Average finalizes the underlying flat model. Irreversible.
func (m *SparseMultinomialSequentialModel) Average() { m.flat.Average() }

// Averaged reports whether Average has been called.
func (m *SparseMultinomialSequentialModel) Averaged() bool { return m.flat.Averaged() }

// Write serializes the finalized flat model.
func (m *SparseMultinomialSequentialModel) Write(w io.Writer, metadata string) error {
	return m.flat.Write(w, metadata)
}

// WriteFile serializes the finalized flat model to a file.
func (m *SparseMultinomialSequentialModel) WriteFile(path, metadata string) error {
	return m.flat.WriteFile(path, metadata)
}

// ReadSparseMultinomialSequentialModel deserializes a finalized fully
// sparse sequential model, reattaching a transition functor of the given
// order.
func ReadSparseMultinomialSequentialModel(r io.Reader, order int, opts ...perceptron.Option) (*SparseMultinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[string](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseMultinomialModel(r, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseMultinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}

// ReadSparseMultinomialSequentialModelFile deserializes a fully sparse
// sequential model from a file.
func ReadSparseMultinomialSequentialModelFile(path string, order int, opts ...perceptron.Option) (*SparseMultinomialSequentialModel, string, error) {
	tf, err := NewNGramTransition[string](order)
	if err != nil {
		return nil, "", err
	}
	flat, metadata, err := perceptron.ReadSparseMultinomialModelFile(path, opts...)
	if err != nil {
		return nil, "", err
	}
	return &SparseMultinomialSequentialModel{flat: flat, tf: tf}, metadata, nil
}
