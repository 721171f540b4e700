package perceptron

import (
	"io"
	"os"

	"github.com/shiomiya/percepgo/core/model"
	"github.com/shiomiya/percepgo/pkg/errors"
	"github.com/shiomiya/percepgo/pkg/log"
)

// Model kind strings, written into the persistence header so a reader can
// reject a stream holding a different shape.
const (
	KindDenseBinomial          = "dense-binomial"
	KindSparseBinomial         = "sparse-binomial"
	KindDenseMultinomial       = "dense-multinomial"
	KindSparseDenseMultinomial = "sparse-dense-multinomial"
	KindSparseMultinomial      = "sparse-multinomial"
)

// binomialModel wraps the training and finalized forms of a binomial
// perceptron behind a single lifecycle. Exactly one of avg and fin is
// non-nil at any moment; Average swaps them, irreversibly.
type binomialModel[F comparable] struct {
	lc  *model.Lifecycle
	log log.Logger
	avg *BinomialAveragingPerceptron[F]
	fin *BinomialPerceptron[F]
}

// Train feeds one example to the averaging form. It panics with a
// LifecycleError after Average.
func (m *binomialModel[F]) Train(fb []F, y bool) bool {
	m.lc.MustTraining("Train")
	return m.avg.Train(fb, y)
}

// Update applies one perceptron update without advancing the clock. Greedy
// sequence training calls this directly and ticks per sequence.
func (m *binomialModel[F]) Update(fb []F, y, yhat bool) {
	m.lc.MustTraining("Update")
	m.avg.Update(fb, y, yhat)
}

// Tick advances the training clock.
func (m *binomialModel[F]) Tick(step uint64) {
	m.lc.MustTraining("Tick")
	m.avg.Tick(step)
}

// Score returns the raw score from whichever form is live.
func (m *binomialModel[F]) Score(fb []F) Weight {
	if m.lc.Finalized() {
		return m.fin.Score(fb)
	}
	return m.avg.Score(fb)
}

// Predict returns true when the score is strictly positive. Legal in both
// phases.
func (m *binomialModel[F]) Predict(fb []F) bool {
	if m.lc.Finalized() {
		return m.fin.Predict(fb)
	}
	return m.avg.Predict(fb)
}

// Size returns the number of present feature weights.
func (m *binomialModel[F]) Size() int {
	if m.lc.Finalized() {
		return m.fin.Size()
	}
	return m.avg.Size()
}

// Average consumes the training form and replaces it with the finalized
// time-weighted mean. Irreversible; a second call panics.
func (m *binomialModel[F]) Average() {
	m.lc.MustTraining("Average")
	clock := m.avg.Time()
	m.fin = FinalizeBinomial(m.avg)
	m.avg = nil
	m.lc.Finalize("Average")
	m.log.Info("model averaged",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.ClockKey, clock)
}

// Averaged reports whether Average has been called.
func (m *binomialModel[F]) Averaged() bool { return m.lc.Finalized() }

// multinomialModel is the multiclass counterpart of binomialModel.
type multinomialModel[F, L comparable] struct {
	lc  *model.Lifecycle
	log log.Logger
	avg *MultinomialAveragingPerceptron[F, L]
	fin *MultinomialPerceptron[F, L]
}

// Train feeds one example to the averaging form. It panics with a
// LifecycleError after Average.
func (m *multinomialModel[F, L]) Train(fb []F, y L) bool {
	m.lc.MustTraining("Train")
	return m.avg.Train(fb, y)
}

// Update applies one perceptron update without advancing the clock.
func (m *multinomialModel[F, L]) Update(fb []F, y, yhat L) {
	m.lc.MustTraining("Update")
	m.avg.Update(fb, y, yhat)
}

// Tick advances the training clock.
func (m *multinomialModel[F, L]) Tick(step uint64) {
	m.lc.MustTraining("Tick")
	m.avg.Tick(step)
}

// Score returns the per-label scores from whichever form is live.
func (m *multinomialModel[F, L]) Score(fb []F) Inner[L] {
	if m.lc.Finalized() {
		return m.fin.Score(fb)
	}
	return m.avg.Score(fb)
}

// Predict returns the label with the maximal score. Legal in both phases.
func (m *multinomialModel[F, L]) Predict(fb []F) L {
	if m.lc.Finalized() {
		return m.fin.Predict(fb)
	}
	return m.avg.Predict(fb)
}

// Size returns the number of present feature rows.
func (m *multinomialModel[F, L]) Size() int {
	if m.lc.Finalized() {
		return m.fin.Size()
	}
	return m.avg.Size()
}

// Average consumes the training form and replaces it with the finalized
// time-weighted mean. Irreversible; a second call panics.
func (m *multinomialModel[F, L]) Average() {
	m.lc.MustTraining("Average")
	clock := m.avg.Time()
	m.fin = FinalizeMultinomial(m.avg)
	m.avg = nil
	m.lc.Finalize("Average")
	m.log.Info("model averaged",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.ClockKey, clock)
}

// Averaged reports whether Average has been called.
func (m *multinomialModel[F, L]) Averaged() bool { return m.lc.Finalized() }

// DenseBinomialModel is a two-class model over a fixed integer feature
// space.
type DenseBinomialModel struct {
	binomialModel[int]
	nfeats int
}

// NewDenseBinomialModel creates a dense binomial model in the Training
// phase.
func NewDenseBinomialModel(nfeats int, opts ...Option) (*DenseBinomialModel, error) {
	avg, err := NewDenseBinomialAveragingPerceptron(nfeats, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &DenseBinomialModel{
		binomialModel: binomialModel[int]{lc: model.NewLifecycle(KindDenseBinomial), log: cfg.logger, avg: avg},
		nfeats:        nfeats,
	}, nil
}

type denseBinomialSnapshot struct {
	NFeats int
	Bias   float64
	Table  []float64
}

// Write serializes the finalized model. It panics with a LifecycleError
// before Average.
func (m *DenseBinomialModel) Write(w io.Writer, metadata string) error {
	m.lc.MustFinalized("Write")
	snap := denseBinomialSnapshot{NFeats: m.nfeats, Bias: m.fin.bias, Table: make([]float64, m.nfeats)}
	m.fin.table.Each(func(k int, w Weight) bool {
		snap.Table[k] = w
		return true
	})
	if err := model.Save(w, KindDenseBinomial, metadata, snap); err != nil {
		return err
	}
	m.log.Info("model written",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.MetadataKey, metadata)
	return nil
}

// WriteFile serializes the finalized model to a file.
func (m *DenseBinomialModel) WriteFile(path, metadata string) error {
	m.lc.MustFinalized("WriteFile")
	return writeFile(m, path, metadata)
}

// ReadDenseBinomialModel deserializes a finalized dense binomial model,
// returning the model and the stored metadata.
func ReadDenseBinomialModel(r io.Reader, opts ...Option) (*DenseBinomialModel, string, error) {
	var snap denseBinomialSnapshot
	metadata, err := model.Load(r, KindDenseBinomial, &snap)
	if err != nil {
		return nil, "", err
	}
	if len(snap.Table) != snap.NFeats {
		return nil, "", errors.NewDimensionError("ReadDenseBinomialModel", snap.NFeats, len(snap.Table))
	}
	table := NewDenseInner(snap.NFeats)
	for i, w := range snap.Table {
		table.Set(i, w)
	}
	cfg := newConfig(opts)
	return &DenseBinomialModel{
		binomialModel: binomialModel[int]{
			lc:  model.NewFinalizedLifecycle(KindDenseBinomial),
			log: cfg.logger,
			fin: &BinomialPerceptron[int]{bias: snap.Bias, table: table},
		},
		nfeats: snap.NFeats,
	}, metadata, nil
}

// ReadDenseBinomialModelFile deserializes a dense binomial model from a
// file.
func ReadDenseBinomialModelFile(path string, opts ...Option) (*DenseBinomialModel, string, error) {
	return readFile(path, func(r io.Reader) (*DenseBinomialModel, string, error) {
		return ReadDenseBinomialModel(r, opts...)
	})
}

// SparseBinomialModel is a two-class model over string features.
type SparseBinomialModel struct {
	binomialModel[string]
	nfeats int
}

// NewSparseBinomialModel creates a sparse binomial model in the Training
// phase. nfeats is a capacity hint.
func NewSparseBinomialModel(nfeats int, opts ...Option) (*SparseBinomialModel, error) {
	avg, err := NewSparseBinomialAveragingPerceptron(nfeats, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &SparseBinomialModel{
		binomialModel: binomialModel[string]{lc: model.NewLifecycle(KindSparseBinomial), log: cfg.logger, avg: avg},
		nfeats:        nfeats,
	}, nil
}

type sparseBinomialSnapshot struct {
	NFeats int
	Bias   float64
	Table  map[string]float64
}

// Write serializes the finalized model. It panics with a LifecycleError
// before Average.
func (m *SparseBinomialModel) Write(w io.Writer, metadata string) error {
	m.lc.MustFinalized("Write")
	snap := sparseBinomialSnapshot{NFeats: m.nfeats, Bias: m.fin.bias, Table: make(map[string]float64, m.fin.table.Size())}
	m.fin.table.Each(func(k string, w Weight) bool {
		snap.Table[k] = w
		return true
	})
	if err := model.Save(w, KindSparseBinomial, metadata, snap); err != nil {
		return err
	}
	m.log.Info("model written",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.MetadataKey, metadata)
	return nil
}

// WriteFile serializes the finalized model to a file.
func (m *SparseBinomialModel) WriteFile(path, metadata string) error {
	m.lc.MustFinalized("WriteFile")
	return writeFile(m, path, metadata)
}

// ReadSparseBinomialModel deserializes a finalized sparse binomial model,
// returning the model and the stored metadata.
func ReadSparseBinomialModel(r io.Reader, opts ...Option) (*SparseBinomialModel, string, error) {
	var snap sparseBinomialSnapshot
	metadata, err := model.Load(r, KindSparseBinomial, &snap)
	if err != nil {
		return nil, "", err
	}
	table := NewSparseInner(len(snap.Table))
	for k, w := range snap.Table {
		table.Set(k, w)
	}
	cfg := newConfig(opts)
	return &SparseBinomialModel{
		binomialModel: binomialModel[string]{
			lc:  model.NewFinalizedLifecycle(KindSparseBinomial),
			log: cfg.logger,
			fin: &BinomialPerceptron[string]{bias: snap.Bias, table: table},
		},
		nfeats: snap.NFeats,
	}, metadata, nil
}

// ReadSparseBinomialModelFile deserializes a sparse binomial model from a
// file.
func ReadSparseBinomialModelFile(path string, opts ...Option) (*SparseBinomialModel, string, error) {
	return readFile(path, func(r io.Reader) (*SparseBinomialModel, string, error) {
		return ReadSparseBinomialModel(r, opts...)
	})
}

// DenseMultinomialModel is a multiclass model over fixed integer feature
// and label spaces.
type DenseMultinomialModel struct {
	multinomialModel[int, int]
	nfeats  int
	nlabels int
}

// NewDenseMultinomialModel creates a dense multiclass model in the
// Training phase.
func NewDenseMultinomialModel(nfeats, nlabels int, opts ...Option) (*DenseMultinomialModel, error) {
	avg, err := NewDenseMultinomialAveragingPerceptron(nfeats, nlabels, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &DenseMultinomialModel{
		multinomialModel: multinomialModel[int, int]{lc: model.NewLifecycle(KindDenseMultinomial), log: cfg.logger, avg: avg},
		nfeats:           nfeats,
		nlabels:          nlabels,
	}, nil
}

type denseMultinomialSnapshot struct {
	NFeats  int
	NLabels int
	Bias    []float64
	Table   [][]float64
}

// Write serializes the finalized model. It panics with a LifecycleError
// before Average.
func (m *DenseMultinomialModel) Write(w io.Writer, metadata string) error {
	m.lc.MustFinalized("Write")
	snap := denseMultinomialSnapshot{
		NFeats:  m.nfeats,
		NLabels: m.nlabels,
		Bias:    make([]float64, m.nlabels),
		Table:   make([][]float64, m.nfeats),
	}
	m.fin.bias.Each(func(l int, w Weight) bool {
		snap.Bias[l] = w
		return true
	})
	for f := range snap.Table {
		snap.Table[f] = make([]float64, m.nlabels)
		if row, ok := m.fin.table.Row(f); ok {
			row.Each(func(l int, w Weight) bool {
				snap.Table[f][l] = w
				return true
			})
		}
	}
	if err := model.Save(w, KindDenseMultinomial, metadata, snap); err != nil {
		return err
	}
	m.log.Info("model written",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.MetadataKey, metadata)
	return nil
}

// WriteFile serializes the finalized model to a file.
func (m *DenseMultinomialModel) WriteFile(path, metadata string) error {
	m.lc.MustFinalized("WriteFile")
	return writeFile(m, path, metadata)
}

// ReadDenseMultinomialModel deserializes a finalized dense multiclass
// model, returning the model and the stored metadata.
func ReadDenseMultinomialModel(r io.Reader, opts ...Option) (*DenseMultinomialModel, string, error) {
	var snap denseMultinomialSnapshot
	metadata, err := model.Load(r, KindDenseMultinomial, &snap)
	if err != nil {
		return nil, "", err
	}
	if len(snap.Table) != snap.NFeats {
		return nil, "", errors.NewDimensionError("ReadDenseMultinomialModel", snap.NFeats, len(snap.Table))
	}
	if len(snap.Bias) != snap.NLabels {
		return nil, "", errors.NewDimensionError("ReadDenseMultinomialModel", snap.NLabels, len(snap.Bias))
	}
	bias := NewDenseInner(snap.NLabels)
	for l, w := range snap.Bias {
		bias.Set(l, w)
	}
	table := NewDenseOuter(snap.NFeats, snap.NLabels)
	for f, row := range snap.Table {
		if len(row) != snap.NLabels {
			return nil, "", errors.NewDimensionError("ReadDenseMultinomialModel", snap.NLabels, len(row))
		}
		for l, w := range row {
			table.Set(f, l, w)
		}
	}
	cfg := newConfig(opts)
	return &DenseMultinomialModel{
		multinomialModel: multinomialModel[int, int]{
			lc:  model.NewFinalizedLifecycle(KindDenseMultinomial),
			log: cfg.logger,
			fin: &MultinomialPerceptron[int, int]{bias: bias, table: table},
		},
		nfeats:  snap.NFeats,
		nlabels: snap.NLabels,
	}, metadata, nil
}

// ReadDenseMultinomialModelFile deserializes a dense multiclass model from
// a file.
func ReadDenseMultinomialModelFile(path string, opts ...Option) (*DenseMultinomialModel, string, error) {
	return readFile(path, func(r io.Reader) (*DenseMultinomialModel, string, error) {
		return ReadDenseMultinomialModel(r, opts...)
	})
}

// SparseDenseMultinomialModel is a multiclass model over string features
// and a fixed integer label space.
type SparseDenseMultinomialModel struct {
	multinomialModel[string, int]
	nfeats  int
	nlabels int
}

// NewSparseDenseMultinomialModel creates a sparse-feature, dense-label
// multiclass model in the Training phase. nfeats is a capacity hint.
func NewSparseDenseMultinomialModel(nfeats, nlabels int, opts ...Option) (*SparseDenseMultinomialModel, error) {
	avg, err := NewSparseDenseMultinomialAveragingPerceptron(nfeats, nlabels, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &SparseDenseMultinomialModel{
		multinomialModel: multinomialModel[string, int]{lc: model.NewLifecycle(KindSparseDenseMultinomial), log: cfg.logger, avg: avg},
		nfeats:           nfeats,
		nlabels:          nlabels,
	}, nil
}

type sparseDenseMultinomialSnapshot struct {
	NFeats  int
	NLabels int
	Bias    []float64
	Table   map[string][]float64
}

// Write serializes the finalized model. It panics with a LifecycleError
// before Average.
func (m *SparseDenseMultinomialModel) Write(w io.Writer, metadata string) error {
	m.lc.MustFinalized("Write")
	snap := sparseDenseMultinomialSnapshot{
		NFeats:  m.nfeats,
		NLabels: m.nlabels,
		Bias:    make([]float64, m.nlabels),
		Table:   make(map[string][]float64, m.fin.table.OuterSize()),
	}
	m.fin.bias.Each(func(l int, w Weight) bool {
		snap.Bias[l] = w
		return true
	})
	m.fin.table.EachRow(func(f string, row Inner[int]) bool {
		ws := make([]float64, m.nlabels)
		row.Each(func(l int, w Weight) bool {
			ws[l] = w
			return true
		})
		snap.Table[f] = ws
		return true
	})
	if err := model.Save(w, KindSparseDenseMultinomial, metadata, snap); err != nil {
		return err
	}
	m.log.Info("model written",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.MetadataKey, metadata)
	return nil
}

// WriteFile serializes the finalized model to a file.
func (m *SparseDenseMultinomialModel) WriteFile(path, metadata string) error {
	m.lc.MustFinalized("WriteFile")
	return writeFile(m, path, metadata)
}

// ReadSparseDenseMultinomialModel deserializes a finalized sparse-feature,
// dense-label multiclass model, returning the model and the stored
// metadata.
func ReadSparseDenseMultinomialModel(r io.Reader, opts ...Option) (*SparseDenseMultinomialModel, string, error) {
	var snap sparseDenseMultinomialSnapshot
	metadata, err := model.Load(r, KindSparseDenseMultinomial, &snap)
	if err != nil {
		return nil, "", err
	}
	if len(snap.Bias) != snap.NLabels {
		return nil, "", errors.NewDimensionError("ReadSparseDenseMultinomialModel", snap.NLabels, len(snap.Bias))
	}
	bias := NewDenseInner(snap.NLabels)
	for l, w := range snap.Bias {
		bias.Set(l, w)
	}
	table := NewSparseDenseOuter(len(snap.Table), snap.NLabels)
	for f, row := range snap.Table {
		if len(row) != snap.NLabels {
			return nil, "", errors.NewDimensionError("ReadSparseDenseMultinomialModel", snap.NLabels, len(row))
		}
		for l, w := range row {
			table.Set(f, l, w)
		}
	}
	cfg := newConfig(opts)
	return &SparseDenseMultinomialModel{
		multinomialModel: multinomialModel[string, int]{
			lc:  model.NewFinalizedLifecycle(KindSparseDenseMultinomial),
			log: cfg.logger,
			fin: &MultinomialPerceptron[string, int]{bias: bias, table: table},
		},
		nfeats:  snap.NFeats,
		nlabels: snap.NLabels,
	}, metadata, nil
}

// ReadSparseDenseMultinomialModelFile deserializes a sparse-feature,
// dense-label multiclass model from a file.
func ReadSparseDenseMultinomialModelFile(path string, opts ...Option) (*SparseDenseMultinomialModel, string, error) {
	return readFile(path, func(r io.Reader) (*SparseDenseMultinomialModel, string, error) {
		return ReadSparseDenseMultinomialModel(r, opts...)
	})
}

// SparseMultinomialModel is a multiclass model over string features and
// string labels.
type SparseMultinomialModel struct {
	multinomialModel[string, string]
	nfeats  int
	nlabels int
}

// NewSparseMultinomialModel creates a fully sparse multiclass model in the
// Training phase. nfeats and nlabels are capacity hints.
func NewSparseMultinomialModel(nfeats, nlabels int, opts ...Option) (*SparseMultinomialModel, error) {
	avg, err := NewSparseMultinomialAveragingPerceptron(nfeats, nlabels, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &SparseMultinomialModel{
		multinomialModel: multinomialModel[string, string]{lc: model.NewLifecycle(KindSparseMultinomial), log: cfg.logger, avg: avg},
		nfeats:           nfeats,
		nlabels:          nlabels,
	}, nil
}

type sparseMultinomialSnapshot struct {
	NFeats  int
	NLabels int
	Bias    map[string]float64
	Table   map[string]map[string]float64
}

// Write serializes the finalized model. It panics with a LifecycleError
// before Average.
func (m *SparseMultinomialModel) Write(w io.Writer, metadata string) error {
	m.lc.MustFinalized("Write")
	snap := sparseMultinomialSnapshot{
		NFeats:  m.nfeats,
		NLabels: m.nlabels,
		Bias:    make(map[string]float64, m.fin.bias.Size()),
		Table:   make(map[string]map[string]float64, m.fin.table.OuterSize()),
	}
	m.fin.bias.Each(func(l string, w Weight) bool {
		snap.Bias[l] = w
		return true
	})
	m.fin.table.EachRow(func(f string, row Inner[string]) bool {
		ws := make(map[string]float64, row.Size())
		row.Each(func(l string, w Weight) bool {
			ws[l] = w
			return true
		})
		snap.Table[f] = ws
		return true
	})
	if err := model.Save(w, KindSparseMultinomial, metadata, snap); err != nil {
		return err
	}
	m.log.Info("model written",
		log.ModelKey, m.lc.Name(),
		log.ModelIDKey, m.lc.ID(),
		log.MetadataKey, metadata)
	return nil
}

// WriteFile serializes the finalized model to a file.
func (m *SparseMultinomialModel) WriteFile(path, metadata string) error {
	m.lc.MustFinalized("WriteFile")
	return writeFile(m, path, metadata)
}

// ReadSparseMultinomialModel deserializes a finalized fully sparse
// multiclass model, returning the model and the stored metadata.
func ReadSparseMultinomialModel(r io.Reader, opts ...Option) (*SparseMultinomialModel, string, error) {
	var snap sparseMultinomialSnapshot
	metadata, err := model.Load(r, KindSparseMultinomial, &snap)
	if err != nil {
		return nil, "", err
	}
	bias := NewSparseInner(len(snap.Bias))
	for l, w := range snap.Bias {
		bias.Set(l, w)
	}
	table := NewSparseOuter(len(snap.Table), snap.NLabels)
	for f, row := range snap.Table {
		for l, w := range row {
			table.Set(f, l, w)
		}
	}
	cfg := newConfig(opts)
	return &SparseMultinomialModel{
		multinomialModel: multinomialModel[string, string]{
			lc:  model.NewFinalizedLifecycle(KindSparseMultinomial),
			log: cfg.logger,
			fin: &MultinomialPerceptron[string, string]{bias: bias, table: table},
		},
		nfeats:  snap.NFeats,
		nlabels: snap.NLabels,
	}, metadata, nil
}

// ReadSparseMultinomialModelFile deserializes a fully sparse multiclass
// model from a file.
func ReadSparseMultinomialModelFile(path string, opts ...Option) (*SparseMultinomialModel, string, error) {
	return readFile(path, func(r io.Reader) (*SparseMultinomialModel, string, error) {
		return ReadSparseMultinomialModel(r, opts...)
	})
}

// streamWriter is any model that can serialize itself to a stream.
type streamWriter interface {
	Write(w io.Writer, metadata string) error
}

func writeFile(m streamWriter, path, metadata string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewModelError("WriteFile", "failed to create file", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.NewModelError("WriteFile", "failed to close file", cerr)
		}
	}()
	return m.Write(file, metadata)
}

func readFile[M any](path string, read func(io.Reader) (M, string, error)) (M, string, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero M
		return zero, "", errors.NewModelError("ReadFile", "failed to open file", err)
	}
	defer file.Close()
	return read(file)
}
