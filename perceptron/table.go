package perceptron

import (
	"gonum.org/v1/gonum/floats"
)

// Inner is one row of finalized weights, keyed by feature (for binomial
// models) or by label (for multinomial score rows). Dense rows use int
// keys, sparse rows use string keys; the shape is fixed for the lifetime of
// the model that owns the row.
type Inner[K comparable] interface {
	// Get returns the weight for a key. Absent sparse keys yield zero
	// without materializing an entry; out-of-range dense keys panic.
	Get(k K) Weight
	// Set writes a weight, materializing the entry on sparse rows.
	Set(k K, w Weight)
	// Add adds tau to the weight for a key, materializing if needed.
	Add(k K, tau Weight)
	// Size returns the number of present entries.
	Size() int
	// ArgMax returns the key of the maximal weight. Dense rows break ties
	// toward the lowest index. Sparse rows break ties toward the
	// lexicographically smallest key, a deterministic stand-in for the
	// unordered-map iteration the design leaves unspecified; an empty
	// sparse row yields the zero key as a placeholder.
	ArgMax() K
	// AddWeights adds another row entrywise. Adding a nil or empty row is
	// a no-op.
	AddWeights(o Inner[K])
	// Each visits present entries until fn returns false. Dense rows
	// visit in index order; sparse order is unspecified.
	Each(fn func(k K, w Weight) bool)
	// Clone returns an independent copy.
	Clone() Inner[K]
}

// DenseInner is an array-backed row over a fixed key space.
type DenseInner struct {
	ws []Weight
}

// NewDenseInner creates a dense row of n zero weights.
func NewDenseInner(n int) *DenseInner {
	return &DenseInner{ws: make([]Weight, n)}
}

func (t *DenseInner) Get(k int) Weight      { return t.ws[k] }
func (t *DenseInner) Set(k int, w Weight)   { t.ws[k] = w }
func (t *DenseInner) Add(k int, tau Weight) { t.ws[k] += tau }
func (t *DenseInner) Size() int             { return len(t.ws) }

func (t *DenseInner) ArgMax() int {
	return floats.MaxIdx(t.ws)
}

func (t *DenseInner) AddWeights(o Inner[int]) {
	if o == nil || o.Size() == 0 {
		return
	}
	if d, ok := o.(*DenseInner); ok && len(d.ws) == len(t.ws) {
		floats.Add(t.ws, d.ws)
		return
	}
	o.Each(func(k int, w Weight) bool {
		t.ws[k] += w
		return true
	})
}

func (t *DenseInner) Each(fn func(k int, w Weight) bool) {
	for i, w := range t.ws {
		if !fn(i, w) {
			return
		}
	}
}

func (t *DenseInner) Clone() Inner[int] {
	ws := make([]Weight, len(t.ws))
	copy(ws, t.ws)
	return &DenseInner{ws: ws}
}

// SparseInner is a map-backed row over an open key space.
type SparseInner struct {
	ws map[string]Weight
}

// NewSparseInner creates a sparse row; n is only a capacity hint.
func NewSparseInner(n int) *SparseInner {
	return &SparseInner{ws: make(map[string]Weight, n)}
}

func (t *SparseInner) Get(k string) Weight      { return t.ws[k] }
func (t *SparseInner) Set(k string, w Weight)   { t.ws[k] = w }
func (t *SparseInner) Add(k string, tau Weight) { t.ws[k] += tau }
func (t *SparseInner) Size() int                { return len(t.ws) }

func (t *SparseInner) ArgMax() string {
	var best string
	var bestW Weight
	first := true
	for k, w := range t.ws {
		if first || w > bestW || (w == bestW && k < best) {
			best, bestW = k, w
			first = false
		}
	}
	return best
}

func (t *SparseInner) AddWeights(o Inner[string]) {
	if o == nil || o.Size() == 0 {
		return
	}
	o.Each(func(k string, w Weight) bool {
		t.ws[k] += w
		return true
	})
}

func (t *SparseInner) Each(fn func(k string, w Weight) bool) {
	for k, w := range t.ws {
		if !fn(k, w) {
			return
		}
	}
}

func (t *SparseInner) Clone() Inner[string] {
	ws := make(map[string]Weight, len(t.ws))
	for k, w := range t.ws {
		ws[k] = w
	}
	return &SparseInner{ws: ws}
}

// AveragingInner is a row of averaging weights used during training.
type AveragingInner[K comparable] interface {
	// GetMut returns the averaging weight for a key, materializing a
	// zero-valued entry on sparse rows.
	GetMut(k K) *AveragingWeight
	// Current returns the current (non-averaged) value without
	// materializing anything.
	Current(k K) Weight
	// Size returns the number of present entries.
	Size() int
	// Each visits present entries until fn returns false.
	Each(fn func(k K, w *AveragingWeight) bool)
	// Snapshot copies the current values into a finalized-shape row.
	Snapshot() Inner[K]
	// Average freshens every entry to the given time and returns the row
	// of time-weighted means. Sparse rows omit zero-valued means, which
	// is prediction-equivalent to storing them.
	Average(time uint64) Inner[K]
}

// DenseAveragingInner is the array-backed averaging row.
type DenseAveragingInner struct {
	ws []AveragingWeight
}

// NewDenseAveragingInner creates a dense averaging row of n zero weights.
func NewDenseAveragingInner(n int) *DenseAveragingInner {
	return &DenseAveragingInner{ws: make([]AveragingWeight, n)}
}

func (t *DenseAveragingInner) GetMut(k int) *AveragingWeight { return &t.ws[k] }
func (t *DenseAveragingInner) Current(k int) Weight          { return t.ws[k].Get() }
func (t *DenseAveragingInner) Size() int                     { return len(t.ws) }

func (t *DenseAveragingInner) Each(fn func(k int, w *AveragingWeight) bool) {
	for i := range t.ws {
		if !fn(i, &t.ws[i]) {
			return
		}
	}
}

func (t *DenseAveragingInner) Snapshot() Inner[int] {
	out := NewDenseInner(len(t.ws))
	for i := range t.ws {
		out.ws[i] = t.ws[i].Get()
	}
	return out
}

func (t *DenseAveragingInner) Average(time uint64) Inner[int] {
	out := NewDenseInner(len(t.ws))
	for i := range t.ws {
		out.ws[i] = t.ws[i].Average(time)
	}
	return out
}

// SparseAveragingInner is the map-backed averaging row.
type SparseAveragingInner struct {
	ws map[string]*AveragingWeight
}

// NewSparseAveragingInner creates a sparse averaging row; n is a capacity
// hint.
func NewSparseAveragingInner(n int) *SparseAveragingInner {
	return &SparseAveragingInner{ws: make(map[string]*AveragingWeight, n)}
}

func (t *SparseAveragingInner) GetMut(k string) *AveragingWeight {
	w, ok := t.ws[k]
	if !ok {
		w = &AveragingWeight{}
		t.ws[k] = w
	}
	return w
}

func (t *SparseAveragingInner) Current(k string) Weight {
	if w, ok := t.ws[k]; ok {
		return w.Get()
	}
	return 0
}

func (t *SparseAveragingInner) Size() int { return len(t.ws) }

func (t *SparseAveragingInner) Each(fn func(k string, w *AveragingWeight) bool) {
	for k, w := range t.ws {
		if !fn(k, w) {
			return
		}
	}
}

func (t *SparseAveragingInner) Snapshot() Inner[string] {
	out := NewSparseInner(len(t.ws))
	for k, w := range t.ws {
		out.ws[k] = w.Get()
	}
	return out
}

func (t *SparseAveragingInner) Average(time uint64) Inner[string] {
	out := NewSparseInner(len(t.ws))
	for k, w := range t.ws {
		if mean := w.Average(time); mean != 0 {
			out.ws[k] = mean
		}
	}
	return out
}

// Outer maps features to finalized label rows in multinomial models.
type Outer[F, L comparable] interface {
	// Row returns the row for a feature; ok is false when the feature is
	// absent (sparse outers only).
	Row(f F) (row Inner[L], ok bool)
	// Set writes one cell, materializing the row on sparse outers.
	Set(f F, l L, w Weight)
	// OuterSize returns the number of present rows.
	OuterSize() int
	// InnerSize returns the label cardinality (a hint for sparse labels).
	InnerSize() int
	// EachRow visits present rows until fn returns false.
	EachRow(fn func(f F, row Inner[L]) bool)
}

// DenseOuter is the array-of-arrays outer table: fixed feature space, fixed
// label space.
type DenseOuter struct {
	rows    []*DenseInner
	nlabels int
}

// NewDenseOuter creates a dense outer table of nfeats rows, each holding
// nlabels zero weights.
func NewDenseOuter(nfeats, nlabels int) *DenseOuter {
	rows := make([]*DenseInner, nfeats)
	for i := range rows {
		rows[i] = NewDenseInner(nlabels)
	}
	return &DenseOuter{rows: rows, nlabels: nlabels}
}

func (t *DenseOuter) Row(f int) (Inner[int], bool) { return t.rows[f], true }
func (t *DenseOuter) Set(f, l int, w Weight)       { t.rows[f].Set(l, w) }
func (t *DenseOuter) OuterSize() int               { return len(t.rows) }
func (t *DenseOuter) InnerSize() int               { return t.nlabels }

func (t *DenseOuter) EachRow(fn func(f int, row Inner[int]) bool) {
	for i, row := range t.rows {
		if !fn(i, row) {
			return
		}
	}
}

// SparseDenseOuter keys rows by string feature; rows are dense over a fixed
// label space.
type SparseDenseOuter struct {
	rows    map[string]*DenseInner
	nlabels int
}

// NewSparseDenseOuter creates a sparse-dense outer table; nfeats is a
// capacity hint.
func NewSparseDenseOuter(nfeats, nlabels int) *SparseDenseOuter {
	return &SparseDenseOuter{rows: make(map[string]*DenseInner, nfeats), nlabels: nlabels}
}

func (t *SparseDenseOuter) Row(f string) (Inner[int], bool) {
	row, ok := t.rows[f]
	if !ok {
		return nil, false
	}
	return row, true
}

func (t *SparseDenseOuter) Set(f string, l int, w Weight) {
	row, ok := t.rows[f]
	if !ok {
		row = NewDenseInner(t.nlabels)
		t.rows[f] = row
	}
	row.Set(l, w)
}

func (t *SparseDenseOuter) OuterSize() int { return len(t.rows) }
func (t *SparseDenseOuter) InnerSize() int { return t.nlabels }

func (t *SparseDenseOuter) EachRow(fn func(f string, row Inner[int]) bool) {
	for f, row := range t.rows {
		if !fn(f, row) {
			return
		}
	}
}

// SparseOuter keys both rows and labels by string.
type SparseOuter struct {
	rows    map[string]*SparseInner
	nlabels int
}

// NewSparseOuter creates a fully sparse outer table; both sizes are
// capacity hints.
func NewSparseOuter(nfeats, nlabels int) *SparseOuter {
	return &SparseOuter{rows: make(map[string]*SparseInner, nfeats), nlabels: nlabels}
}

func (t *SparseOuter) Row(f string) (Inner[string], bool) {
	row, ok := t.rows[f]
	if !ok {
		return nil, false
	}
	return row, true
}

func (t *SparseOuter) Set(f string, l string, w Weight) {
	row, ok := t.rows[f]
	if !ok {
		row = NewSparseInner(t.nlabels)
		t.rows[f] = row
	}
	row.Set(l, w)
}

func (t *SparseOuter) OuterSize() int { return len(t.rows) }
func (t *SparseOuter) InnerSize() int { return t.nlabels }

func (t *SparseOuter) EachRow(fn func(f string, row Inner[string]) bool) {
	for f, row := range t.rows {
		if !fn(f, row) {
			return
		}
	}
}

// AveragingOuter maps features to averaging label rows during training.
type AveragingOuter[F, L comparable] interface {
	// RowMut returns the row for a feature, materializing a zero row
	// sized to the label cardinality on sparse outers.
	RowMut(f F) AveragingInner[L]
	// Row returns the row without materializing; ok is false when absent.
	Row(f F) (row AveragingInner[L], ok bool)
	// OuterSize returns the number of present rows.
	OuterSize() int
	// InnerSize returns the label cardinality (a hint for sparse labels).
	InnerSize() int
	// Average freshens every cell to the given time and returns the
	// finalized outer table. Sparse outers omit rows whose means are all
	// zero.
	Average(time uint64) Outer[F, L]
}

// DenseAveragingOuter is the dense-by-dense averaging outer table.
type DenseAveragingOuter struct {
	rows    []*DenseAveragingInner
	nlabels int
}

// NewDenseAveragingOuter creates nfeats rows of nlabels averaging weights.
func NewDenseAveragingOuter(nfeats, nlabels int) *DenseAveragingOuter {
	rows := make([]*DenseAveragingInner, nfeats)
	for i := range rows {
		rows[i] = NewDenseAveragingInner(nlabels)
	}
	return &DenseAveragingOuter{rows: rows, nlabels: nlabels}
}

func (t *DenseAveragingOuter) RowMut(f int) AveragingInner[int] { return t.rows[f] }

func (t *DenseAveragingOuter) Row(f int) (AveragingInner[int], bool) { return t.rows[f], true }

func (t *DenseAveragingOuter) OuterSize() int { return len(t.rows) }
func (t *DenseAveragingOuter) InnerSize() int { return t.nlabels }

func (t *DenseAveragingOuter) Average(time uint64) Outer[int, int] {
	out := NewDenseOuter(len(t.rows), t.nlabels)
	for i, row := range t.rows {
		out.rows[i] = row.Average(time).(*DenseInner)
	}
	return out
}

// SparseDenseAveragingOuter is the string-by-dense averaging outer table.
type SparseDenseAveragingOuter struct {
	rows    map[string]*DenseAveragingInner
	nlabels int
}

// NewSparseDenseAveragingOuter creates a sparse-dense averaging outer
// table; nfeats is a capacity hint.
func NewSparseDenseAveragingOuter(nfeats, nlabels int) *SparseDenseAveragingOuter {
	return &SparseDenseAveragingOuter{rows: make(map[string]*DenseAveragingInner, nfeats), nlabels: nlabels}
}

func (t *SparseDenseAveragingOuter) RowMut(f string) AveragingInner[int] {
	row, ok := t.rows[f]
	if !ok {
		row = NewDenseAveragingInner(t.nlabels)
		t.rows[f] = row
	}
	return row
}

func (t *SparseDenseAveragingOuter) Row(f string) (AveragingInner[int], bool) {
	row, ok := t.rows[f]
	if !ok {
		return nil, false
	}
	return row, true
}

func (t *SparseDenseAveragingOuter) OuterSize() int { return len(t.rows) }
func (t *SparseDenseAveragingOuter) InnerSize() int { return t.nlabels }

func (t *SparseDenseAveragingOuter) Average(time uint64) Outer[string, int] {
	out := NewSparseDenseOuter(len(t.rows), t.nlabels)
	for f, row := range t.rows {
		mean := row.Average(time).(*DenseInner)
		nonzero := false
		for _, w := range mean.ws {
			if w != 0 {
				nonzero = true
				break
			}
		}
		if nonzero {
			out.rows[f] = mean
		}
	}
	return out
}

// SparseAveragingOuter is the fully sparse averaging outer table.
type SparseAveragingOuter struct {
	rows    map[string]*SparseAveragingInner
	nlabels int
}

// NewSparseAveragingOuter creates a fully sparse averaging outer table;
// both sizes are capacity hints.
func NewSparseAveragingOuter(nfeats, nlabels int) *SparseAveragingOuter {
	return &SparseAveragingOuter{rows: make(map[string]*SparseAveragingInner, nfeats), nlabels: nlabels}
}

func (t *SparseAveragingOuter) RowMut(f string) AveragingInner[string] {
	row, ok := t.rows[f]
	if !ok {
		row = NewSparseAveragingInner(t.nlabels)
		t.rows[f] = row
	}
	return row
}

func (t *SparseAveragingOuter) Row(f string) (AveragingInner[string], bool) {
	row, ok := t.rows[f]
	if !ok {
		return nil, false
	}
	return row, true
}

func (t *SparseAveragingOuter) OuterSize() int { return len(t.rows) }
func (t *SparseAveragingOuter) InnerSize() int { return t.nlabels }

func (t *SparseAveragingOuter) Average(time uint64) Outer[string, string] {
	out := NewSparseOuter(len(t.rows), t.nlabels)
	for f, row := range t.rows {
		mean := row.Average(time).(*SparseInner)
		if mean.Size() > 0 {
			out.rows[f] = mean
		}
	}
	return out
}
