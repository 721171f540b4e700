package perceptron

import (
	"testing"
)

func TestDenseInnerArgMaxTieBreak(t *testing.T) {
	row := NewDenseInner(3)
	row.Set(0, 0.5)
	row.Set(1, 0.5)
	row.Set(2, 0.1)
	if got := row.ArgMax(); got != 0 {
		t.Errorf("ArgMax() = %d, want 0 (lowest tied index)", got)
	}
}

func TestSparseInnerArgMaxTieBreak(t *testing.T) {
	row := NewSparseInner(4)
	row.Set("verb", 1.0)
	row.Set("adj", 1.0)
	row.Set("noun", 0.25)
	if got := row.ArgMax(); got != "adj" {
		t.Errorf("ArgMax() = %q, want %q", got, "adj")
	}
}

func TestSparseInnerArgMaxEmpty(t *testing.T) {
	row := NewSparseInner(4)
	if got := row.ArgMax(); got != "" {
		t.Errorf("ArgMax() on empty row = %q, want zero value", got)
	}
}

func TestSparseInnerGetDoesNotMaterialize(t *testing.T) {
	row := NewSparseInner(4)
	if got := row.Get("absent"); got != 0 {
		t.Errorf("Get(absent) = %v, want 0", got)
	}
	if row.Size() != 0 {
		t.Errorf("Size() after Get = %d, want 0", row.Size())
	}
	row.Add("present", 1)
	if row.Size() != 1 {
		t.Errorf("Size() after Add = %d, want 1", row.Size())
	}
}

func TestInnerAddWeights(t *testing.T) {
	dst := NewDenseInner(3)
	dst.Set(0, 1)
	dst.Set(2, 2)
	src := NewDenseInner(3)
	src.Set(0, 0.5)
	src.Set(1, 0.5)
	dst.AddWeights(src)
	want := []Weight{1.5, 0.5, 2}
	for i, w := range want {
		if got := dst.Get(i); got != w {
			t.Errorf("Get(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestInnerAddWeightsNil(t *testing.T) {
	dst := NewSparseInner(2)
	dst.Set("x", 1)
	dst.AddWeights(nil)
	dst.AddWeights(NewSparseInner(0))
	if got := dst.Get("x"); got != 1 {
		t.Errorf("Get(x) = %v, want 1", got)
	}
	if dst.Size() != 1 {
		t.Errorf("Size() = %d, want 1", dst.Size())
	}
}

func TestSparseAveragingInnerGetMutMaterializes(t *testing.T) {
	row := NewSparseAveragingInner(4)
	if row.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", row.Size())
	}
	if got := row.Current("absent"); got != 0 {
		t.Errorf("Current(absent) = %v, want 0", got)
	}
	if row.Size() != 0 {
		t.Errorf("Size() after Current = %d, want 0", row.Size())
	}
	w := row.GetMut("first")
	if w == nil {
		t.Fatal("GetMut returned nil")
	}
	if row.Size() != 1 {
		t.Errorf("Size() after GetMut = %d, want 1", row.Size())
	}
	w.Update(2, 0)
	if got := row.Current("first"); got != 2 {
		t.Errorf("Current(first) = %v, want 2", got)
	}
}

func TestDenseAveragingInnerAverage(t *testing.T) {
	row := NewDenseAveragingInner(2)
	row.GetMut(0).Update(1, 0)
	// Index 1 stays at zero throughout.
	avg := row.Average(4)
	if got := avg.Get(0); got != 1 {
		t.Errorf("avg.Get(0) = %v, want 1", got)
	}
	if got := avg.Get(1); got != 0 {
		t.Errorf("avg.Get(1) = %v, want 0", got)
	}
}

func TestSparseAveragingInnerAverageOmitsZeroMeans(t *testing.T) {
	row := NewSparseAveragingInner(4)
	row.GetMut("kept").Update(1, 0)
	row.GetMut("zeroed") // materialized but never moved
	avg := row.Average(2)
	if got := avg.Size(); got != 1 {
		t.Errorf("avg.Size() = %d, want 1", got)
	}
	if got := avg.Get("kept"); got != 1 {
		t.Errorf("avg.Get(kept) = %v, want 1", got)
	}
}

func TestSparseOuterRowAbsent(t *testing.T) {
	outer := NewSparseOuter(4, 3)
	if _, ok := outer.Row("absent"); ok {
		t.Error("Row(absent) ok = true, want false")
	}
	if outer.OuterSize() != 0 {
		t.Errorf("OuterSize() = %d, want 0", outer.OuterSize())
	}
	outer.Set("f", "l", 1)
	row, ok := outer.Row("f")
	if !ok {
		t.Fatal("Row(f) ok = false after Set")
	}
	if got := row.Get("l"); got != 1 {
		t.Errorf("row.Get(l) = %v, want 1", got)
	}
}

func TestSparseDenseAveragingOuterRowMut(t *testing.T) {
	outer := NewSparseDenseAveragingOuter(4, 3)
	row := outer.RowMut("f")
	row.GetMut(1).Update(1, 0)
	if outer.OuterSize() != 1 {
		t.Errorf("OuterSize() = %d, want 1", outer.OuterSize())
	}
	got, ok := outer.Row("f")
	if !ok {
		t.Fatal("Row(f) ok = false after RowMut")
	}
	if v := got.Current(1); v != 1 {
		t.Errorf("Current(1) = %v, want 1", v)
	}
}

func TestSparseAveragingOuterAverageOmitsEmptyRows(t *testing.T) {
	outer := NewSparseAveragingOuter(4, 3)
	outer.RowMut("kept").GetMut("l").Update(2, 0)
	outer.RowMut("empty") // materialized, never moved
	avg := outer.Average(2)
	if got := avg.OuterSize(); got != 1 {
		t.Errorf("avg.OuterSize() = %d, want 1", got)
	}
	row, ok := avg.Row("kept")
	if !ok {
		t.Fatal("avg.Row(kept) ok = false")
	}
	if got := row.Get("l"); got != 2 {
		t.Errorf("row.Get(l) = %v, want 2", got)
	}
}
