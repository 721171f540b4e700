package sequence

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shiomiya/percepgo/pkg/errors"
)

func trainBinomialSequential(t *testing.T) *SparseBinomialSequentialModel {
	t.Helper()
	m, err := NewSparseBinomialSequentialModel(32, 2)
	if err != nil {
		t.Fatalf("NewSparseBinomialSequentialModel: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := m.Train(segmentationEvectors, segmentationLabels); err != nil {
			t.Fatalf("Train: %v", err)
		}
	}
	return m
}

func TestSequentialModelTrainAndPredict(t *testing.T) {
	m := trainBinomialSequential(t)
	got := m.Predict(segmentationEvectors)
	if !reflect.DeepEqual(got, segmentationLabels) {
		t.Errorf("Predict (training phase) = %v, want %v", got, segmentationLabels)
	}
	m.Average()
	got = m.Predict(segmentationEvectors)
	if !reflect.DeepEqual(got, segmentationLabels) {
		t.Errorf("Predict (finalized) = %v, want %v", got, segmentationLabels)
	}
}

func TestSequentialModelLifecycle(t *testing.T) {
	m := trainBinomialSequential(t)
	m.Average()
	if !m.Averaged() {
		t.Error("Averaged() = false after Average")
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a lifecycle panic from Train after Average")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		var lcErr *errors.LifecycleError
		if !errors.As(err, &lcErr) {
			t.Fatalf("panic error = %v, want LifecycleError", err)
		}
	}()
	_, _ = m.Train(segmentationEvectors, segmentationLabels)
}

func TestSequentialModelRoundTrip(t *testing.T) {
	m := trainBinomialSequential(t)
	m.Average()
	want := m.Predict(segmentationEvectors)

	var buf bytes.Buffer
	if err := m.Write(&buf, "segmenter"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, metadata, err := ReadSparseBinomialSequentialModel(&buf, 2)
	if err != nil {
		t.Fatalf("ReadSparseBinomialSequentialModel: %v", err)
	}
	if metadata != "segmenter" {
		t.Errorf("metadata = %q, want %q", metadata, "segmenter")
	}
	if have := got.Predict(segmentationEvectors); !reflect.DeepEqual(have, want) {
		t.Errorf("Predict after round trip = %v, want %v", have, want)
	}
}

func TestSequentialModelFileRoundTrip(t *testing.T) {
	m := trainBinomialSequential(t)
	m.Average()
	want := m.Predict(segmentationEvectors)

	path := filepath.Join(t.TempDir(), "segmenter.gob")
	if err := m.WriteFile(path, ""); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _, err := ReadSparseBinomialSequentialModelFile(path, 2)
	if err != nil {
		t.Fatalf("ReadSparseBinomialSequentialModelFile: %v", err)
	}
	if have := got.Predict(segmentationEvectors); !reflect.DeepEqual(have, want) {
		t.Errorf("Predict after file round trip = %v, want %v", have, want)
	}
}

func TestMultinomialSequentialModelRoundTrip(t *testing.T) {
	m, err := NewSparseDenseMultinomialSequentialModel(32, 5, 2)
	if err != nil {
		t.Fatalf("NewSparseDenseMultinomialSequentialModel: %v", err)
	}
	ys := []int{2, 0, 0, 0, 4}
	for i := 0; i < 10; i++ {
		if _, err := m.Train(segmentationEvectors, ys); err != nil {
			t.Fatalf("Train: %v", err)
		}
	}
	m.Average()
	want := m.Predict(segmentationEvectors)
	if !reflect.DeepEqual(want, ys) {
		t.Fatalf("Predict = %v, want %v", want, ys)
	}

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _, err := ReadSparseDenseMultinomialSequentialModel(&buf, 2)
	if err != nil {
		t.Fatalf("ReadSparseDenseMultinomialSequentialModel: %v", err)
	}
	if have := got.Predict(segmentationEvectors); !reflect.DeepEqual(have, want) {
		t.Errorf("Predict after round trip = %v, want %v", have, want)
	}
}

func TestSparseMultinomialSequentialModel(t *testing.T) {
	m, err := NewSparseMultinomialSequentialModel(32, 5, 2)
	if err != nil {
		t.Fatalf("NewSparseMultinomialSequentialModel: %v", err)
	}
	ys := []string{"TITLE", "LOWER", "LOWER", "LOWER", "DC"}
	for i := 0; i < 10; i++ {
		if _, err := m.Train(segmentationEvectors, ys); err != nil {
			t.Fatalf("Train: %v", err)
		}
	}
	got := m.Predict(segmentationEvectors)
	if !reflect.DeepEqual(got, ys) {
		t.Errorf("Predict (training phase) = %v, want %v", got, ys)
	}
	m.Average()
	got = m.Predict(segmentationEvectors)
	if !reflect.DeepEqual(got, ys) {
		t.Errorf("Predict (finalized) = %v, want %v", got, ys)
	}
}

func TestSequentialModelInvalidOrder(t *testing.T) {
	if _, err := NewSparseBinomialSequentialModel(8, -1); err == nil {
		t.Error("NewSparseBinomialSequentialModel(order -1) err = nil, want error")
	}
	if _, err := NewSparseMultinomialSequentialModel(8, 5, -2); err == nil {
		t.Error("NewSparseMultinomialSequentialModel(order -2) err = nil, want error")
	}
}
