package perceptron

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shiomiya/percepgo/pkg/errors"
)

func expectLifecyclePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a lifecycle panic")
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
	fn()
}

func TestModelLifecycle(t *testing.T) {
	m, err := NewSparseBinomialModel(8)
	if err != nil {
		t.Fatalf("NewSparseBinomialModel: %v", err)
	}
	if m.Averaged() {
		t.Error("Averaged() = true before Average")
	}
	m.Train([]string{"x"}, true)

	// Write is only legal after Average.
	expectLifecyclePanic(t, func() {
		var buf bytes.Buffer
		_ = m.Write(&buf, "")
	})

	m.Average()
	if !m.Averaged() {
		t.Error("Averaged() = false after Average")
	}

	// Training operations and a second Average are no longer legal.
	expectLifecyclePanic(t, func() { m.Train([]string{"x"}, true) })
	expectLifecyclePanic(t, func() { m.Update([]string{"x"}, true, false) })
	expectLifecyclePanic(t, func() { m.Tick(1) })
	expectLifecyclePanic(t, func() { m.Average() })

	// Predict remains legal in both phases.
	_ = m.Predict([]string{"x"})
}

func TestDenseBinomialModelRoundTrip(t *testing.T) {
	m, err := NewDenseBinomialModel(numColors)
	if err != nil {
		t.Fatalf("NewDenseBinomialModel: %v", err)
	}
	m.Train([]int{green}, true)
	m.Train([]int{blue}, false)
	m.Train([]int{green}, true)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, "colors"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, metadata, err := ReadDenseBinomialModel(&buf)
	if err != nil {
		t.Fatalf("ReadDenseBinomialModel: %v", err)
	}
	if metadata != "colors" {
		t.Errorf("metadata = %q, want %q", metadata, "colors")
	}
	if !got.Averaged() {
		t.Error("Averaged() = false on deserialized model")
	}
	for _, fb := range [][]int{{green}, {blue}, {green, blue}} {
		if want, have := m.Predict(fb), got.Predict(fb); want != have {
			t.Errorf("Predict(%v) = %v after round trip, want %v", fb, have, want)
		}
	}
}

func TestSparseBinomialModelRoundTrip(t *testing.T) {
	m, err := NewSparseBinomialModel(8)
	if err != nil {
		t.Fatalf("NewSparseBinomialModel: %v", err)
	}
	m.Train([]string{"green"}, true)
	m.Train([]string{"blue"}, false)
	m.Train([]string{"green"}, true)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _, err := ReadSparseBinomialModel(&buf)
	if err != nil {
		t.Fatalf("ReadSparseBinomialModel: %v", err)
	}
	for _, fb := range [][]string{{"green"}, {"blue"}, {"green", "blue"}, {"unseen"}} {
		if want, have := m.Predict(fb), got.Predict(fb); want != have {
			t.Errorf("Predict(%v) = %v after round trip, want %v", fb, have, want)
		}
	}
}

func TestDenseMultinomialModelRoundTrip(t *testing.T) {
	m, err := NewDenseMultinomialModel(numColors, numCases)
	if err != nil {
		t.Fatalf("NewDenseMultinomialModel: %v", err)
	}
	m.Train([]int{blue}, mixedCase)
	m.Train([]int{green}, titleCase)
	m.Train([]int{green}, mixedCase)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _, err := ReadDenseMultinomialModel(&buf)
	if err != nil {
		t.Fatalf("ReadDenseMultinomialModel: %v", err)
	}
	for _, fb := range [][]int{{blue}, {green}, {blue, green}} {
		if want, have := m.Predict(fb), got.Predict(fb); want != have {
			t.Errorf("Predict(%v) = %v after round trip, want %v", fb, have, want)
		}
	}
}

func TestSparseDenseMultinomialModelRoundTrip(t *testing.T) {
	m, err := NewSparseDenseMultinomialModel(8, numCases)
	if err != nil {
		t.Fatalf("NewSparseDenseMultinomialModel: %v", err)
	}
	m.Train([]string{"blue"}, mixedCase)
	m.Train([]string{"green"}, titleCase)
	m.Train([]string{"green"}, mixedCase)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, "case model"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, metadata, err := ReadSparseDenseMultinomialModel(&buf)
	if err != nil {
		t.Fatalf("ReadSparseDenseMultinomialModel: %v", err)
	}
	if metadata != "case model" {
		t.Errorf("metadata = %q, want %q", metadata, "case model")
	}
	for _, fb := range [][]string{{"blue"}, {"green"}, {"blue", "green"}} {
		if want, have := m.Predict(fb), got.Predict(fb); want != have {
			t.Errorf("Predict(%v) = %v after round trip, want %v", fb, have, want)
		}
	}
}

func TestSparseMultinomialModelRoundTrip(t *testing.T) {
	m, err := NewSparseMultinomialModel(8, 4)
	if err != nil {
		t.Fatalf("NewSparseMultinomialModel: %v", err)
	}
	m.Train([]string{"blue"}, "lower")
	m.Train([]string{"green"}, "mixed")
	m.Train([]string{"green"}, "lower")
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _, err := ReadSparseMultinomialModel(&buf)
	if err != nil {
		t.Fatalf("ReadSparseMultinomialModel: %v", err)
	}
	for _, fb := range [][]string{{"blue"}, {"green"}, {"blue", "green"}} {
		if want, have := m.Predict(fb), got.Predict(fb); want != have {
			t.Errorf("Predict(%v) = %v after round trip, want %v", fb, have, want)
		}
	}
}

func TestModelKindMismatch(t *testing.T) {
	m, err := NewSparseBinomialModel(8)
	if err != nil {
		t.Fatalf("NewSparseBinomialModel: %v", err)
	}
	m.Train([]string{"x"}, true)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, _, err := ReadDenseBinomialModel(&buf); !errors.Is(err, errors.ErrModelKind) {
		t.Errorf("ReadDenseBinomialModel err = %v, want ErrModelKind", err)
	}
}

func TestModelTruncatedStream(t *testing.T) {
	m, err := NewSparseBinomialModel(8)
	if err != nil {
		t.Fatalf("NewSparseBinomialModel: %v", err)
	}
	m.Train([]string{"x"}, true)
	m.Average()

	var buf bytes.Buffer
	if err := m.Write(&buf, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	if _, _, err := ReadSparseBinomialModel(truncated); err == nil {
		t.Error("ReadSparseBinomialModel on truncated stream err = nil, want error")
	}
}

func TestModelFileRoundTrip(t *testing.T) {
	m, err := NewSparseBinomialModel(8)
	if err != nil {
		t.Fatalf("NewSparseBinomialModel: %v", err)
	}
	m.Train([]string{"green"}, true)
	m.Train([]string{"blue"}, false)
	m.Average()

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := m.WriteFile(path, "file test"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, metadata, err := ReadSparseBinomialModelFile(path)
	if err != nil {
		t.Fatalf("ReadSparseBinomialModelFile: %v", err)
	}
	if metadata != "file test" {
		t.Errorf("metadata = %q, want %q", metadata, "file test")
	}
	if want, have := m.Predict([]string{"green"}), got.Predict([]string{"green"}); want != have {
		t.Errorf("Predict(green) = %v after file round trip, want %v", have, want)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, _, err := ReadSparseBinomialModelFile(filepath.Join(t.TempDir(), "absent.gob")); err == nil {
		t.Error("ReadSparseBinomialModelFile on missing file err = nil, want error")
	}
}
