package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	logger.Info("epoch complete", EpochKey, 3, AccuracyKey, 0.875)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["message"] != "epoch complete" {
		t.Errorf("expected message, got %v", record["message"])
	}
	if record[EpochKey] != float64(3) {
		t.Errorf("expected epoch 3, got %v", record[EpochKey])
	}
	if record[AccuracyKey] != 0.875 {
		t.Errorf("expected accuracy 0.875, got %v", record[AccuracyKey])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.WarnLevel)

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("sub-threshold events should not be emitted")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Error("warn event missing")
	}
}

func TestWithAddsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel).With(ModelKey, "SparseBinomialModel")

	logger.Info("training started")

	if !strings.Contains(buf.String(), "SparseBinomialModel") {
		t.Errorf("context field missing from %s", buf.String())
	}
}

func TestNopIsSilent(t *testing.T) {
	// Must not panic and must not write anywhere.
	logger := Nop()
	logger.Info("nothing", "k", "v")
	logger.Error("nothing", "k", 1)
}

func TestOddFieldsIgnored(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	logger.Info("msg", "key_without_value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, ok := record["key_without_value"]; ok {
		t.Error("dangling key should be dropped")
	}
}
