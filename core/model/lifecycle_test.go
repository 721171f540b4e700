package model

import (
	"testing"

	"github.com/shiomiya/percepgo/pkg/errors"
)

func expectLifecyclePanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %T", r)
		}
		var lerr *errors.LifecycleError
		if !errors.As(err, &lerr) {
			t.Fatalf("expected LifecycleError, got %v", err)
		}
	}()
	fn()
}

func TestLifecyclePhases(t *testing.T) {
	lc := NewLifecycle("TestModel")

	if lc.Phase() != Training {
		t.Errorf("new lifecycle should be training, got %v", lc.Phase())
	}
	if lc.Finalized() {
		t.Error("new lifecycle should not be finalized")
	}
	if lc.ID() == "" {
		t.Error("lifecycle should carry an instance ID")
	}

	lc.MustTraining("Train") // must not panic
	lc.Finalize("Average")

	if !lc.Finalized() {
		t.Error("lifecycle should be finalized after Finalize")
	}
	lc.MustFinalized("Write") // must not panic
}

func TestLifecycleTrainAfterFinalizePanics(t *testing.T) {
	lc := NewLifecycle("TestModel")
	lc.Finalize("Average")
	expectLifecyclePanic(t, func() { lc.MustTraining("Train") })
}

func TestLifecycleDoubleFinalizePanics(t *testing.T) {
	lc := NewLifecycle("TestModel")
	lc.Finalize("Average")
	expectLifecyclePanic(t, func() { lc.Finalize("Average") })
}

func TestLifecycleWriteBeforeFinalizePanics(t *testing.T) {
	lc := NewLifecycle("TestModel")
	expectLifecyclePanic(t, func() { lc.MustFinalized("Write") })
}

func TestFinalizedLifecycle(t *testing.T) {
	lc := NewFinalizedLifecycle("TestModel")
	if !lc.Finalized() {
		t.Error("deserialized lifecycle should be finalized")
	}
	expectLifecyclePanic(t, func() { lc.MustTraining("Train") })
}

func TestPhaseString(t *testing.T) {
	if Training.String() != "training" || Finalized.String() != "finalized" {
		t.Errorf("unexpected phase names: %q, %q", Training, Finalized)
	}
}
