// Package model provides lifecycle management and persistence for percepgo
// models.
//
// Every model wrapper moves through exactly two phases: Training, in which
// the averaging weights are mutable, and Finalized, in which the averaged
// snapshot is immutable. The transition is irreversible. Phase misuse is a
// programming error and fails fast via panic.
package model

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// Phase is the lifecycle phase of a model.
type Phase int

const (
	// Training is the mutable phase: Train and Average are legal, Write is
	// not.
	Training Phase = iota
	// Finalized is the immutable phase: Predict and Write are legal, Train
	// and Average are not.
	Finalized
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Training:
		return "training"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the phase of a single model instance in a thread-safe
// manner. Reads may be concurrent; the single Finalize transition must not
// race with training, which is the caller's single-writer obligation.
type Lifecycle struct {
	mu    sync.RWMutex
	name  string
	id    string
	phase Phase
}

// NewLifecycle creates a Lifecycle in the Training phase. name identifies
// the model shape in errors and log events.
func NewLifecycle(name string) *Lifecycle {
	return &Lifecycle{name: name, id: uuid.NewString()}
}

// NewFinalizedLifecycle creates a Lifecycle already in the Finalized phase,
// used when a model is constructed by deserialization.
func NewFinalizedLifecycle(name string) *Lifecycle {
	return &Lifecycle{name: name, id: uuid.NewString(), phase: Finalized}
}

// Name returns the model shape name.
func (l *Lifecycle) Name() string { return l.name }

// ID returns the unique identifier of this model instance.
func (l *Lifecycle) ID() string { return l.id }

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// Finalized reports whether the model has been averaged.
func (l *Lifecycle) Finalized() bool {
	return l.Phase() == Finalized
}

// MustTraining panics with a LifecycleError unless the model is in the
// Training phase.
func (l *Lifecycle) MustTraining(op string) {
	if p := l.Phase(); p != Training {
		panic(errors.NewLifecycleError(l.name, op, p.String()))
	}
}

// MustFinalized panics with a LifecycleError unless the model is in the
// Finalized phase.
func (l *Lifecycle) MustFinalized(op string) {
	if p := l.Phase(); p != Finalized {
		panic(errors.NewLifecycleError(l.name, op, p.String()))
	}
}

// Finalize performs the single Training-to-Finalized transition. Calling it
// twice panics.
func (l *Lifecycle) Finalize(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase != Training {
		panic(errors.NewLifecycleError(l.name, op, l.phase.String()))
	}
	l.phase = Finalized
}
