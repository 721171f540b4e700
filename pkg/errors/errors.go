// Package errors provides the error types used across percepgo.
//
// Errors fall into three families, mirroring the contract of the classifier
// engine: construction errors (returned by constructors), lifecycle
// violations (programming errors, raised via panic by the model wrappers),
// and persistence errors (returned, recoverable at the call site). All typed
// errors carry stack traces via cockroachdb/errors and marshal themselves
// into zerolog events for structured logging.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ValidationError reports an invalid constructor or option argument, such as
// a zero feature-space size or a multinomial label count of two or fewer.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("percepgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// LifecycleError reports a model operation invoked in the wrong lifecycle
// state: Train after Average, Average twice, or Write before Average. These
// are programming errors, so the model wrappers panic with this value rather
// than returning it.
type LifecycleError struct {
	Model string
	Op    string
	State string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("percepgo: %s: %s is not legal in the %s state", e.Model, e.Op, e.State)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *LifecycleError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("op", e.Op).
		Str("state", e.State).
		Str("type", "LifecycleError")
}

// NewLifecycleError creates a new LifecycleError with a stack trace.
func NewLifecycleError(model, op, state string) error {
	err := &LifecycleError{Model: model, Op: op, State: state}
	return errors.WithStack(err)
}

// DimensionError reports mismatched input lengths, such as a label sequence
// whose length differs from the emission-vector sequence.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("percepgo: %s: length mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ModelError is a general model error, used chiefly to wrap persistence
// failures. A deserialization failure is always surfaced through this type
// and never as a partially constructed model.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("percepgo: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("percepgo: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ModelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Str("type", "ModelError")
	if e.Err != nil {
		event.AnErr("cause", e.Err)
	}
}

// NewModelError creates a new ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ConvergenceWarning reports that training did not reach zero errors within
// the allotted number of epochs. It is logged, not returned.
type ConvergenceWarning struct {
	Model  string
	Epochs int
	Errors int
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge after %d epochs (%d residual errors). Consider increasing the epoch count.", w.Model, w.Epochs, w.Errors)
}

// MarshalZerologObject adds structured warning information to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", w.Model).
		Int("epochs", w.Epochs).
		Int("errors", w.Errors).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(model string, epochs, errs int) *ConvergenceWarning {
	return &ConvergenceWarning{Model: model, Epochs: epochs, Errors: errs}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// Common error values.
var (
	// ErrEmptyData is returned when an empty data set is passed to a fit
	// helper.
	ErrEmptyData = New("empty data")

	// ErrTruncatedModel is returned when a persisted model stream ends
	// before the payload is complete.
	ErrTruncatedModel = New("truncated model stream")

	// ErrModelKind is returned when a persisted stream holds a different
	// model shape than the one requested.
	ErrModelKind = New("model kind mismatch")
)
