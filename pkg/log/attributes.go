package log

// Standard attribute keys for training and inference events. Using these
// constants keeps field names consistent across packages, which makes log
// output filterable.
const (
	// ModelKey identifies the model shape (e.g., "SparseBinomialModel").
	ModelKey = "model"

	// ModelIDKey carries the per-instance model identifier.
	ModelIDKey = "model_id"

	// OperationKey identifies the operation emitting the event.
	OperationKey = "operation"

	// EpochKey is the zero-based training epoch.
	EpochKey = "epoch"

	// ExamplesKey is the number of examples seen in the epoch.
	ExamplesKey = "examples"

	// AccuracyKey is the fraction of correct predictions in the epoch.
	AccuracyKey = "accuracy"

	// ClockKey is the model's logical training clock.
	ClockKey = "clock"

	// OrderKey is the transition-feature window size of a sequence model.
	OrderKey = "order"

	// MetadataKey carries free-text metadata on persistence events.
	MetadataKey = "metadata"
)
