// Package log defines standard attribute keys for machine learning operations.
//
// Using these standard keys keeps log output consistent across all training
// and evaluation operations in ClusterGo, which makes structured log
// analysis and filtering possible. The keys follow a hierarchical naming
// convention (e.g., "model.name", "data.samples").

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KMeans", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "cluster", "preprocessing", "metrics"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Training Progress and Performance
// These attributes capture timing and convergence information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the current iteration number during iterative processes.
	// Useful for tracking convergence in iterative algorithms.
	IterationKey = "training.iteration"

	// ConvergedKey records whether an iterative algorithm reached its fixed point
	// within the iteration budget.
	ConvergedKey = "training.converged"

	// InertiaKey records the within-cluster sum of squared distances.
	InertiaKey = "metrics.inertia"

	// EmptyClustersKey records how many centroids ended up with no assigned points.
	EmptyClustersKey = "training.empty_clusters"

	// ClustersKey records the number of clusters (k) configured for training.
	ClustersKey = "training.clusters"

	// WorkersKey records the number of parallel workers used for training.
	WorkersKey = "training.workers"
)
