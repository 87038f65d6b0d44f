// Package log defines standard attribute keys for EDA operations.
//
// Keys follow a hierarchical naming convention (e.g. "dataset.name",
// "data.samples") so that log lines from the dataset store, the EDA summary
// table and experiment runs can be filtered the same way.

package log

// Subject identifiers.
const (
	// DatasetKey names the dataset being loaded, saved or profiled.
	DatasetKey = "dataset.name"

	// EDAKey names the EDA summary entry being read or updated.
	EDAKey = "eda.name"

	// ExperimentKey names the experiment whose log is being written.
	ExperimentKey = "experiment.name"

	// RunIDKey carries the unique id of an experiment run.
	RunIDKey = "experiment.run_id"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "eda", "plots", "display", "experiment"
	ComponentKey = "component"

	// OperationKey specifies the operation being performed.
	OperationKey = "operation"
)

// Data shape.
const (
	// SamplesKey indicates the number of rows.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns.
	FeaturesKey = "data.features"

	// SplitKey names a dataset split ("Xtrain", "ytest", ...).
	SplitKey = "data.split"
)

// Files and parameters.
const (
	// FilePathKey records the file read or written.
	FilePathKey = "file.path"

	// ParamKey names a summary column.
	ParamKey = "eda.param"

	// ValueKey carries a summary value.
	ValueKey = "eda.value"

	// FoldsKey records the number of cross-validation folds.
	FoldsKey = "cv.folds"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard operation values.
const (
	OperationLoad    = "load"
	OperationSave    = "save"
	OperationUpdate  = "update"
	OperationProfile = "profile"
	OperationPlot    = "plot"
	OperationLog     = "log"
)
