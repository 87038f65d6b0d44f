// Package edakit collects the helpers used while exploring tabular datasets:
// storing train/test splits, keeping a summary of what each exploration
// found, drawing diagnostic plots and logging manual experiment runs.
//
// # Quick Start
//
//	store := dataset.NewStore(config.DataDir)
//	ds, err := store.Load("wine")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary := eda.NewStore(filepath.Join(config.ResultsDir, "edas.csv"))
//	e, err := eda.New("wine", summary)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := eda.Profile(ds.XTrain, &ds.YTrain)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := e.ApplyProfile(p); err != nil {
//	    log.Fatal(err)
//	}
//	if err := e.Save(false); err != nil {
//	    log.Fatal(err)
//	}
//
// # Packages
//
//   - core/config: directory layout and runtime settings
//   - core/parallel: per-column work split across CPU cores
//   - dataset: CSV storage of train/test splits
//   - eda: the summary table and dataset profiling
//   - crossval: KFold and StratifiedKFold splitters
//   - plots: fold layouts, feature statistics, validation and learning curves
//   - display: hardware report and text/HTML tables
//   - experiment: append-only experiment logs and terminal prompts
//   - pkg/errors: structured errors and warnings
//   - pkg/log: structured logging
//
// The edakit command in cmd/edakit exposes the same operations from a
// terminal.
package edakit
