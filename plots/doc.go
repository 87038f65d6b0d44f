// Package plots draws the diagnostic charts used while exploring a dataset:
// cross-validation fold layouts, per-feature statistics grids, and
// validation and learning curves.
//
// Every function returns gonum plot values so callers can adjust them before
// writing with Save or SaveGrid.
package plots
