// Package highd reads recordings stored in the highD trajectory dataset
// layout.
//
// A recording consists of a recordingMeta CSV describing the capture, a
// tracksMeta CSV summarizing every observed vehicle track, and a tracks CSV
// holding the per-frame kinematic records grouped contiguously by track
// identifier. DatasetReader parses those files into typed tables while
// preserving the raw rows so downstream exporters can re-emit the original
// columns.
package highd
