// Package export writes matched convoy scenarios to disk.
//
// It produces the per-scenario time-series CSV, the JSON scene metadata
// document, and the trimmed recording export that reduces a full highD
// recording to the tracks overlapping a scenario window.
package export
