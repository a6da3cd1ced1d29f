// Package extraction orchestrates convoy scenario extraction runs and exposes
// the scenarios and scenes Cobra commands.
//
// A Service ties the highd dataset reader, the convoy filters and matcher,
// the feature series builder, and the export writers into one pipeline, with
// the matching thresholds supplied through CommandConfiguration.
package extraction
