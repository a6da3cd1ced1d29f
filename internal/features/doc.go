// Package features derives per-frame time series from matched convoy
// scenarios.
//
// A SeriesBuilder turns the three aligned frame sequences of a scenario into
// rows of selected kinematic features: accelerations, velocities, cumulative
// distance travelled, pairwise inter-agent distances, and dataset-provided
// time-to-collision values. Two styles mirror the extraction commands:
// planar magnitudes for stop-and-go scenarios and raw longitudinal values
// with a time index for velocity-variation scenes.
package features
