// Package convoy implements the candidate filtering and triple matching
// heuristics that locate two-agent convoy scenarios inside a highD recording.
//
// A scenario pairs a convoy head vehicle with the single vehicle that follows
// it for the head's entire observation, plus an unrelated vehicle travelling
// in a different lane whose observation overlaps the convoy for long enough.
// TrackFilter selects eligible tracks, CandidateRule implementations encode
// the per-command head requirements, and Matcher performs the windowed
// nested-loop search.
package convoy
