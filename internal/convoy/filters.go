package convoy

import (
	"math"

	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

// CandidateRule decides whether a valid track qualifies as a convoy head candidate.
type CandidateRule interface {
	QualifiesAsCandidate(trackMetadata highd.TrackMetadata) bool
}

// StopAndGoRule selects tracks that come close to a standstill and also reach
// free-flowing speed, the signature of stop-and-go convoy motion.
type StopAndGoRule struct {
	StationaryVelocityMax float64
	MovingVelocityMin     float64
}

// QualifiesAsCandidate implements CandidateRule.
func (rule StopAndGoRule) QualifiesAsCandidate(trackMetadata highd.TrackMetadata) bool {
	return trackMetadata.MinXVelocity <= rule.StationaryVelocityMax &&
		trackMetadata.MaxXVelocity >= rule.MovingVelocityMin
}

// VelocityVariationRule selects tracks whose longitudinal velocity varies by a
// minimum proportion of its peak magnitude.
type VelocityVariationRule struct {
	VariationRatioMin float64
}

// QualifiesAsCandidate implements CandidateRule.
func (rule VelocityVariationRule) QualifiesAsCandidate(trackMetadata highd.TrackMetadata) bool {
	peakVelocityMagnitude := math.Abs(trackMetadata.MaxXVelocity)
	if peakVelocityMagnitude == 0 {
		return false
	}
	velocityVariation := math.Abs(trackMetadata.MaxXVelocity - trackMetadata.MinXVelocity)
	return velocityVariation/peakVelocityMagnitude >= rule.VariationRatioMin
}

// TrackFilter partitions a recording's tracks into valid tracks and convoy candidates.
type TrackFilter struct {
	MinimumWindowSeconds float64
	CandidateRule        CandidateRule
}

// FilterResult lists eligible track identifiers in tracksMeta file order.
type FilterResult struct {
	ValidTrackIDs     []int
	CandidateTrackIDs []int
	validTrackSet     map[int]struct{}
	candidateTrackSet map[int]struct{}
}

// IsValid reports whether a track passed the validity filter.
func (result FilterResult) IsValid(trackID int) bool {
	_, trackIsValid := result.validTrackSet[trackID]
	return trackIsValid
}

// IsCandidate reports whether a track passed the convoy candidate rule.
func (result FilterResult) IsCandidate(trackID int) bool {
	_, trackIsCandidate := result.candidateTrackSet[trackID]
	return trackIsCandidate
}

// Partition applies the validity and candidate rules to every track of a recording.
//
// A valid track never changes lanes and is observed for at least the minimum
// window. Candidates are the valid tracks accepted by the configured rule.
func (filter TrackFilter) Partition(metadataTable highd.TrackMetadataTable, frameRate float64) FilterResult {
	result := FilterResult{
		validTrackSet:     map[int]struct{}{},
		candidateTrackSet: map[int]struct{}{},
	}

	for _, trackID := range metadataTable.TrackIDs {
		trackMetadata := metadataTable.Tracks[trackID]

		if trackMetadata.LaneChangeCount != 0 {
			continue
		}
		if float64(trackMetadata.FrameCount)/frameRate < filter.MinimumWindowSeconds {
			continue
		}

		result.ValidTrackIDs = append(result.ValidTrackIDs, trackID)
		result.validTrackSet[trackID] = struct{}{}

		if filter.CandidateRule != nil && filter.CandidateRule.QualifiesAsCandidate(trackMetadata) {
			result.CandidateTrackIDs = append(result.CandidateTrackIDs, trackID)
			result.candidateTrackSet[trackID] = struct{}{}
		}
	}

	return result
}
