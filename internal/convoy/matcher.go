package convoy

import (
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

// FollowerRequirement selects which filter a candidate's follower must pass.
type FollowerRequirement int

// Supported follower requirements.
const (
	// FollowerMustBeValid accepts any valid track as the convoy tail.
	FollowerMustBeValid FollowerRequirement = iota
	// FollowerMustBeCandidate additionally requires the tail to pass the candidate rule.
	FollowerMustBeCandidate
)

// Matcher locates head, follower, and independent triples within one recording.
type Matcher struct {
	MinimumWindowSeconds float64
	FollowerRequirement  FollowerRequirement
}

// MatchScenarios runs the nested-loop triple search over the filtered tracks.
//
// Candidates are visited in tracksMeta order. Each match consumes all three
// track identifiers, keeping later independent searches away from tracks that
// already belong to a scenario.
func (matcher Matcher) MatchScenarios(
	recordingMetadata highd.RecordingMetadata,
	filterResult FilterResult,
	metadataTable highd.TrackMetadataTable,
	frameTable highd.TrackFrameTable,
) ([]Scenario, MatchReport) {
	report := MatchReport{
		ValidTrackCount:     len(filterResult.ValidTrackIDs),
		CandidateTrackCount: len(filterResult.CandidateTrackIDs),
	}

	var scenarios []Scenario
	usedTracks := map[int]struct{}{}

	for _, headTrackID := range filterResult.CandidateTrackIDs {
		headFrames, headFramesAvailable := frameTable.FramesForTrack(headTrackID)
		if !headFramesAvailable {
			report.NoFollowerCount++
			continue
		}

		headLaneID, followerTrackID, followerConsistent := resolveFollower(headFrames)
		if !followerConsistent || followerTrackID == 0 {
			report.NoFollowerCount++
			continue
		}

		if !matcher.followerAccepted(filterResult, followerTrackID) {
			report.FollowerRejectedCount++
			continue
		}

		headMetadata := metadataTable.Tracks[headTrackID]
		followerMetadata, followerMetadataAvailable := metadataTable.Metadata(followerTrackID)
		if !followerMetadataAvailable {
			report.FollowerRejectedCount++
			continue
		}

		followerFrames, followerFramesAvailable := frameTable.FramesForTrack(followerTrackID)
		if !followerFramesAvailable {
			report.FollowerRejectedCount++
			continue
		}

		convoyWindow := FrameWindow{FirstFrame: headMetadata.InitialFrame, LastFrame: headMetadata.FinalFrame}.
			Narrow(followerMetadata.InitialFrame, followerMetadata.FinalFrame)
		if convoyWindow.DurationSeconds(recordingMetadata.FrameRate) < matcher.MinimumWindowSeconds {
			report.WindowTooShortCount++
			continue
		}

		scenario, independentFound := matcher.findIndependent(
			recordingMetadata,
			filterResult,
			metadataTable,
			frameTable,
			usedTracks,
			headTrackID,
			headLaneID,
			headFrames,
			followerTrackID,
			followerFrames,
			convoyWindow,
		)
		if !independentFound {
			report.NoIndependentCount++
			continue
		}

		report.SuccessCount++
		scenarios = append(scenarios, scenario)

		usedTracks[scenario.HeadTrackID] = struct{}{}
		usedTracks[scenario.FollowerTrackID] = struct{}{}
		usedTracks[scenario.IndependentTrackID] = struct{}{}
	}

	return scenarios, report
}

func (matcher Matcher) followerAccepted(filterResult FilterResult, followerTrackID int) bool {
	switch matcher.FollowerRequirement {
	case FollowerMustBeCandidate:
		return filterResult.IsCandidate(followerTrackID)
	default:
		return filterResult.IsValid(followerTrackID)
	}
}

func (matcher Matcher) findIndependent(
	recordingMetadata highd.RecordingMetadata,
	filterResult FilterResult,
	metadataTable highd.TrackMetadataTable,
	frameTable highd.TrackFrameTable,
	usedTracks map[int]struct{},
	headTrackID int,
	headLaneID int,
	headFrames []highd.TrackFrame,
	followerTrackID int,
	followerFrames []highd.TrackFrame,
	convoyWindow FrameWindow,
) (Scenario, bool) {
	for _, independentTrackID := range filterResult.ValidTrackIDs {
		if _, trackAlreadyUsed := usedTracks[independentTrackID]; trackAlreadyUsed {
			continue
		}

		independentMetadata := metadataTable.Tracks[independentTrackID]
		independentFrames, independentFramesAvailable := frameTable.FramesForTrack(independentTrackID)
		if !independentFramesAvailable {
			continue
		}

		narrowedWindow := convoyWindow.Narrow(independentMetadata.InitialFrame, independentMetadata.FinalFrame)
		if narrowedWindow.DurationSeconds(recordingMetadata.FrameRate) < matcher.MinimumWindowSeconds {
			continue
		}

		if independentFrames[0].LaneID == headLaneID {
			continue
		}

		scenario := Scenario{
			RecordingID:        recordingMetadata.RecordingID,
			HeadTrackID:        headTrackID,
			FollowerTrackID:    followerTrackID,
			IndependentTrackID: independentTrackID,
			Window:             narrowedWindow,
			HeadFrames:         trimFramesToWindow(headFrames, narrowedWindow),
			FollowerFrames:     trimFramesToWindow(followerFrames, narrowedWindow),
			IndependentFrames:  trimFramesToWindow(independentFrames, narrowedWindow),
		}
		return scenario, true
	}

	return Scenario{}, false
}

// resolveFollower scans a head track's frames for a single consistent follower.
//
// The head lane is read from the frames preceding and including the first
// follower observation; a later frame reporting a different follower id
// invalidates the candidate.
func resolveFollower(headFrames []highd.TrackFrame) (headLaneID int, followerTrackID int, followerConsistent bool) {
	for _, frame := range headFrames {
		if followerTrackID == 0 {
			headLaneID = frame.LaneID
			if frame.FollowingID > 0 {
				followerTrackID = frame.FollowingID
			}
			continue
		}

		if frame.FollowingID > 0 && frame.FollowingID != followerTrackID {
			return headLaneID, 0, false
		}
	}

	return headLaneID, followerTrackID, true
}

func trimFramesToWindow(frames []highd.TrackFrame, window FrameWindow) []highd.TrackFrame {
	trimmedFrames := make([]highd.TrackFrame, 0, len(frames))
	for _, frame := range frames {
		if window.Contains(frame.FrameNumber) {
			trimmedFrames = append(trimmedFrames, frame)
		}
	}
	return trimmedFrames
}
