package convoy

import (
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

// FrameWindow is an inclusive frame-number interval shared by matched tracks.
type FrameWindow struct {
	FirstFrame int
	LastFrame  int
}

// DurationSeconds converts the window span into seconds at the recording frame rate.
func (window FrameWindow) DurationSeconds(frameRate float64) float64 {
	return float64(window.LastFrame-window.FirstFrame) / frameRate
}

// Contains reports whether a frame number falls inside the window.
func (window FrameWindow) Contains(frameNumber int) bool {
	return frameNumber >= window.FirstFrame && frameNumber <= window.LastFrame
}

// Narrow clamps the window to a track's observation interval.
func (window FrameWindow) Narrow(initialFrame int, finalFrame int) FrameWindow {
	narrowed := window
	if initialFrame > narrowed.FirstFrame {
		narrowed.FirstFrame = initialFrame
	}
	if finalFrame < narrowed.LastFrame {
		narrowed.LastFrame = finalFrame
	}
	return narrowed
}

// Scenario is a matched head, follower, and independent triple within a recording.
type Scenario struct {
	RecordingID        int
	HeadTrackID        int
	FollowerTrackID    int
	IndependentTrackID int
	Window             FrameWindow
	HeadFrames         []highd.TrackFrame
	FollowerFrames     []highd.TrackFrame
	IndependentFrames  []highd.TrackFrame
}

// MatchReport tallies the per-recording matching outcomes.
type MatchReport struct {
	ValidTrackCount       int
	CandidateTrackCount   int
	SuccessCount          int
	NoFollowerCount       int
	FollowerRejectedCount int
	WindowTooShortCount   int
	NoIndependentCount    int
}
