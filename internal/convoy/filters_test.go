package convoy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

const (
	testFrameRateConstant            = 25.0
	testMinimumWindowSecondsConstant = 10.0
	testSubtestNameTemplateConstant  = "%d_%s"
)

func buildMetadataTable(trackMetadataEntries ...highd.TrackMetadata) highd.TrackMetadataTable {
	metadataTable := highd.TrackMetadataTable{Tracks: map[int]highd.TrackMetadata{}}
	for _, trackMetadata := range trackMetadataEntries {
		metadataTable.TrackIDs = append(metadataTable.TrackIDs, trackMetadata.TrackID)
		metadataTable.Tracks[trackMetadata.TrackID] = trackMetadata
	}
	return metadataTable
}

func TestTrackFilterPartition(testInstance *testing.T) {
	longObservationFrameCount := int(testFrameRateConstant*testMinimumWindowSecondsConstant) + 1

	testCases := []struct {
		name            string
		trackMetadata   highd.TrackMetadata
		candidateRule   convoy.CandidateRule
		expectValid     bool
		expectCandidate bool
	}{
		{
			name: "lane_change_rejects_track",
			trackMetadata: highd.TrackMetadata{
				TrackID:         1,
				FrameCount:      longObservationFrameCount,
				LaneChangeCount: 1,
			},
			candidateRule: convoy.StopAndGoRule{StationaryVelocityMax: 0.5, MovingVelocityMin: 5.0},
		},
		{
			name: "short_observation_rejects_track",
			trackMetadata: highd.TrackMetadata{
				TrackID:    1,
				FrameCount: int(testFrameRateConstant * testMinimumWindowSecondsConstant / 2),
			},
			candidateRule: convoy.StopAndGoRule{StationaryVelocityMax: 0.5, MovingVelocityMin: 5.0},
		},
		{
			name: "stop_and_go_track_is_candidate",
			trackMetadata: highd.TrackMetadata{
				TrackID:      1,
				FrameCount:   longObservationFrameCount,
				MinXVelocity: 0.2,
				MaxXVelocity: 8.0,
			},
			candidateRule:   convoy.StopAndGoRule{StationaryVelocityMax: 0.5, MovingVelocityMin: 5.0},
			expectValid:     true,
			expectCandidate: true,
		},
		{
			name: "steady_track_is_valid_but_not_candidate",
			trackMetadata: highd.TrackMetadata{
				TrackID:      1,
				FrameCount:   longObservationFrameCount,
				MinXVelocity: 7.5,
				MaxXVelocity: 8.0,
			},
			candidateRule: convoy.StopAndGoRule{StationaryVelocityMax: 0.5, MovingVelocityMin: 5.0},
			expectValid:   true,
		},
		{
			name: "velocity_variation_track_is_candidate",
			trackMetadata: highd.TrackMetadata{
				TrackID:      1,
				FrameCount:   longObservationFrameCount,
				MinXVelocity: 6.0,
				MaxXVelocity: 10.0,
			},
			candidateRule:   convoy.VelocityVariationRule{VariationRatioMin: 0.2},
			expectValid:     true,
			expectCandidate: true,
		},
		{
			name: "small_velocity_variation_is_not_candidate",
			trackMetadata: highd.TrackMetadata{
				TrackID:      1,
				FrameCount:   longObservationFrameCount,
				MinXVelocity: 9.5,
				MaxXVelocity: 10.0,
			},
			candidateRule: convoy.VelocityVariationRule{VariationRatioMin: 0.2},
			expectValid:   true,
		},
		{
			name: "zero_peak_velocity_is_not_candidate",
			trackMetadata: highd.TrackMetadata{
				TrackID:      1,
				FrameCount:   longObservationFrameCount,
				MinXVelocity: 0,
				MaxXVelocity: 0,
			},
			candidateRule: convoy.VelocityVariationRule{VariationRatioMin: 0.2},
			expectValid:   true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			trackFilter := convoy.TrackFilter{
				MinimumWindowSeconds: testMinimumWindowSecondsConstant,
				CandidateRule:        testCase.candidateRule,
			}

			filterResult := trackFilter.Partition(buildMetadataTable(testCase.trackMetadata), testFrameRateConstant)

			require.Equal(testInstance, testCase.expectValid, filterResult.IsValid(testCase.trackMetadata.TrackID))
			require.Equal(testInstance, testCase.expectCandidate, filterResult.IsCandidate(testCase.trackMetadata.TrackID))
		})
	}
}

func TestTrackFilterPartitionPreservesFileOrder(testInstance *testing.T) {
	longObservationFrameCount := int(testFrameRateConstant*testMinimumWindowSecondsConstant) + 1

	metadataTable := buildMetadataTable(
		highd.TrackMetadata{TrackID: 7, FrameCount: longObservationFrameCount, MinXVelocity: 0.1, MaxXVelocity: 9.0},
		highd.TrackMetadata{TrackID: 3, FrameCount: longObservationFrameCount, MinXVelocity: 8.0, MaxXVelocity: 9.0},
		highd.TrackMetadata{TrackID: 5, FrameCount: longObservationFrameCount, MinXVelocity: 0.2, MaxXVelocity: 7.0},
	)

	trackFilter := convoy.TrackFilter{
		MinimumWindowSeconds: testMinimumWindowSecondsConstant,
		CandidateRule:        convoy.StopAndGoRule{StationaryVelocityMax: 0.5, MovingVelocityMin: 5.0},
	}

	filterResult := trackFilter.Partition(metadataTable, testFrameRateConstant)

	require.Equal(testInstance, []int{7, 3, 5}, filterResult.ValidTrackIDs)
	require.Equal(testInstance, []int{7, 5}, filterResult.CandidateTrackIDs)
}
