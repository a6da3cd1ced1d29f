package features_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/features"
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

const testSeriesSubtestNameTemplateConstant = "%d_%s"

func buildScenarioFixture() convoy.Scenario {
	headFrames := []highd.TrackFrame{
		{FrameNumber: 10, PositionX: 0, PositionY: 0, VelocityX: 3, VelocityY: 4, AccelerationX: 0.3, AccelerationY: 0.4, TimeToCollision: 5.0},
		{FrameNumber: 11, PositionX: 3, PositionY: 4, VelocityX: 3, VelocityY: 4, AccelerationX: 0.3, AccelerationY: 0.4, TimeToCollision: 4.5},
	}
	followerFrames := []highd.TrackFrame{
		{FrameNumber: 10, PositionX: 10, PositionY: 0, VelocityX: 6, VelocityY: 8, AccelerationX: 0.6, AccelerationY: 0.8, TimeToCollision: 3.0},
		{FrameNumber: 11, PositionX: 10, PositionY: 1, VelocityX: 6, VelocityY: 8, AccelerationX: 0.6, AccelerationY: 0.8, TimeToCollision: 2.5},
	}
	independentFrames := []highd.TrackFrame{
		{FrameNumber: 10, PositionX: 0, PositionY: 8, VelocityX: -5, VelocityY: 0, AccelerationX: -0.5, AccelerationY: 0, TimeToCollision: -1},
		{FrameNumber: 11, PositionX: -2, PositionY: 8, VelocityX: -5, VelocityY: 0, AccelerationX: -0.5, AccelerationY: 0, TimeToCollision: -1},
	}

	return convoy.Scenario{
		RecordingID:        1,
		HeadTrackID:        1,
		FollowerTrackID:    2,
		IndependentTrackID: 3,
		Window:             convoy.FrameWindow{FirstFrame: 10, LastFrame: 11},
		HeadFrames:         headFrames,
		FollowerFrames:     followerFrames,
		IndependentFrames:  independentFrames,
	}
}

func TestSeriesBuilderColumns(testInstance *testing.T) {
	testCases := []struct {
		name            string
		style           features.Style
		selection       features.Selection
		expectedColumns []string
	}{
		{
			name:            "magnitude_acceleration_only",
			style:           features.StyleMagnitude,
			selection:       features.Selection{},
			expectedColumns: []string{"c0.a", "c1.a", "i0.a"},
		},
		{
			name:      "magnitude_all_kinematic_with_distances_and_ttc",
			style:     features.StyleMagnitude,
			selection: features.Selection{AllKinematic: true, InteragentDistances: true, TimeToCollision: true},
			expectedColumns: []string{
				"c0.a", "c0.v", "c0.p", "c1.a", "c1.v", "c1.p", "i0.a", "i0.v", "i0.p",
				"c0-c1.d", "c0-i0.d", "c1-i0.d",
				"c0.ttc", "c1.ttc", "i0.ttc",
			},
		},
		{
			name:            "longitudinal_leads_with_time_index",
			style:           features.StyleLongitudinal,
			selection:       features.Selection{},
			expectedColumns: []string{"time_index", "c0.a", "c1.a", "i0.a"},
		},
		{
			name:            "longitudinal_velocity_only",
			style:           features.StyleLongitudinal,
			selection:       features.Selection{VelocityOnly: true},
			expectedColumns: []string{"time_index", "c0.v", "c1.v", "i0.v"},
		},
		{
			name:            "velocity_only_ignored_for_magnitude_style",
			style:           features.StyleMagnitude,
			selection:       features.Selection{VelocityOnly: true},
			expectedColumns: []string{"c0.a", "c1.a", "i0.a"},
		},
		{
			name:            "all_kinematic_wins_over_velocity_only",
			style:           features.StyleLongitudinal,
			selection:       features.Selection{VelocityOnly: true, AllKinematic: true},
			expectedColumns: []string{"time_index", "c0.a", "c0.v", "c0.p", "c1.a", "c1.v", "c1.p", "i0.a", "i0.v", "i0.p"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSeriesSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			seriesBuilder := features.SeriesBuilder{Style: testCase.style, Selection: testCase.selection}
			require.Equal(testInstance, testCase.expectedColumns, seriesBuilder.Columns())
		})
	}
}

func TestSeriesBuilderBuildMagnitudeStyle(testInstance *testing.T) {
	seriesBuilder := features.SeriesBuilder{
		Style:     features.StyleMagnitude,
		Selection: features.Selection{AllKinematic: true, InteragentDistances: true, TimeToCollision: true},
	}

	series := seriesBuilder.Build(buildScenarioFixture())
	require.False(testInstance, series.IncludesTimeIndex)
	require.Len(testInstance, series.Rows, 2)

	firstRow := series.Rows[0]
	require.Len(testInstance, firstRow, len(series.Columns))

	// Head acceleration (0.3, 0.4) and velocity (3, 4) magnitudes.
	require.InDelta(testInstance, 0.5, firstRow[0], 1e-9)
	require.InDelta(testInstance, 5.0, firstRow[1], 1e-9)
	// Cumulative distance starts at zero for every agent.
	require.Zero(testInstance, firstRow[2])
	require.Zero(testInstance, firstRow[5])
	require.Zero(testInstance, firstRow[8])
	// Pairwise distances at the first frame.
	require.InDelta(testInstance, 10.0, firstRow[9], 1e-9)
	require.InDelta(testInstance, 8.0, firstRow[10], 1e-9)
	require.InDelta(testInstance, math.Hypot(10, 8), firstRow[11], 1e-9)
	// TTC values copied through.
	require.InDelta(testInstance, 5.0, firstRow[12], 1e-9)
	require.InDelta(testInstance, -1.0, firstRow[14], 1e-9)

	secondRow := series.Rows[1]
	// Head moved from (0,0) to (3,4): distance travelled 5.
	require.InDelta(testInstance, 5.0, secondRow[2], 1e-9)
	// Follower moved one unit along y.
	require.InDelta(testInstance, 1.0, secondRow[5], 1e-9)
	// Independent moved two units along x.
	require.InDelta(testInstance, 2.0, secondRow[8], 1e-9)
}

func TestSeriesBuilderBuildLongitudinalStyle(testInstance *testing.T) {
	seriesBuilder := features.SeriesBuilder{
		Style:     features.StyleLongitudinal,
		Selection: features.Selection{VelocityOnly: true},
	}

	series := seriesBuilder.Build(buildScenarioFixture())
	require.True(testInstance, series.IncludesTimeIndex)
	require.Equal(testInstance, []string{"time_index", "c0.v", "c1.v", "i0.v"}, series.Columns)
	require.Len(testInstance, series.Rows, 2)

	// Longitudinal velocities are raw x components, not magnitudes.
	require.InDelta(testInstance, 3.0, series.Rows[0][0], 1e-9)
	require.InDelta(testInstance, 6.0, series.Rows[0][1], 1e-9)
	require.InDelta(testInstance, -5.0, series.Rows[0][2], 1e-9)
}

func TestSeriesBuilderBuildZipsToShortestSequence(testInstance *testing.T) {
	scenario := buildScenarioFixture()
	scenario.IndependentFrames = scenario.IndependentFrames[:1]

	seriesBuilder := features.SeriesBuilder{Style: features.StyleMagnitude}
	series := seriesBuilder.Build(scenario)
	require.Len(testInstance, series.Rows, 1)
}
