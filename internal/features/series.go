package features

import (
	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

// TimeIndexColumnName is the leading column emitted by the longitudinal style.
const TimeIndexColumnName = "time_index"

const (
	headAgentLabelConstant        = "c0"
	followerAgentLabelConstant    = "c1"
	independentAgentLabelConstant = "i0"

	accelerationColumnSuffixConstant       = ".a"
	velocityColumnSuffixConstant           = ".v"
	distanceTravelledColumnSuffixConstant  = ".p"
	timeToCollisionColumnSuffixConstant    = ".ttc"
	interagentDistanceColumnSuffixConstant = ".d"
	agentPairSeparatorConstant             = "-"

	agentCountConstant = 3
)

var agentLabels = [agentCountConstant]string{
	headAgentLabelConstant,
	followerAgentLabelConstant,
	independentAgentLabelConstant,
}

// Selection controls which derived feature columns a series carries.
type Selection struct {
	VelocityOnly        bool
	AllKinematic        bool
	InteragentDistances bool
	TimeToCollision     bool
}

// Style selects how scalar kinematic features are derived from the frames.
type Style int

// Supported series styles.
const (
	// StyleMagnitude derives accelerations and velocities as planar Euclidean norms.
	StyleMagnitude Style = iota
	// StyleLongitudinal uses raw longitudinal components and leads rows with a time index.
	StyleLongitudinal
)

// Series is a derived feature table with one row per aligned scenario frame.
//
// Rows hold the feature values only; when IncludesTimeIndex is set, exporters
// emit the 0-based row position as the leading time_index column.
type Series struct {
	Columns           []string
	IncludesTimeIndex bool
	Rows              [][]float64
}

// SeriesBuilder derives feature series from matched scenarios.
type SeriesBuilder struct {
	Style     Style
	Selection Selection
}

// Columns returns the column names the builder emits, in output order.
func (builder SeriesBuilder) Columns() []string {
	var columns []string

	if builder.Style == StyleLongitudinal {
		columns = append(columns, TimeIndexColumnName)
	}

	for _, agentLabel := range agentLabels {
		switch {
		case builder.Selection.AllKinematic:
			columns = append(columns,
				agentLabel+accelerationColumnSuffixConstant,
				agentLabel+velocityColumnSuffixConstant,
				agentLabel+distanceTravelledColumnSuffixConstant,
			)
		case builder.velocityOnlySelected():
			columns = append(columns, agentLabel+velocityColumnSuffixConstant)
		default:
			columns = append(columns, agentLabel+accelerationColumnSuffixConstant)
		}
	}

	if builder.Selection.InteragentDistances {
		columns = append(columns,
			agentPairColumnName(headAgentLabelConstant, followerAgentLabelConstant),
			agentPairColumnName(headAgentLabelConstant, independentAgentLabelConstant),
			agentPairColumnName(followerAgentLabelConstant, independentAgentLabelConstant),
		)
	}

	if builder.Selection.TimeToCollision {
		for _, agentLabel := range agentLabels {
			columns = append(columns, agentLabel+timeToCollisionColumnSuffixConstant)
		}
	}

	return columns
}

// Build derives the feature rows for a scenario's aligned frame sequences.
func (builder SeriesBuilder) Build(scenario convoy.Scenario) Series {
	series := Series{
		Columns:           builder.Columns(),
		IncludesTimeIndex: builder.Style == StyleLongitudinal,
	}

	agentFrameSequences := [agentCountConstant][]highd.TrackFrame{
		scenario.HeadFrames,
		scenario.FollowerFrames,
		scenario.IndependentFrames,
	}

	rowCount := len(agentFrameSequences[0])
	for _, frameSequence := range agentFrameSequences[1:] {
		if len(frameSequence) < rowCount {
			rowCount = len(frameSequence)
		}
	}

	var distanceTravelled [agentCountConstant]float64
	var previousPositions [agentCountConstant]Vector2

	for rowIndex := 0; rowIndex < rowCount; rowIndex++ {
		var agentFrames [agentCountConstant]highd.TrackFrame
		var agentPositions [agentCountConstant]Vector2
		for agentIndex := range agentFrameSequences {
			agentFrames[agentIndex] = agentFrameSequences[agentIndex][rowIndex]
			agentPositions[agentIndex] = Vector2{
				X: agentFrames[agentIndex].PositionX,
				Y: agentFrames[agentIndex].PositionY,
			}
		}

		if rowIndex > 0 {
			for agentIndex := range distanceTravelled {
				distanceTravelled[agentIndex] += previousPositions[agentIndex].DistanceTo(agentPositions[agentIndex])
			}
		}

		row := make([]float64, 0, len(series.Columns))
		for agentIndex := range agentFrames {
			switch {
			case builder.Selection.AllKinematic:
				row = append(row,
					builder.scalarAcceleration(agentFrames[agentIndex]),
					builder.scalarVelocity(agentFrames[agentIndex]),
					distanceTravelled[agentIndex],
				)
			case builder.velocityOnlySelected():
				row = append(row, builder.scalarVelocity(agentFrames[agentIndex]))
			default:
				row = append(row, builder.scalarAcceleration(agentFrames[agentIndex]))
			}
		}

		if builder.Selection.InteragentDistances {
			row = append(row,
				agentPositions[0].DistanceTo(agentPositions[1]),
				agentPositions[0].DistanceTo(agentPositions[2]),
				agentPositions[1].DistanceTo(agentPositions[2]),
			)
		}

		if builder.Selection.TimeToCollision {
			for agentIndex := range agentFrames {
				row = append(row, agentFrames[agentIndex].TimeToCollision)
			}
		}

		series.Rows = append(series.Rows, row)
		previousPositions = agentPositions
	}

	return series
}

func (builder SeriesBuilder) velocityOnlySelected() bool {
	return builder.Selection.VelocityOnly && builder.Style == StyleLongitudinal
}

func (builder SeriesBuilder) scalarAcceleration(frame highd.TrackFrame) float64 {
	if builder.Style == StyleMagnitude {
		return Vector2{X: frame.AccelerationX, Y: frame.AccelerationY}.Norm()
	}
	return frame.AccelerationX
}

func (builder SeriesBuilder) scalarVelocity(frame highd.TrackFrame) float64 {
	if builder.Style == StyleMagnitude {
		return Vector2{X: frame.VelocityX, Y: frame.VelocityY}.Norm()
	}
	return frame.VelocityX
}

func agentPairColumnName(firstAgentLabel string, secondAgentLabel string) string {
	return firstAgentLabel + agentPairSeparatorConstant + secondAgentLabel + interagentDistanceColumnSuffixConstant
}
