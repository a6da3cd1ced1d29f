package extraction_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fixtureFrameRateConstant  = 25
	fixtureLastFrameConstant  = 500
	fixtureHeadTrackConstant  = 1
	fixtureTailTrackConstant  = 2
	fixtureOtherTrackConstant = 3

	fixtureScenarioBaseNameConstant = "scene-1-2_follows_1-3_independent"
)

// writeRecordingFixture builds a single-recording dataset holding one
// matchable triple: track 1 is followed by track 2 in lane 2 while track 3
// travels the full observation in lane 3.
func writeRecordingFixture(testInstance *testing.T, datasetDirectory string) {
	testInstance.Helper()

	writeFixtureFile(testInstance, datasetDirectory, "1_recordingMeta.csv",
		fmt.Sprintf("id,frameRate\n1,%d\n", fixtureFrameRateConstant))

	tracksMetaBuilder := strings.Builder{}
	tracksMetaBuilder.WriteString("id,initialFrame,finalFrame,numFrames,numLaneChanges,minXVelocity,maxXVelocity\n")
	tracksMetaBuilder.WriteString("1,0,500,501,0,0.2,8.0\n")
	tracksMetaBuilder.WriteString("2,0,500,501,0,0.3,7.0\n")
	tracksMetaBuilder.WriteString("3,0,500,501,0,6.0,6.5\n")
	writeFixtureFile(testInstance, datasetDirectory, "1_tracksMeta.csv", tracksMetaBuilder.String())

	tracksBuilder := strings.Builder{}
	tracksBuilder.WriteString("frame,id,x,y,xVelocity,yVelocity,xAcceleration,yAcceleration,laneId,followingId,ttc\n")
	appendTrackFrames(&tracksBuilder, fixtureHeadTrackConstant, "0", "5", "0.1", "2", fixtureTailTrackConstant, "3")
	appendTrackFrames(&tracksBuilder, fixtureTailTrackConstant, "0", "5", "0.2", "2", 0, "4")
	appendTrackFrames(&tracksBuilder, fixtureOtherTrackConstant, "4", "-5", "-0.1", "3", 0, "-1")
	writeFixtureFile(testInstance, datasetDirectory, "1_tracks.csv", tracksBuilder.String())

	// Fourth per-recording file; only its presence matters for the recording count.
	writeFixtureFile(testInstance, datasetDirectory, "1_background.png", "placeholder")
}

func appendTrackFrames(builder *strings.Builder, trackID int, positionY string, velocityX string, accelerationX string, laneID string, followingID int, timeToCollision string) {
	for frameNumber := 0; frameNumber <= fixtureLastFrameConstant; frameNumber++ {
		builder.WriteString(fmt.Sprintf(
			"%d,%d,%d,%s,%s,0,%s,0,%s,%d,%s\n",
			frameNumber, trackID, frameNumber, positionY, velocityX, accelerationX, laneID, followingID, timeToCollision,
		))
	}
}

func writeFixtureFile(testInstance *testing.T, directoryPath string, fileName string, content string) {
	testInstance.Helper()
	writeError := os.WriteFile(filepath.Join(directoryPath, fileName), []byte(content), 0o600)
	require.NoError(testInstance, writeError)
}
