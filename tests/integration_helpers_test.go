package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	integrationFrameRateConstant = 25
	integrationLastFrameConstant = 500

	integrationRecordingMetaTemplateConstant = "id,frameRate\n%d,%d\n"
	integrationTracksMetaHeaderConstant      = "id,initialFrame,finalFrame,numFrames,numLaneChanges,minXVelocity,maxXVelocity\n"
	integrationTracksHeaderConstant          = "frame,id,x,y,xVelocity,yVelocity,xAcceleration,yAcceleration,laneId,followingId,ttc\n"

	integrationMatchedSceneBaseNameConstant = "scene-1-2_follows_1-3_independent"
)

type integrationTrackSpec struct {
	trackID         int
	metadataRow     string
	positionY       string
	velocityX       string
	accelerationX   string
	laneID          string
	followingID     int
	timeToCollision string
}

// writeIntegrationDataset lays out a two-recording dataset. Recording 1 holds
// a matchable convoy triple; recording 2 holds a lone candidate with no
// follower and therefore yields nothing.
func writeIntegrationDataset(testInstance *testing.T, datasetDirectory string) {
	testInstance.Helper()

	writeIntegrationRecording(testInstance, datasetDirectory, 1, []integrationTrackSpec{
		{
			trackID:         1,
			metadataRow:     "1,0,500,501,0,0.2,8.0\n",
			positionY:       "0",
			velocityX:       "5",
			accelerationX:   "0.1",
			laneID:          "2",
			followingID:     2,
			timeToCollision: "3",
		},
		{
			trackID:         2,
			metadataRow:     "2,0,500,501,0,0.3,7.0\n",
			positionY:       "0",
			velocityX:       "5",
			accelerationX:   "0.2",
			laneID:          "2",
			followingID:     0,
			timeToCollision: "4",
		},
		{
			trackID:         3,
			metadataRow:     "3,0,500,501,0,6.0,6.5\n",
			positionY:       "4",
			velocityX:       "5",
			accelerationX:   "-0.1",
			laneID:          "3",
			followingID:     0,
			timeToCollision: "-1",
		},
	})

	writeIntegrationRecording(testInstance, datasetDirectory, 2, []integrationTrackSpec{
		{
			trackID:         1,
			metadataRow:     "1,0,500,501,0,0.2,8.0\n",
			positionY:       "0",
			velocityX:       "5",
			accelerationX:   "0.1",
			laneID:          "2",
			followingID:     0,
			timeToCollision: "3",
		},
	})
}

func writeIntegrationRecording(testInstance *testing.T, datasetDirectory string, recordingID int, trackSpecs []integrationTrackSpec) {
	testInstance.Helper()

	writeIntegrationFile(testInstance, datasetDirectory,
		fmt.Sprintf("%d_recordingMeta.csv", recordingID),
		fmt.Sprintf(integrationRecordingMetaTemplateConstant, recordingID, integrationFrameRateConstant))

	tracksMetaBuilder := strings.Builder{}
	tracksMetaBuilder.WriteString(integrationTracksMetaHeaderConstant)
	tracksBuilder := strings.Builder{}
	tracksBuilder.WriteString(integrationTracksHeaderConstant)

	for _, trackSpec := range trackSpecs {
		tracksMetaBuilder.WriteString(trackSpec.metadataRow)
		for frameNumber := 0; frameNumber <= integrationLastFrameConstant; frameNumber++ {
			tracksBuilder.WriteString(fmt.Sprintf(
				"%d,%d,%d,%s,%s,0,%s,0,%s,%d,%s\n",
				frameNumber, trackSpec.trackID, frameNumber,
				trackSpec.positionY, trackSpec.velocityX, trackSpec.accelerationX,
				trackSpec.laneID, trackSpec.followingID, trackSpec.timeToCollision,
			))
		}
	}

	writeIntegrationFile(testInstance, datasetDirectory, fmt.Sprintf("%d_tracksMeta.csv", recordingID), tracksMetaBuilder.String())
	writeIntegrationFile(testInstance, datasetDirectory, fmt.Sprintf("%d_tracks.csv", recordingID), tracksBuilder.String())
	writeIntegrationFile(testInstance, datasetDirectory, fmt.Sprintf("%d_background.png", recordingID), "placeholder")
}

func writeIntegrationFile(testInstance *testing.T, directoryPath string, fileName string, content string) {
	testInstance.Helper()
	writeError := os.WriteFile(filepath.Join(directoryPath, fileName), []byte(content), 0o600)
	require.NoError(testInstance, writeError)
}

func readIntegrationLines(testInstance *testing.T, filePath string) []string {
	testInstance.Helper()
	fileContent, readError := os.ReadFile(filePath)
	require.NoError(testInstance, readError)
	return strings.Split(strings.TrimSpace(string(fileContent)), "\n")
}
