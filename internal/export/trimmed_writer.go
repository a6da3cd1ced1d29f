package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

const trimmedCopyErrorTemplateConstant = "unable to copy %s to %s: %w"

// WriteTrimmedScene reduces a full recording to the tracks overlapping a scenario window.
//
// It copies the recordingMeta file verbatim and re-emits the tracksMeta and
// tracks files with their original columns, keeping only the rows of tracks
// whose observation interval overlaps the window.
func WriteTrimmedScene(
	trimmedOutputDirectoryPath string,
	scenario convoy.Scenario,
	recordingMetadataPath string,
	metadataTable highd.TrackMetadataTable,
	frameTable highd.TrackFrameTable,
) error {
	scenarioBaseName := ScenarioBaseName(scenario)

	recordingMetaCopyPath := filepath.Join(trimmedOutputDirectoryPath, scenarioBaseName+trimmedRecordingMetaSuffixConstant)
	if copyError := copyFile(recordingMetadataPath, recordingMetaCopyPath); copyError != nil {
		return copyError
	}

	presentTrackIDs, tracksMetaError := writeTrimmedTracksMeta(
		filepath.Join(trimmedOutputDirectoryPath, scenarioBaseName+trimmedTracksMetaSuffixConstant),
		scenario.Window,
		metadataTable,
	)
	if tracksMetaError != nil {
		return tracksMetaError
	}

	return writeTrimmedTracks(
		filepath.Join(trimmedOutputDirectoryPath, scenarioBaseName+trimmedTracksSuffixConstant),
		presentTrackIDs,
		frameTable,
	)
}

func writeTrimmedTracksMeta(outputFilePath string, window convoy.FrameWindow, metadataTable highd.TrackMetadataTable) ([]int, error) {
	outputFile, createError := os.Create(outputFilePath)
	if createError != nil {
		return nil, fmt.Errorf(outputCreateErrorTemplateConstant, outputFilePath, createError)
	}
	defer outputFile.Close()

	csvWriter := csv.NewWriter(outputFile)

	if writeError := csvWriter.Write(metadataTable.Columns); writeError != nil {
		return nil, fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
	}

	var presentTrackIDs []int
	for _, trackID := range metadataTable.TrackIDs {
		trackMetadata := metadataTable.Tracks[trackID]
		if trackMetadata.InitialFrame >= window.LastFrame || trackMetadata.FinalFrame <= window.FirstFrame {
			continue
		}

		presentTrackIDs = append(presentTrackIDs, trackID)
		if writeError := csvWriter.Write(trackMetadata.RawRecord); writeError != nil {
			return nil, fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return nil, fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, flushError)
	}

	return presentTrackIDs, nil
}

func writeTrimmedTracks(outputFilePath string, presentTrackIDs []int, frameTable highd.TrackFrameTable) error {
	outputFile, createError := os.Create(outputFilePath)
	if createError != nil {
		return fmt.Errorf(outputCreateErrorTemplateConstant, outputFilePath, createError)
	}
	defer outputFile.Close()

	csvWriter := csv.NewWriter(outputFile)

	if writeError := csvWriter.Write(frameTable.Columns); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
	}

	for _, trackID := range presentTrackIDs {
		trackFrames, trackFramesAvailable := frameTable.FramesForTrack(trackID)
		if !trackFramesAvailable {
			continue
		}
		for _, frame := range trackFrames {
			if writeError := csvWriter.Write(frame.RawRecord); writeError != nil {
				return fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
			}
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, flushError)
	}

	return nil
}

func copyFile(sourceFilePath string, destinationFilePath string) error {
	sourceFile, openError := os.Open(sourceFilePath)
	if openError != nil {
		return fmt.Errorf(trimmedCopyErrorTemplateConstant, sourceFilePath, destinationFilePath, openError)
	}
	defer sourceFile.Close()

	destinationFile, createError := os.Create(destinationFilePath)
	if createError != nil {
		return fmt.Errorf(trimmedCopyErrorTemplateConstant, sourceFilePath, destinationFilePath, createError)
	}
	defer destinationFile.Close()

	if _, copyError := io.Copy(destinationFile, sourceFile); copyError != nil {
		return fmt.Errorf(trimmedCopyErrorTemplateConstant, sourceFilePath, destinationFilePath, copyError)
	}

	return destinationFile.Close()
}
