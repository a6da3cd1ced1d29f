package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
)

const metadataMarshalErrorTemplateConstant = "unable to encode scene metadata for %s: %w"

// SceneMetadata is the JSON document identifying a matched scenario's agents.
type SceneMetadata struct {
	SceneID       int `json:"scene_id"`
	ConvoyHeadID  int `json:"convoy_head_id"`
	ConvoyTailID  int `json:"convoy_tail_id"`
	IndependentID int `json:"independent_id"`
}

// NewSceneMetadata derives the metadata document from a matched scenario.
func NewSceneMetadata(scenario convoy.Scenario) SceneMetadata {
	return SceneMetadata{
		SceneID:       scenario.RecordingID,
		ConvoyHeadID:  scenario.HeadTrackID,
		ConvoyTailID:  scenario.FollowerTrackID,
		IndependentID: scenario.IndependentTrackID,
	}
}

// WriteSceneMetadata stores the scenario metadata as {base}.json in the output directory.
func WriteSceneMetadata(outputDirectoryPath string, scenario convoy.Scenario) (string, error) {
	outputFilePath := filepath.Join(outputDirectoryPath, ScenarioBaseName(scenario)+metadataFileSuffixConstant)

	encodedMetadata, marshalError := json.Marshal(NewSceneMetadata(scenario))
	if marshalError != nil {
		return "", fmt.Errorf(metadataMarshalErrorTemplateConstant, outputFilePath, marshalError)
	}

	if writeError := os.WriteFile(outputFilePath, encodedMetadata, 0o644); writeError != nil {
		return "", fmt.Errorf(outputWriteErrorTemplateConstant, outputFilePath, writeError)
	}

	return outputFilePath, nil
}
