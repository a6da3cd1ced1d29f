package export

import (
	"fmt"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
)

const (
	scenarioBaseNameTemplateConstant = "scene-%d-%d_follows_%d-%d_independent"

	seriesFileSuffixConstant           = ".csv"
	metadataFileSuffixConstant         = ".json"
	trimmedRecordingMetaSuffixConstant = "-recordingMeta.csv"
	trimmedTracksMetaSuffixConstant    = "-tracksMeta.csv"
	trimmedTracksSuffixConstant        = "-tracks.csv"
)

// ScenarioBaseName formats the canonical output file stem for a matched scenario.
//
// The follower id leads the name because the scenario is read as "follower
// follows head", with the independent agent appended.
func ScenarioBaseName(scenario convoy.Scenario) string {
	return fmt.Sprintf(
		scenarioBaseNameTemplateConstant,
		scenario.RecordingID,
		scenario.FollowerTrackID,
		scenario.HeadTrackID,
		scenario.IndependentTrackID,
	)
}
