package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cognitive-robots/highd-dataset-tools/internal/convoy"
	"github.com/cognitive-robots/highd-dataset-tools/internal/export"
	"github.com/cognitive-robots/highd-dataset-tools/internal/features"
	"github.com/cognitive-robots/highd-dataset-tools/internal/highd"
)

const (
	invalidDirectoryTemplateConstant = "%s path %s is not a valid directory"
	inputDirectoryLabelConstant      = "input directory"
	outputDirectoryLabelConstant     = "output directory"
	trimmedDirectoryLabelConstant    = "trimmed scene output directory"

	processingRecordingMessageConstant      = "processing recording"
	recordingMetadataMissingMessageConstant = "recording metadata missing"
	trackFilterAppliedMessageConstant       = "track filter applied"
	recordingMatchReportMessageConstant     = "recording match report"
	scenarioOutputWrittenMessageConstant    = "scenario output written"

	logFieldRecordingConstant        = "recording"
	logFieldRecordingCountConstant   = "recording_count"
	logFieldValidTracksConstant      = "valid_tracks"
	logFieldCandidateTracksConstant  = "candidate_tracks"
	logFieldSuccessesConstant        = "successes"
	logFieldNoFollowerConstant       = "no_follower"
	logFieldFollowerRejectedConstant = "follower_rejected"
	logFieldWindowTooShortConstant   = "window_too_short"
	logFieldNoIndependentConstant    = "no_independent"
	logFieldOutputPathConstant       = "output_path"
)

// Variant selects which extraction heuristic a run applies.
type Variant int

// Supported extraction variants.
const (
	// VariantStopAndGoScenarios extracts convoys led by stop-and-go vehicles
	// and derives planar magnitude features.
	VariantStopAndGoScenarios Variant = iota
	// VariantVelocityVariationScenes extracts convoys of velocity-varying
	// vehicles and derives longitudinal features with a time index.
	VariantVelocityVariationScenes
)

// Options carries the paths and output selections of one extraction run.
type Options struct {
	InputDirectoryPath        string
	OutputDirectoryPath       string
	TrimmedSceneDirectoryPath string
	WriteSeries               bool
	WriteMetadata             bool
	Features                  features.Selection
}

// Summary reports what an extraction run produced.
type Summary struct {
	RecordingCount int
	ScenarioCount  int
}

// Service runs the convoy extraction pipeline over a highD dataset directory.
type Service struct {
	logger        *zap.Logger
	configuration CommandConfiguration
}

// NewService validates the configuration and assembles an extraction service.
func NewService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, configuration: configuration}, nil
}

// Extract processes every recording of the dataset and writes the selected outputs.
func (service *Service) Extract(executionContext context.Context, variant Variant, options Options) (Summary, error) {
	if directoryError := ensureDirectory(inputDirectoryLabelConstant, options.InputDirectoryPath); directoryError != nil {
		return Summary{}, directoryError
	}
	if directoryError := ensureDirectory(outputDirectoryLabelConstant, options.OutputDirectoryPath); directoryError != nil {
		return Summary{}, directoryError
	}
	if len(options.TrimmedSceneDirectoryPath) > 0 {
		if directoryError := ensureDirectory(trimmedDirectoryLabelConstant, options.TrimmedSceneDirectoryPath); directoryError != nil {
			return Summary{}, directoryError
		}
	}

	datasetReader := highd.NewDatasetReader(options.InputDirectoryPath)

	recordingCount, countError := datasetReader.CountRecordings()
	if countError != nil {
		return Summary{}, countError
	}

	summary := Summary{RecordingCount: recordingCount}

	for recordingID := 1; recordingID <= recordingCount; recordingID++ {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		service.logger.Info(
			processingRecordingMessageConstant,
			zap.Int(logFieldRecordingConstant, recordingID),
			zap.Int(logFieldRecordingCountConstant, recordingCount),
		)

		scenarioCount, recordingError := service.extractRecording(datasetReader, variant, options, recordingID)
		if recordingError != nil {
			return summary, recordingError
		}
		summary.ScenarioCount += scenarioCount
	}

	return summary, nil
}

func (service *Service) extractRecording(datasetReader *highd.DatasetReader, variant Variant, options Options, recordingID int) (int, error) {
	recordingMetadata, metadataError := datasetReader.ReadRecordingMetadata(recordingID)
	if metadataError != nil {
		if errors.Is(metadataError, highd.ErrMissingRecordingMetadata) {
			service.logger.Warn(
				recordingMetadataMissingMessageConstant,
				zap.Int(logFieldRecordingConstant, recordingID),
			)
			return 0, nil
		}
		return 0, metadataError
	}

	metadataTable, tableError := datasetReader.ReadTrackMetadataTable(recordingID)
	if tableError != nil {
		return 0, tableError
	}

	trackFilter := convoy.TrackFilter{
		MinimumWindowSeconds: service.configuration.MinimumTimeWindowSeconds,
		CandidateRule:        service.candidateRule(variant),
	}
	filterResult := trackFilter.Partition(metadataTable, recordingMetadata.FrameRate)

	service.logger.Info(
		trackFilterAppliedMessageConstant,
		zap.Int(logFieldRecordingConstant, recordingID),
		zap.Int(logFieldValidTracksConstant, len(filterResult.ValidTrackIDs)),
		zap.Int(logFieldCandidateTracksConstant, len(filterResult.CandidateTrackIDs)),
	)

	if len(filterResult.CandidateTrackIDs) == 0 {
		return 0, nil
	}

	frameTable, frameError := datasetReader.ReadTrackFrameTable(recordingID)
	if frameError != nil {
		return 0, frameError
	}

	matcher := convoy.Matcher{
		MinimumWindowSeconds: service.configuration.MinimumTimeWindowSeconds,
		FollowerRequirement:  service.followerRequirement(variant),
	}
	scenarios, matchReport := matcher.MatchScenarios(recordingMetadata, filterResult, metadataTable, frameTable)

	seriesBuilder := features.SeriesBuilder{
		Style:     service.seriesStyle(variant),
		Selection: options.Features,
	}

	for _, scenario := range scenarios {
		if writeError := service.writeScenario(datasetReader, seriesBuilder, options, scenario, metadataTable, frameTable); writeError != nil {
			return 0, writeError
		}
	}

	service.logger.Info(
		recordingMatchReportMessageConstant,
		zap.Int(logFieldRecordingConstant, recordingID),
		zap.Int(logFieldSuccessesConstant, matchReport.SuccessCount),
		zap.Int(logFieldNoFollowerConstant, matchReport.NoFollowerCount),
		zap.Int(logFieldFollowerRejectedConstant, matchReport.FollowerRejectedCount),
		zap.Int(logFieldWindowTooShortConstant, matchReport.WindowTooShortCount),
		zap.Int(logFieldNoIndependentConstant, matchReport.NoIndependentCount),
	)

	return matchReport.SuccessCount, nil
}

func (service *Service) writeScenario(
	datasetReader *highd.DatasetReader,
	seriesBuilder features.SeriesBuilder,
	options Options,
	scenario convoy.Scenario,
	metadataTable highd.TrackMetadataTable,
	frameTable highd.TrackFrameTable,
) error {
	if options.WriteSeries {
		outputFilePath, writeError := export.WriteSeriesCSV(options.OutputDirectoryPath, scenario, seriesBuilder.Build(scenario))
		if writeError != nil {
			return writeError
		}
		service.logger.Info(scenarioOutputWrittenMessageConstant, zap.String(logFieldOutputPathConstant, outputFilePath))
	}

	if options.WriteMetadata {
		outputFilePath, writeError := export.WriteSceneMetadata(options.OutputDirectoryPath, scenario)
		if writeError != nil {
			return writeError
		}
		service.logger.Info(scenarioOutputWrittenMessageConstant, zap.String(logFieldOutputPathConstant, outputFilePath))
	}

	if len(options.TrimmedSceneDirectoryPath) > 0 {
		trimmedError := export.WriteTrimmedScene(
			options.TrimmedSceneDirectoryPath,
			scenario,
			datasetReader.RecordingMetadataPath(scenario.RecordingID),
			metadataTable,
			frameTable,
		)
		if trimmedError != nil {
			return trimmedError
		}
	}

	return nil
}

func (service *Service) candidateRule(variant Variant) convoy.CandidateRule {
	if variant == VariantVelocityVariationScenes {
		return convoy.VelocityVariationRule{VariationRatioMin: service.configuration.VelocityVariationMin}
	}
	return convoy.StopAndGoRule{
		StationaryVelocityMax: service.configuration.StationaryVelocityMax,
		MovingVelocityMin:     service.configuration.MovingVelocityMin,
	}
}

func (service *Service) followerRequirement(variant Variant) convoy.FollowerRequirement {
	if variant == VariantVelocityVariationScenes {
		return convoy.FollowerMustBeCandidate
	}
	return convoy.FollowerMustBeValid
}

func (service *Service) seriesStyle(variant Variant) features.Style {
	if variant == VariantVelocityVariationScenes {
		return features.StyleLongitudinal
	}
	return features.StyleMagnitude
}

func ensureDirectory(directoryLabel string, directoryPath string) error {
	directoryInfo, statError := os.Stat(directoryPath)
	if statError != nil || !directoryInfo.IsDir() {
		return fmt.Errorf(invalidDirectoryTemplateConstant, directoryLabel, directoryPath)
	}
	return nil
}
