package extraction

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognitive-robots/highd-dataset-tools/internal/utils"
)

const (
	scenariosCommandUseConstant              = "scenarios input-directory output-directory"
	scenariosCommandNameConstant             = "scenarios"
	scenariosCommandShortDescriptionConstant = "Extract convoy scenarios led by stop-and-go vehicles"
	scenariosCommandLongDescriptionConstant  = "scenarios extracts two-agent convoy scenarios whose head vehicle nearly stops and later reaches free-flowing speed, writing one planar-magnitude time-series CSV per matched triple."
	scenariosExecutionErrorTemplateConstant  = "scenario extraction failed: %w"

	scenesCommandUseConstant              = "scenes input-directory output-directory"
	scenesCommandNameConstant             = "scenes"
	scenesCommandShortDescriptionConstant = "Extract convoy scenes of velocity-varying vehicles"
	scenesCommandLongDescriptionConstant  = "scenes extracts two-agent convoy scenes whose vehicles vary their longitudinal velocity, writing longitudinal time-series CSVs, JSON scene metadata, and optionally trimmed recording copies."
	scenesExecutionErrorTemplateConstant  = "scene extraction failed: %w"

	positionalArgumentCountConstant = 2

	flagAllKinematicNameConstant              = "all-kinematic-variables"
	flagAllKinematicDescriptionConstant       = "Emit acceleration, velocity, and cumulative distance columns for every agent"
	flagInteragentDistanceNameConstant        = "interagent-distance-variables"
	flagInteragentDistanceDescriptionConstant = "Append pairwise inter-agent distance columns"
	flagTimeToCollisionNameConstant           = "ttc-variables"
	flagTimeToCollisionDescriptionConstant    = "Append the dataset's time-to-collision columns"
	flagVelocityNameConstant                  = "velocity-variables"
	flagVelocityDescriptionConstant           = "Emit velocity columns instead of acceleration columns"
	flagSeriesCSVNameConstant                 = "csv"
	flagSeriesCSVDescriptionConstant          = "Write the per-scene time-series CSV files"
	flagSceneMetadataNameConstant             = "json-meta"
	flagSceneMetadataDescriptionConstant      = "Write the per-scene JSON metadata files"
	flagTrimmedScenePathNameConstant          = "trimmed-scene-output-path"
	flagTrimmedScenePathDescriptionConstant   = "Directory receiving trimmed recording copies for each matched scene"

	noOutputModeSelectedMessageConstant = "select at least one of --csv or --json-meta"

	extractionCompletedMessageConstant = "extraction completed"
	configurationSourceMessageConstant = "configuration source resolved"
	logFieldCommandConstant            = "command"
	logFieldRecordingsConstant         = "recordings"
	logFieldScenariosConstant          = "scenarios"
	logFieldConfigurationFileConstant  = "config_file"
)

var errNoOutputModeSelected = errors.New(noOutputModeSelectedMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the extraction thresholds resolved by the root command.
type ConfigurationProvider func() CommandConfiguration

// ScenariosCommandBuilder assembles the Cobra command for stop-and-go convoy extraction.
type ScenariosCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the scenarios command.
func (builder *ScenariosCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   scenariosCommandUseConstant,
		Short: scenariosCommandShortDescriptionConstant,
		Long:  scenariosCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(positionalArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().Bool(flagAllKinematicNameConstant, false, flagAllKinematicDescriptionConstant)
	command.Flags().Bool(flagInteragentDistanceNameConstant, false, flagInteragentDistanceDescriptionConstant)
	command.Flags().Bool(flagTimeToCollisionNameConstant, false, flagTimeToCollisionDescriptionConstant)

	return command, nil
}

func (builder *ScenariosCommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := Options{
		InputDirectoryPath:  arguments[0],
		OutputDirectoryPath: arguments[1],
		WriteSeries:         true,
	}
	options.Features.AllKinematic, _ = command.Flags().GetBool(flagAllKinematicNameConstant)
	options.Features.InteragentDistances, _ = command.Flags().GetBool(flagInteragentDistanceNameConstant)
	options.Features.TimeToCollision, _ = command.Flags().GetBool(flagTimeToCollisionNameConstant)

	logger := resolveLogger(builder.LoggerProvider)
	logConfigurationSource(logger, command)

	service, serviceError := NewService(logger, resolveConfiguration(builder.ConfigurationProvider))
	if serviceError != nil {
		return serviceError
	}

	summary, extractionError := service.Extract(command.Context(), VariantStopAndGoScenarios, options)
	if extractionError != nil {
		return fmt.Errorf(scenariosExecutionErrorTemplateConstant, extractionError)
	}

	logSummary(logger, scenariosCommandNameConstant, summary)
	return nil
}

// ScenesCommandBuilder assembles the Cobra command for velocity-variation convoy extraction.
type ScenesCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the scenes command.
func (builder *ScenesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   scenesCommandUseConstant,
		Short: scenesCommandShortDescriptionConstant,
		Long:  scenesCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(positionalArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().Bool(flagSeriesCSVNameConstant, false, flagSeriesCSVDescriptionConstant)
	command.Flags().Bool(flagSceneMetadataNameConstant, false, flagSceneMetadataDescriptionConstant)
	command.Flags().String(flagTrimmedScenePathNameConstant, "", flagTrimmedScenePathDescriptionConstant)
	command.Flags().Bool(flagVelocityNameConstant, false, flagVelocityDescriptionConstant)
	command.Flags().Bool(flagAllKinematicNameConstant, false, flagAllKinematicDescriptionConstant)
	command.Flags().Bool(flagInteragentDistanceNameConstant, false, flagInteragentDistanceDescriptionConstant)
	command.Flags().Bool(flagTimeToCollisionNameConstant, false, flagTimeToCollisionDescriptionConstant)

	return command, nil
}

func (builder *ScenesCommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := Options{
		InputDirectoryPath:  arguments[0],
		OutputDirectoryPath: arguments[1],
	}
	options.WriteSeries, _ = command.Flags().GetBool(flagSeriesCSVNameConstant)
	options.WriteMetadata, _ = command.Flags().GetBool(flagSceneMetadataNameConstant)
	options.TrimmedSceneDirectoryPath, _ = command.Flags().GetString(flagTrimmedScenePathNameConstant)
	options.Features.VelocityOnly, _ = command.Flags().GetBool(flagVelocityNameConstant)
	options.Features.AllKinematic, _ = command.Flags().GetBool(flagAllKinematicNameConstant)
	options.Features.InteragentDistances, _ = command.Flags().GetBool(flagInteragentDistanceNameConstant)
	options.Features.TimeToCollision, _ = command.Flags().GetBool(flagTimeToCollisionNameConstant)

	if !options.WriteSeries && !options.WriteMetadata {
		return errNoOutputModeSelected
	}

	logger := resolveLogger(builder.LoggerProvider)
	logConfigurationSource(logger, command)

	service, serviceError := NewService(logger, resolveConfiguration(builder.ConfigurationProvider))
	if serviceError != nil {
		return serviceError
	}

	summary, extractionError := service.Extract(command.Context(), VariantVelocityVariationScenes, options)
	if extractionError != nil {
		return fmt.Errorf(scenesExecutionErrorTemplateConstant, extractionError)
	}

	logSummary(logger, scenesCommandNameConstant, summary)
	return nil
}

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(configurationProvider ConfigurationProvider) CommandConfiguration {
	if configurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return configurationProvider()
}

func logConfigurationSource(logger *zap.Logger, command *cobra.Command) {
	contextAccessor := utils.NewCommandContextAccessor()
	configurationFilePath, configurationFilePathAvailable := contextAccessor.ConfigurationFilePath(command.Context())
	if !configurationFilePathAvailable {
		return
	}
	logger.Debug(
		configurationSourceMessageConstant,
		zap.String(logFieldCommandConstant, command.Name()),
		zap.String(logFieldConfigurationFileConstant, configurationFilePath),
	)
}

func logSummary(logger *zap.Logger, commandName string, summary Summary) {
	logger.Info(
		extractionCompletedMessageConstant,
		zap.String(logFieldCommandConstant, commandName),
		zap.Int(logFieldRecordingsConstant, summary.RecordingCount),
		zap.Int(logFieldScenariosConstant, summary.ScenarioCount),
	)
}
