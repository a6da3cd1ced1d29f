package extraction

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	minimumTimeWindowConfigKeyConstant     = "minimum_time_window_seconds"
	stationaryVelocityMaxConfigKeyConstant = "stationary_velocity_max"
	movingVelocityMinConfigKeyConstant     = "moving_velocity_min"
	velocityVariationMinConfigKeyConstant  = "velocity_variation_min"
	configurationKeySeparatorConstant      = "."

	defaultMinimumTimeWindowSecondsConstant = 10.0
	defaultStationaryVelocityMaxConstant    = 0.5
	defaultMovingVelocityMinConstant        = 5.0
	defaultVelocityVariationMinConstant     = 0.2

	configurationInvalidTemplateConstant = "invalid extraction configuration: %w"
)

// CommandConfiguration captures the tunable matching thresholds shared by the extraction commands.
type CommandConfiguration struct {
	MinimumTimeWindowSeconds float64 `mapstructure:"minimum_time_window_seconds" validate:"gt=0"`
	StationaryVelocityMax    float64 `mapstructure:"stationary_velocity_max" validate:"gte=0"`
	MovingVelocityMin        float64 `mapstructure:"moving_velocity_min" validate:"gte=0"`
	VelocityVariationMin     float64 `mapstructure:"velocity_variation_min" validate:"gt=0,lte=1"`
}

// DefaultCommandConfiguration provides the baseline matching thresholds.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		MinimumTimeWindowSeconds: defaultMinimumTimeWindowSecondsConstant,
		StationaryVelocityMax:    defaultStationaryVelocityMaxConstant,
		MovingVelocityMin:        defaultMovingVelocityMinConstant,
		VelocityVariationMin:     defaultVelocityVariationMinConstant,
	}
}

// DefaultConfigurationValues exposes the baseline thresholds keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + configurationKeySeparatorConstant + minimumTimeWindowConfigKeyConstant:     defaults.MinimumTimeWindowSeconds,
		configurationKeyPrefix + configurationKeySeparatorConstant + stationaryVelocityMaxConfigKeyConstant: defaults.StationaryVelocityMax,
		configurationKeyPrefix + configurationKeySeparatorConstant + movingVelocityMinConfigKeyConstant:     defaults.MovingVelocityMin,
		configurationKeyPrefix + configurationKeySeparatorConstant + velocityVariationMinConfigKeyConstant:  defaults.VelocityVariationMin,
	}
}

// Validate checks the threshold invariants.
func (configuration CommandConfiguration) Validate() error {
	validatorInstance := validator.New(validator.WithRequiredStructEnabled())
	if validationError := validatorInstance.Struct(configuration); validationError != nil {
		return fmt.Errorf(configurationInvalidTemplateConstant, validationError)
	}
	return nil
}
