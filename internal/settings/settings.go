package settings

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

const (
	settingsParseErrorTemplateConstant = "unable to parse build environment: %w"
	umaskParseErrorTemplateConstant    = "invalid UMASK value %q: %w"
	umaskNumericBaseConstant           = 8
	umaskBitSizeConstant               = 32
	defaultLogLevelNameConstant        = "INFO"
)

// Settings captures the process-scoped portion of the build contract.
//
// Pointer fields distinguish "unset" from any concrete value: an absent UID or
// GID means ownership normalization is skipped for that dimension, and an
// absent UMASK leaves the process umask untouched.
type Settings struct {
	Umask                *string `env:"UMASK"`
	OwnerUserIdentifier  *int    `env:"UID"`
	OwnerGroupIdentifier *int    `env:"GID"`
	LogLevel             string  `env:"LOG_LEVEL" envDefault:"INFO"`
}

// ParseSettings reads the process-scoped settings from the provided environment snapshot.
func ParseSettings(environment Environment) (Settings, error) {
	parsedSettings := Settings{}
	parseError := env.ParseWithOptions(&parsedSettings, env.Options{Environment: map[string]string(environment)})
	if parseError != nil {
		return Settings{}, fmt.Errorf(settingsParseErrorTemplateConstant, parseError)
	}
	if len(parsedSettings.LogLevel) == 0 {
		parsedSettings.LogLevel = defaultLogLevelNameConstant
	}
	return parsedSettings, nil
}

// UmaskOverride decodes the configured umask as an octal integer. The second
// return value reports whether an override is configured at all.
func (buildSettings Settings) UmaskOverride() (int, bool, error) {
	if buildSettings.Umask == nil {
		return 0, false, nil
	}

	umaskValue, parseError := strconv.ParseInt(*buildSettings.Umask, umaskNumericBaseConstant, umaskBitSizeConstant)
	if parseError != nil {
		return 0, false, fmt.Errorf(umaskParseErrorTemplateConstant, *buildSettings.Umask, parseError)
	}
	return int(umaskValue), true, nil
}

// OwnershipConfigured reports whether at least one of the target user or group identifiers is set.
func (buildSettings Settings) OwnershipConfigured() bool {
	return buildSettings.OwnerUserIdentifier != nil || buildSettings.OwnerGroupIdentifier != nil
}
