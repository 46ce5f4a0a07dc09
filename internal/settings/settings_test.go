package settings_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odooops/autoaggregate/internal/settings"
)

const (
	testDepthValueConstant      = "1"
	testVersionValueConstant    = "16.0"
	testOverrideValueConstant   = "100"
	testUmaskOctalConstant      = "0027"
	testInvalidUmaskConstant    = "99x"
	testOwnerUserValueConstant  = "1000"
	testOwnerGroupValueConstant = "2000"
)

func TestEnvironmentMergedPrefersOverrides(testInstance *testing.T) {
	ambientEnvironment := settings.Environment{
		settings.DepthDefaultVariableNameConstant: testDepthValueConstant,
		settings.OdooVersionVariableNameConstant:  testVersionValueConstant,
	}

	mergedEnvironment := ambientEnvironment.Merged(map[string]string{
		settings.DepthDefaultVariableNameConstant: testOverrideValueConstant,
	})

	require.Equal(testInstance, testOverrideValueConstant, mergedEnvironment.Value(settings.DepthDefaultVariableNameConstant))
	require.Equal(testInstance, testVersionValueConstant, mergedEnvironment.Value(settings.OdooVersionVariableNameConstant))

	// The source snapshot stays untouched.
	require.Equal(testInstance, testDepthValueConstant, ambientEnvironment.Value(settings.DepthDefaultVariableNameConstant))
}

func TestEnvironmentRequireReportsMissingVariables(testInstance *testing.T) {
	emptyEnvironment := settings.Environment{}

	_, requireError := emptyEnvironment.Require(settings.OdooVersionVariableNameConstant)
	require.Error(testInstance, requireError)

	missingVariable := &settings.MissingVariableError{}
	require.ErrorAs(testInstance, requireError, &missingVariable)
	require.Equal(testInstance, settings.OdooVersionVariableNameConstant, missingVariable.VariableName)
	require.Contains(testInstance, requireError.Error(), settings.OdooVersionVariableNameConstant)
}

func TestParseSettingsReadsProcessScopedValues(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		environment           settings.Environment
		expectedLogLevel      string
		expectUmaskConfigured bool
		expectedUmask         int
		expectUmaskError      bool
		expectOwnership       bool
	}{
		{
			name:             "empty_environment_defaults",
			environment:      settings.Environment{},
			expectedLogLevel: "INFO",
		},
		{
			name: "umask_and_ownership_configured",
			environment: settings.Environment{
				settings.UmaskVariableNameConstant:               testUmaskOctalConstant,
				settings.OwnerUserIdentifierVariableNameConstant: testOwnerUserValueConstant,
				settings.LogLevelVariableNameConstant:            "DEBUG",
			},
			expectedLogLevel:      "DEBUG",
			expectUmaskConfigured: true,
			expectedUmask:         0o027,
			expectOwnership:       true,
		},
		{
			name: "invalid_umask_rejected",
			environment: settings.Environment{
				settings.UmaskVariableNameConstant: testInvalidUmaskConstant,
			},
			expectedLogLevel: "INFO",
			expectUmaskError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedSettings, parseError := settings.ParseSettings(testCase.environment)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedLogLevel, parsedSettings.LogLevel)
			require.Equal(testInstance, testCase.expectOwnership, parsedSettings.OwnershipConfigured())

			umaskValue, umaskConfigured, umaskError := parsedSettings.UmaskOverride()
			if testCase.expectUmaskError {
				require.Error(testInstance, umaskError)
				return
			}
			require.NoError(testInstance, umaskError)
			require.Equal(testInstance, testCase.expectUmaskConfigured, umaskConfigured)
			if umaskConfigured {
				require.Equal(testInstance, testCase.expectedUmask, umaskValue)
			}
		})
	}
}

func TestParseSettingsReadsOwnerIdentifiers(testInstance *testing.T) {
	parsedSettings, parseError := settings.ParseSettings(settings.Environment{
		settings.OwnerUserIdentifierVariableNameConstant:  testOwnerUserValueConstant,
		settings.OwnerGroupIdentifierVariableNameConstant: testOwnerGroupValueConstant,
	})
	require.NoError(testInstance, parseError)

	require.NotNil(testInstance, parsedSettings.OwnerUserIdentifier)
	require.Equal(testInstance, 1000, *parsedSettings.OwnerUserIdentifier)
	require.NotNil(testInstance, parsedSettings.OwnerGroupIdentifier)
	require.Equal(testInstance, 2000, *parsedSettings.OwnerGroupIdentifier)
	require.True(testInstance, parsedSettings.OwnershipConfigured())
}

func TestCaptureEnvironmentReflectsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(settings.DepthDefaultVariableNameConstant, testDepthValueConstant)

	capturedEnvironment := settings.CaptureEnvironment()

	require.Equal(testInstance, testDepthValueConstant, capturedEnvironment.Value(settings.DepthDefaultVariableNameConstant))
}
