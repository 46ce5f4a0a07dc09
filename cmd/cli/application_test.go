package cli_test

import (
	"testing"

	"github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/odooops/autoaggregate/cmd/cli"
)

const (
	runCommandNameConstant     = "run"
	resolveCommandNameConstant = "resolve"
	configFlagNameConstant     = "config"
	logLevelFlagNameConstant   = "log-level"
	logFormatFlagNameConstant  = "log-format"
)

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	testCases := []struct {
		name        string
		commandName string
	}{
		{name: "run_command", commandName: runCommandNameConstant},
		{name: "resolve_command", commandName: resolveCommandNameConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			application := cli.NewApplication()

			registeredNames := map[string]bool{}
			for _, subcommand := range application.RootCommand().Commands() {
				registeredNames[subcommand.Name()] = true
			}

			require.True(subtestInstance, registeredNames[testCase.commandName])
		})
	}
}

func TestNewApplicationExposesPersistentFlags(testInstance *testing.T) {
	application := cli.NewApplication()
	persistentFlags := application.RootCommand().PersistentFlags()

	for _, flagName := range []string{configFlagNameConstant, logLevelFlagNameConstant, logFormatFlagNameConstant} {
		require.NotNil(testInstance, persistentFlags.Lookup(flagName))
	}
}

func TestApplicationConfigurationDecodesToolSections(testInstance *testing.T) {
	configurationValues := map[string]any{
		"common": map[string]any{
			"log_level":  "debug",
			"log_format": "console",
		},
		"tools": map[string]any{
			"build": map[string]any{
				"tool": "gitaggregate",
				"checkout": map[string]any{
					"source_root": "/srv/odoo/src",
				},
			},
		},
	}

	var decodedConfiguration cli.ApplicationConfiguration
	decodeError := mapstructure.Decode(configurationValues, &decodedConfiguration)
	require.NoError(testInstance, decodeError)

	require.Equal(testInstance, "debug", decodedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "console", decodedConfiguration.Common.LogFormat)
	require.Equal(testInstance, "gitaggregate", decodedConfiguration.Tools.Build.ToolName)
	require.Equal(testInstance, "/srv/odoo/src", decodedConfiguration.Tools.Build.Checkout.SourceRoot)
}
