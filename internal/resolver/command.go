package resolver

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odooops/autoaggregate/internal/checkout"
	"github.com/odooops/autoaggregate/internal/settings"
)

const (
	commandUseNameConstant               = "resolve"
	commandShortDescriptionConstant      = "Compute repositories that need synthesized fetch configuration"
	commandLongDescriptionConstant       = "resolve reconciles the addons manifest against the hand-written repository manifest and prints the fetch configuration that would be synthesized for repositories missing from the latter. Nothing is printed when every expected repository is already defined."
	outputFlagNameConstant               = "output"
	outputFlagUsageConstant              = "Write the synthesized configuration to this file instead of standard output."
	loggerProviderMissingMessageConstant = "logger provider not configured"
	nothingMissingLogMessageConstant     = "no missing repositories"
	generatedFilePermissionsConstant     = 0o644
)

// ErrLoggerProviderNotConfigured indicates the command builder lacks a logger provider.
var ErrLoggerProviderNotConfigured = errors.New(loggerProviderMissingMessageConstant)

// CommandBuilder assembles the resolve command.
type CommandBuilder struct {
	LoggerProvider      func() *zap.Logger
	LayoutProvider      func() checkout.Layout
	EnvironmentProvider func() settings.Environment
}

// Build constructs the resolve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, ErrLoggerProviderNotConfigured
	}

	var outputFilePath string

	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, outputFilePath)
		},
	}

	command.Flags().StringVar(&outputFilePath, outputFlagNameConstant, "", outputFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, outputFilePath string) error {
	logger := builder.LoggerProvider()

	serviceEnvironment := settings.CaptureEnvironment()
	if builder.EnvironmentProvider != nil {
		serviceEnvironment = builder.EnvironmentProvider()
	}

	resolvedLayout := checkout.DefaultLayout()
	if builder.LayoutProvider != nil {
		resolvedLayout = builder.LayoutProvider().Normalized()
	}

	service, serviceError := NewService(ServiceDependencies{Logger: logger, Environment: serviceEnvironment})
	if serviceError != nil {
		return serviceError
	}

	missingRepositories, computeError := service.ComputeMissing(resolvedLayout)
	if computeError != nil {
		return computeError
	}

	if len(missingRepositories) == 0 {
		logger.Info(nothingMissingLogMessageConstant)
		return nil
	}

	serializedConfiguration, serializeError := missingRepositories.Serialize()
	if serializeError != nil {
		return serializeError
	}

	if len(outputFilePath) > 0 {
		return os.WriteFile(outputFilePath, serializedConfiguration, generatedFilePermissionsConstant)
	}

	_, writeError := command.OutOrStdout().Write(serializedConfiguration)
	return writeError
}
