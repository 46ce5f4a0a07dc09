package build

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odooops/autoaggregate/internal/aggregator"
	"github.com/odooops/autoaggregate/internal/execshell"
	"github.com/odooops/autoaggregate/internal/ownership"
	"github.com/odooops/autoaggregate/internal/resolver"
	"github.com/odooops/autoaggregate/internal/settings"
)

const (
	commandUseNameConstant               = "run"
	commandShortDescriptionConstant      = "Aggregate declared and auto-detected repositories into the source tree"
	commandLongDescriptionConstant       = "run invokes the aggregation tool on the hand-written repository manifest when it exists, reconciles the addons manifest against it, and aggregates synthesized fetch configuration for any repository that should exist but is not explicitly defined."
	sourceRootFlagNameConstant           = "source-root"
	sourceRootFlagUsageConstant          = "Override the configured source checkout root."
	toolFlagNameConstant                 = "tool"
	toolFlagUsageConstant                = "Override the aggregation tool executable."
	jobsFlagNameConstant                 = "jobs"
	jobsFlagUsageConstant                = "Worker-count hint passed to the aggregation tool (defaults to the CPU count)."
	loggerProviderMissingMessageConstant = "logger provider not configured"
)

// ErrLoggerProviderNotConfigured indicates the command builder lacks a logger provider.
var ErrLoggerProviderNotConfigured = errors.New(loggerProviderMissingMessageConstant)

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() CommandConfiguration
	EnvironmentProvider   func() settings.Environment
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.LoggerProvider == nil {
		return nil, ErrLoggerProviderNotConfigured
	}

	var sourceRootFlagValue string
	var toolFlagValue string
	var jobsFlagValue int

	command := &cobra.Command{
		Use:   commandUseNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, sourceRootFlagValue, toolFlagValue, jobsFlagValue)
		},
	}

	command.Flags().StringVar(&sourceRootFlagValue, sourceRootFlagNameConstant, "", sourceRootFlagUsageConstant)
	command.Flags().StringVar(&toolFlagValue, toolFlagNameConstant, "", toolFlagUsageConstant)
	command.Flags().IntVar(&jobsFlagValue, jobsFlagNameConstant, 0, jobsFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, sourceRootOverride string, toolOverride string, workerCountOverride int) error {
	logger := builder.LoggerProvider()

	configuration := CommandConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().sanitize()
	}

	if len(sourceRootOverride) > 0 {
		configuration.Checkout.SourceRoot = sourceRootOverride
		configuration.Checkout.RepositoryManifestPath = ""
		configuration.Checkout.AddonsManifestPath = ""
		configuration.Checkout.GeneratedManifestPath = ""
	}
	if len(toolOverride) > 0 {
		configuration.ToolName = toolOverride
	}
	layout := configuration.Checkout.Normalized()

	buildEnvironment := settings.CaptureEnvironment()
	if builder.EnvironmentProvider != nil {
		buildEnvironment = builder.EnvironmentProvider()
	}

	buildSettings, settingsError := settings.ParseSettings(buildEnvironment)
	if settingsError != nil {
		return settingsError
	}

	umaskValue, umaskConfigured, umaskError := buildSettings.UmaskOverride()
	if umaskError != nil {
		return umaskError
	}
	var umaskOverride *int
	if umaskConfigured {
		umaskOverride = &umaskValue
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return executorError
	}

	aggregatorService, aggregatorError := aggregator.NewService(aggregator.ServiceDependencies{Logger: logger, Executor: shellExecutor})
	if aggregatorError != nil {
		return aggregatorError
	}

	resolverService, resolverError := resolver.NewService(resolver.ServiceDependencies{Logger: logger, Environment: buildEnvironment})
	if resolverError != nil {
		return resolverError
	}

	buildService, buildError := NewService(ServiceDependencies{Logger: logger, Aggregator: aggregatorService, Resolver: resolverService})
	if buildError != nil {
		return buildError
	}

	return buildService.Run(command.Context(), Options{
		Layout: layout,
		AggregationOptions: aggregator.Options{
			ToolName:    configuration.ToolName,
			SourceRoot:  layout.SourceRoot,
			LogLevel:    buildSettings.LogLevel,
			WorkerCount: workerCountOverride,
			Umask:       umaskOverride,
			Ownership: ownership.Ownership{
				UserIdentifier:  buildSettings.OwnerUserIdentifier,
				GroupIdentifier: buildSettings.OwnerGroupIdentifier,
			},
		},
	})
}
