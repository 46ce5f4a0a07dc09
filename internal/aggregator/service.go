package aggregator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/odooops/autoaggregate/internal/execshell"
	"github.com/odooops/autoaggregate/internal/ownership"
)

const (
	loggerMissingMessageConstant          = "logger not configured"
	executorMissingMessageConstant        = "command executor not configured"
	configurationPathRequiredMessage      = "configuration path must be provided"
	aggregationFailureTemplateConstant    = "aggregation of %s failed: %w"
	defaultAggregatorToolNameConstant     = "gitaggregate"
	defaultToolLogLevelConstant           = "INFO"
	expandEnvironmentFlagConstant         = "--expand-env"
	configurationFlagConstant             = "--config"
	logLevelFlagConstant                  = "--log-level"
	jobsFlagConstant                      = "--jobs"
	aggregateSubcommandConstant           = "aggregate"
	minimumWorkerCountConstant            = 1
	aggregationStartedLogMessageConstant  = "aggregating repositories"
	ownershipNormalizedLogMessageConstant = "checkout ownership normalized"
	logFieldConfigurationPathConstant     = "configuration_path"
	logFieldWorkerCountConstant           = "worker_count"
	logFieldSourceRootConstant            = "source_root"
)

// ErrLoggerNotConfigured indicates the service was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrExecutorNotConfigured indicates the service was built without a command executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrConfigurationPathRequired indicates Aggregate was called without a configuration document.
var ErrConfigurationPathRequired = errors.New(configurationPathRequiredMessage)

// CommandExecutor runs shell commands on behalf of the service.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// OwnershipNormalizer applies target ownership to a directory tree.
type OwnershipNormalizer interface {
	Normalize(rootPath string, targetOwnership ownership.Ownership)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Logger          *zap.Logger
	Executor        CommandExecutor
	UmaskController UmaskController
	Normalizer      OwnershipNormalizer
}

// Options configure one aggregation run.
type Options struct {
	ToolName    string
	SourceRoot  string
	LogLevel    string
	WorkerCount int
	Umask       *int
	Ownership   ownership.Ownership
}

// Service drives the external aggregation tool.
type Service struct {
	logger          *zap.Logger
	executor        CommandExecutor
	umaskController UmaskController
	normalizer      OwnershipNormalizer
}

// NewService constructs a Service from the provided dependencies. The umask
// controller defaults to the real process umask and the normalizer to an
// os.Chown backed walker.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	umaskController := dependencies.UmaskController
	if umaskController == nil {
		umaskController = NewSystemUmaskController()
	}

	normalizer := dependencies.Normalizer
	if normalizer == nil {
		defaultNormalizer, normalizerError := ownership.NewNormalizer(dependencies.Logger)
		if normalizerError != nil {
			return nil, normalizerError
		}
		normalizer = defaultNormalizer
	}

	return &Service{
		logger:          dependencies.Logger,
		executor:        dependencies.Executor,
		umaskController: umaskController,
		normalizer:      normalizer,
	}, nil
}

// Aggregate invokes the aggregation tool against the supplied configuration
// document. The tool inherits this process's standard streams and runs with
// the source root as its working directory. The prior umask is restored and
// checkout ownership is normalized even when the tool fails; a non-zero tool
// exit surfaces as an execshell.CommandFailedError in the returned chain.
func (service *Service) Aggregate(executionContext context.Context, configurationPath string, options Options) error {
	trimmedConfigurationPath := strings.TrimSpace(configurationPath)
	if len(trimmedConfigurationPath) == 0 {
		return ErrConfigurationPathRequired
	}

	toolName := strings.TrimSpace(options.ToolName)
	if len(toolName) == 0 {
		toolName = defaultAggregatorToolNameConstant
	}

	toolLogLevel := strings.TrimSpace(options.LogLevel)
	if len(toolLogLevel) == 0 {
		toolLogLevel = defaultToolLogLevelConstant
	}

	workerCount := options.WorkerCount
	if workerCount < minimumWorkerCountConstant {
		workerCount = runtime.NumCPU()
	}
	if workerCount < minimumWorkerCountConstant {
		workerCount = minimumWorkerCountConstant
	}

	if options.Umask != nil {
		previousUmask := service.umaskController.Swap(*options.Umask)
		defer service.umaskController.Swap(previousUmask)
	}

	if options.Ownership.Configured() {
		defer func() {
			service.normalizer.Normalize(options.SourceRoot, options.Ownership)
			service.logger.Debug(ownershipNormalizedLogMessageConstant, zap.String(logFieldSourceRootConstant, options.SourceRoot))
		}()
	}

	service.logger.Info(
		aggregationStartedLogMessageConstant,
		zap.String(logFieldConfigurationPathConstant, trimmedConfigurationPath),
		zap.Int(logFieldWorkerCountConstant, workerCount),
	)

	aggregateCommand := execshell.ShellCommand{
		Name: execshell.CommandName(toolName),
		Details: execshell.CommandDetails{
			Arguments: []string{
				expandEnvironmentFlagConstant,
				configurationFlagConstant, trimmedConfigurationPath,
				logLevelFlagConstant, toolLogLevel,
				jobsFlagConstant, strconv.Itoa(workerCount),
				aggregateSubcommandConstant,
			},
			WorkingDirectory:       options.SourceRoot,
			InheritStandardStreams: true,
		},
	}

	if _, executionError := service.executor.Execute(executionContext, aggregateCommand); executionError != nil {
		return fmt.Errorf(aggregationFailureTemplateConstant, trimmedConfigurationPath, executionError)
	}
	return nil
}
