package build

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/odooops/autoaggregate/internal/aggregator"
	"github.com/odooops/autoaggregate/internal/checkout"
	"github.com/odooops/autoaggregate/internal/resolver"
)

const (
	loggerMissingMessageConstant         = "logger not configured"
	aggregatorMissingMessageConstant     = "aggregation runner not configured"
	resolverMissingMessageConstant       = "missing-repository resolver not configured"
	manifestAbsentLogMessageConstant     = "hand-written repository manifest absent, skipping explicit aggregation"
	nothingMissingLogMessageConstant     = "all expected repositories already defined, skipping synthesized aggregation"
	generatedManifestLogMessageConstant  = "synthesized configuration written"
	logFieldManifestPathConstant         = "manifest_path"
	logFieldRepositoryCountConstant      = "repository_count"
	generatedManifestPermissionsConstant = fs.FileMode(0o644)
)

// ErrLoggerNotConfigured indicates the service was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrAggregatorNotConfigured indicates the service was built without an aggregation runner.
var ErrAggregatorNotConfigured = errors.New(aggregatorMissingMessageConstant)

// ErrResolverNotConfigured indicates the service was built without a resolver.
var ErrResolverNotConfigured = errors.New(resolverMissingMessageConstant)

// AggregationRunner invokes the external aggregation tool for one configuration document.
type AggregationRunner interface {
	Aggregate(executionContext context.Context, configurationPath string, options aggregator.Options) error
}

// MissingRepositoryResolver computes synthesized fetch configuration for undefined repositories.
type MissingRepositoryResolver interface {
	ComputeMissing(layout checkout.Layout) (resolver.ReconciliationResult, error)
}

// WriteFileFunc persists generated configuration documents.
type WriteFileFunc func(filePath string, content []byte, permissions fs.FileMode) error

// ServiceDependencies enumerates collaborators required by the build service.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Aggregator AggregationRunner
	Resolver   MissingRepositoryResolver
	WriteFile  WriteFileFunc
}

// Options configure a full build run.
type Options struct {
	Layout             checkout.Layout
	AggregationOptions aggregator.Options
}

// Service executes the two-phase aggregation control flow.
type Service struct {
	logger     *zap.Logger
	aggregator AggregationRunner
	resolver   MissingRepositoryResolver
	writeFile  WriteFileFunc
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Aggregator == nil {
		return nil, ErrAggregatorNotConfigured
	}
	if dependencies.Resolver == nil {
		return nil, ErrResolverNotConfigured
	}

	writeFile := dependencies.WriteFile
	if writeFile == nil {
		writeFile = os.WriteFile
	}

	return &Service{
		logger:     dependencies.Logger,
		aggregator: dependencies.Aggregator,
		resolver:   dependencies.Resolver,
		writeFile:  writeFile,
	}, nil
}

// Run aggregates the hand-written manifest when it exists, then resolves and
// aggregates whatever is still missing. The first failing aggregation aborts
// the run; an empty reconciliation result short-circuits without writing the
// generated configuration document.
func (service *Service) Run(executionContext context.Context, options Options) error {
	layout := options.Layout.Normalized()

	if _, statError := os.Stat(layout.RepositoryManifestPath); statError == nil {
		if aggregateError := service.aggregator.Aggregate(executionContext, layout.RepositoryManifestPath, options.AggregationOptions); aggregateError != nil {
			return aggregateError
		}
	} else {
		service.logger.Debug(manifestAbsentLogMessageConstant, zap.String(logFieldManifestPathConstant, layout.RepositoryManifestPath))
	}

	missingRepositories, computeError := service.resolver.ComputeMissing(layout)
	if computeError != nil {
		return computeError
	}

	if len(missingRepositories) == 0 {
		service.logger.Info(nothingMissingLogMessageConstant)
		return nil
	}

	serializedConfiguration, serializeError := missingRepositories.Serialize()
	if serializeError != nil {
		return serializeError
	}

	if writeError := service.writeFile(layout.GeneratedManifestPath, serializedConfiguration, generatedManifestPermissionsConstant); writeError != nil {
		return writeError
	}
	service.logger.Info(
		generatedManifestLogMessageConstant,
		zap.String(logFieldManifestPathConstant, layout.GeneratedManifestPath),
		zap.Int(logFieldRepositoryCountConstant, len(missingRepositories)),
	)

	return service.aggregator.Aggregate(executionContext, layout.GeneratedManifestPath, options.AggregationOptions)
}
