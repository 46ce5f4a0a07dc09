package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/odooops/autoaggregate/internal/checkout"
	"github.com/odooops/autoaggregate/internal/manifest"
	"github.com/odooops/autoaggregate/internal/settings"
)

const (
	loggerMissingMessageConstant         = "logger not configured"
	environmentMissingMessageConstant    = "environment snapshot not configured"
	resultSerializeErrorTemplateConstant = "unable to serialize repository configuration: %w"
	originRemoteNameConstant             = "origin"
	mergeTargetTemplateConstant          = "origin %s"
	gitMetadataDirectoryNameConstant     = ".git"
	repositoryManifestSkippedMessage     = "repository manifest unavailable, treating as empty"
	addonsManifestSkippedMessageConstant = "addons manifest unavailable, treating as empty"
	addonsDocumentSkippedMessageConstant = "addons document skipped"
	pathInspectionFailedMessageConstant  = "repository path inspection failed, skipping"
	nonGitPathExcludedMessageConstant    = "existing non-git path excluded from expected repositories"
	logFieldManifestPathConstant         = "manifest_path"
	logFieldRepositoryPathConstant       = "repository_path"
)

// ErrLoggerNotConfigured indicates the resolver was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrEnvironmentNotConfigured indicates the resolver was built without an environment snapshot.
var ErrEnvironmentNotConfigured = errors.New(environmentMissingMessageConstant)

// RepositoryDefaults carries the synthesized aggregation defaults for one repository.
type RepositoryDefaults struct {
	Depth string `yaml:"depth"`
}

// RepositoryConfiguration is the minimal fetch configuration synthesized for a missing repository.
type RepositoryConfiguration struct {
	Defaults RepositoryDefaults `yaml:"defaults"`
	Merges   []string           `yaml:"merges"`
	Remotes  map[string]string  `yaml:"remotes"`
	Target   string             `yaml:"target"`
}

// ReconciliationResult maps absolute repository paths to their synthesized configuration.
type ReconciliationResult map[string]RepositoryConfiguration

// Serialize renders the result as a configuration document the aggregation tool consumes.
func (result ReconciliationResult) Serialize() ([]byte, error) {
	serializedResult, marshalError := yaml.Marshal(map[string]RepositoryConfiguration(result))
	if marshalError != nil {
		return nil, fmt.Errorf(resultSerializeErrorTemplateConstant, marshalError)
	}
	return serializedResult, nil
}

// ServiceDependencies enumerates collaborators required by the resolver service.
type ServiceDependencies struct {
	Logger      *zap.Logger
	Environment settings.Environment
}

// Service computes which expected repositories lack explicit fetch configuration.
type Service struct {
	logger      *zap.Logger
	environment settings.Environment
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Environment == nil {
		return nil, ErrEnvironmentNotConfigured
	}
	return &Service{logger: dependencies.Logger, environment: dependencies.Environment}, nil
}

// ComputeMissing reconciles expected repositories against defined ones and
// synthesizes fetch configuration for the difference. Absent or unparsable
// manifests contribute nothing; a mandatory environment variable missing
// during synthesis is a fatal configuration error.
func (service *Service) ComputeMissing(layout checkout.Layout) (ReconciliationResult, error) {
	definedPaths := service.collectDefinedPaths(layout)
	expectedPaths, recordedEnvironments := service.collectExpectedPaths(layout)

	missingRepositories := ReconciliationResult{}
	for expectedPath := range expectedPaths {
		if _, isDefined := definedPaths[expectedPath]; isDefined {
			continue
		}

		effectiveEnvironment, environmentRecorded := recordedEnvironments[expectedPath]
		if !environmentRecorded {
			effectiveEnvironment = service.environment
		}

		repositoryConfiguration, synthesisError := service.synthesizeConfiguration(effectiveEnvironment, expectedPath, layout.CoreDirectoryName)
		if synthesisError != nil {
			return nil, synthesisError
		}
		missingRepositories[expectedPath] = repositoryConfiguration
	}

	return missingRepositories, nil
}

func (service *Service) collectDefinedPaths(layout checkout.Layout) map[string]struct{} {
	definedPaths := map[string]struct{}{}

	manifestDocuments, loadError := manifest.LoadDocuments(layout.RepositoryManifestPath)
	if loadError != nil {
		service.logger.Debug(repositoryManifestSkippedMessage, zap.String(logFieldManifestPathConstant, layout.RepositoryManifestPath), zap.Error(loadError))
		return definedPaths
	}

	for _, manifestDocument := range manifestDocuments {
		for documentKey := range manifestDocument {
			definedPaths[layout.ResolveRepositoryPath(documentKey)] = struct{}{}
		}
	}

	return definedPaths
}

func (service *Service) collectExpectedPaths(layout checkout.Layout) (map[string]struct{}, map[string]settings.Environment) {
	expectedPaths := map[string]struct{}{layout.CoreCheckoutPath(): {}}
	recordedEnvironments := map[string]settings.Environment{}

	manifestDocuments, loadError := manifest.LoadDocuments(layout.AddonsManifestPath)
	if loadError != nil {
		service.logger.Debug(addonsManifestSkippedMessageConstant, zap.String(logFieldManifestPathConstant, layout.AddonsManifestPath), zap.Error(loadError))
		return expectedPaths, recordedEnvironments
	}

	for _, manifestDocument := range manifestDocuments {
		environmentOverrides, overridesError := manifestDocument.EnvironmentOverrides()
		if overridesError != nil {
			service.logger.Debug(addonsDocumentSkippedMessageConstant, zap.String(logFieldManifestPathConstant, layout.AddonsManifestPath), zap.Error(overridesError))
			continue
		}
		effectiveEnvironment := service.environment.Merged(environmentOverrides)

		for _, repositoryKey := range manifestDocument.RepositoryKeys() {
			repositoryPath := layout.ResolveRepositoryPath(repositoryKey)
			if !service.repositoryEligible(repositoryPath) {
				continue
			}
			expectedPaths[repositoryPath] = struct{}{}
			recordedEnvironments[repositoryPath] = effectiveEnvironment
		}
	}

	return expectedPaths, recordedEnvironments
}

// repositoryEligible reports whether a path may receive synthesized fetch
// configuration: either nothing occupies it yet, or it already holds a git
// working tree. An existing non-git directory is left alone so aggregation
// never clobbers unrelated content.
func (service *Service) repositoryEligible(repositoryPath string) bool {
	_, statError := os.Stat(repositoryPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return true
		}
		service.logger.Debug(pathInspectionFailedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(statError))
		return false
	}

	_, gitStatError := os.Stat(filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant))
	if gitStatError != nil {
		service.logger.Debug(nonGitPathExcludedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath))
		return false
	}
	return true
}

func (service *Service) synthesizeConfiguration(effectiveEnvironment settings.Environment, repositoryPath string, coreDirectoryName string) (RepositoryConfiguration, error) {
	cloneDepth, depthError := effectiveEnvironment.Require(settings.DepthDefaultVariableNameConstant)
	if depthError != nil {
		return RepositoryConfiguration{}, depthError
	}

	productVersion, versionError := effectiveEnvironment.Require(settings.OdooVersionVariableNameConstant)
	if versionError != nil {
		return RepositoryConfiguration{}, versionError
	}

	originURL, originError := OriginFor(effectiveEnvironment, repositoryPath, coreDirectoryName)
	if originError != nil {
		return RepositoryConfiguration{}, originError
	}

	mergeTarget := fmt.Sprintf(mergeTargetTemplateConstant, productVersion)
	return RepositoryConfiguration{
		Defaults: RepositoryDefaults{Depth: cloneDepth},
		Merges:   []string{mergeTarget},
		Remotes:  map[string]string{originRemoteNameConstant: originURL},
		Target:   mergeTarget,
	}, nil
}
