package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/odooops/autoaggregate/internal/checkout"
	"github.com/odooops/autoaggregate/internal/resolver"
	"github.com/odooops/autoaggregate/internal/settings"
)

const (
	testReposManifestFileNameConstant  = "repos.yaml"
	testAddonsManifestFileNameConstant = "addons.yaml"
	testAddonRepositoryNameConstant    = "mod_a"
	testSecondAddonNameConstant        = "server-tools"
	testDepthLiteralConstant           = "1"
	testVersionLiteralConstant         = "16.0"
	testAmbientDepthConstant           = "42"
	testAmbientVersionConstant         = "15.0"
)

type resolverFixture struct {
	layout      checkout.Layout
	environment settings.Environment
}

func newResolverFixture(testInstance *testing.T) *resolverFixture {
	testInstance.Helper()

	sourceRoot := testInstance.TempDir()
	fixtureLayout := checkout.Layout{SourceRoot: sourceRoot}.Normalized()
	fixtureEnvironment := settings.Environment{
		settings.RepositoryPatternVariableNameConstant: "https://x/{}.git",
		settings.CorePatternVariableNameConstant:       "https://x/odoo-{}.git",
		settings.DepthDefaultVariableNameConstant:      testAmbientDepthConstant,
		settings.OdooVersionVariableNameConstant:       testAmbientVersionConstant,
	}

	return &resolverFixture{layout: fixtureLayout, environment: fixtureEnvironment}
}

func (fixture *resolverFixture) writeManifest(testInstance *testing.T, manifestFileName string, manifestContent string) {
	testInstance.Helper()
	manifestFilePath := filepath.Join(fixture.layout.SourceRoot, manifestFileName)
	require.NoError(testInstance, os.WriteFile(manifestFilePath, []byte(manifestContent), 0o600))
}

func (fixture *resolverFixture) newService(testInstance *testing.T) *resolver.Service {
	testInstance.Helper()
	service, serviceError := resolver.NewService(resolver.ServiceDependencies{Logger: zap.NewNop(), Environment: fixture.environment})
	require.NoError(testInstance, serviceError)
	return service
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, missingLoggerError := resolver.NewService(resolver.ServiceDependencies{Environment: settings.Environment{}})
	require.ErrorIs(testInstance, missingLoggerError, resolver.ErrLoggerNotConfigured)

	_, missingEnvironmentError := resolver.NewService(resolver.ServiceDependencies{Logger: zap.NewNop()})
	require.ErrorIs(testInstance, missingEnvironmentError, resolver.ErrEnvironmentNotConfigured)
}

func TestComputeMissingAlwaysExpectsCoreCheckout(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)
	require.Len(testInstance, missingRepositories, 1)

	coreConfiguration, corePresent := missingRepositories[fixture.layout.CoreCheckoutPath()]
	require.True(testInstance, corePresent)
	require.Equal(testInstance, "https://x/odoo-odoo.git", coreConfiguration.Remotes["origin"])
	require.Equal(testInstance, testAmbientDepthConstant, coreConfiguration.Defaults.Depth)
	require.Equal(testInstance, []string{"origin " + testAmbientVersionConstant}, coreConfiguration.Merges)
}

func TestComputeMissingExcludesDefinedRepositories(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	fixture.writeManifest(testInstance, testReposManifestFileNameConstant, "odoo: {}\nmod_a: {}\n")
	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant, "ODOO: {}\nmod_a: {}\nserver-tools: {}\n")

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)

	require.NotContains(testInstance, missingRepositories, fixture.layout.ResolveRepositoryPath(testAddonRepositoryNameConstant))
	require.NotContains(testInstance, missingRepositories, fixture.layout.CoreCheckoutPath())
	require.Contains(testInstance, missingRepositories, fixture.layout.ResolveRepositoryPath(testSecondAddonNameConstant))
}

func TestComputeMissingSynthesizesWorkedExample(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	delete(fixture.environment, settings.DepthDefaultVariableNameConstant)
	delete(fixture.environment, settings.OdooVersionVariableNameConstant)

	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant,
		"ODOO: {}\nmod_a: {}\nENV:\n  DEPTH_DEFAULT: \"1\"\n  ODOO_VERSION: \"16.0\"\n")

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)
	require.Len(testInstance, missingRepositories, 2)

	addonConfiguration := missingRepositories[fixture.layout.ResolveRepositoryPath(testAddonRepositoryNameConstant)]
	require.Equal(testInstance, "https://x/mod_a.git", addonConfiguration.Remotes["origin"])
	require.Equal(testInstance, []string{"origin " + testVersionLiteralConstant}, addonConfiguration.Merges)
	require.Equal(testInstance, testDepthLiteralConstant, addonConfiguration.Defaults.Depth)
	require.Equal(testInstance, "origin "+testVersionLiteralConstant, addonConfiguration.Target)

	coreConfiguration := missingRepositories[fixture.layout.CoreCheckoutPath()]
	require.Equal(testInstance, "https://x/odoo-odoo.git", coreConfiguration.Remotes["origin"])
}

func TestComputeMissingExcludesExistingNonGitPaths(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant, "mod_a: {}\nserver-tools: {}\n")

	occupiedPath := fixture.layout.ResolveRepositoryPath(testAddonRepositoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(occupiedPath, 0o755))

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)

	require.NotContains(testInstance, missingRepositories, occupiedPath)
	require.Contains(testInstance, missingRepositories, fixture.layout.ResolveRepositoryPath(testSecondAddonNameConstant))
}

func TestComputeMissingIncludesExistingGitWorkingTrees(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant, "mod_a: {}\n")

	workingTreePath := fixture.layout.ResolveRepositoryPath(testAddonRepositoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workingTreePath, ".git"), 0o755))

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)
	require.Contains(testInstance, missingRepositories, workingTreePath)
}

func TestComputeMissingFailsWithoutMandatoryVariables(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	delete(fixture.environment, settings.DepthDefaultVariableNameConstant)

	service := fixture.newService(testInstance)

	_, computeError := service.ComputeMissing(fixture.layout)
	require.Error(testInstance, computeError)

	missingVariable := &settings.MissingVariableError{}
	require.ErrorAs(testInstance, computeError, &missingVariable)
	require.Equal(testInstance, settings.DepthDefaultVariableNameConstant, missingVariable.VariableName)
}

func TestComputeMissingTreatsUnparsableManifestsAsEmpty(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	fixture.writeManifest(testInstance, testReposManifestFileNameConstant, "broken: [\n")
	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant, "also broken: [\n")

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)

	// Only the always-expected core checkout remains.
	require.Len(testInstance, missingRepositories, 1)
	require.Contains(testInstance, missingRepositories, fixture.layout.CoreCheckoutPath())
}

func TestSerializeProducesAggregationToolSchema(testInstance *testing.T) {
	fixture := newResolverFixture(testInstance)
	fixture.writeManifest(testInstance, testAddonsManifestFileNameConstant, "mod_a: {}\n")

	service := fixture.newService(testInstance)

	missingRepositories, computeError := service.ComputeMissing(fixture.layout)
	require.NoError(testInstance, computeError)

	serializedConfiguration, serializeError := missingRepositories.Serialize()
	require.NoError(testInstance, serializeError)

	serializedText := string(serializedConfiguration)
	require.Contains(testInstance, serializedText, fixture.layout.ResolveRepositoryPath(testAddonRepositoryNameConstant)+":")
	require.Contains(testInstance, serializedText, "depth: \""+testAmbientDepthConstant+"\"")
	require.Contains(testInstance, serializedText, "origin: https://x/mod_a.git")
	require.Contains(testInstance, serializedText, "- origin "+testAmbientVersionConstant)
	require.Contains(testInstance, serializedText, "target: origin "+testAmbientVersionConstant)
}
