package checkout_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odooops/autoaggregate/internal/checkout"
)

const (
	testSourceRootConstant    = "/srv/build/src"
	testCoreDirectoryConstant = "odoo"
	testCoreKeyConstant       = "ODOO"
)

func TestDefaultLayoutDerivesManifestPaths(testInstance *testing.T) {
	defaultLayout := checkout.DefaultLayout()

	require.Equal(testInstance, "/opt/odoo/custom/src", defaultLayout.SourceRoot)
	require.Equal(testInstance, filepath.Join(defaultLayout.SourceRoot, "repos.yaml"), defaultLayout.RepositoryManifestPath)
	require.Equal(testInstance, filepath.Join(defaultLayout.SourceRoot, "addons.yaml"), defaultLayout.AddonsManifestPath)
	require.Equal(testInstance, filepath.Join(defaultLayout.SourceRoot, "repos.auto.yaml"), defaultLayout.GeneratedManifestPath)
	require.Equal(testInstance, filepath.Join(defaultLayout.SourceRoot, "odoo"), defaultLayout.CoreCheckoutPath())
}

func TestNormalizedPreservesExplicitManifestPaths(testInstance *testing.T) {
	configuredLayout := checkout.Layout{
		SourceRoot:             testSourceRootConstant,
		CoreDirectoryName:      testCoreDirectoryConstant,
		CoreManifestKey:        testCoreKeyConstant,
		RepositoryManifestPath: "/etc/build/repos.yaml",
	}.Normalized()

	require.Equal(testInstance, "/etc/build/repos.yaml", configuredLayout.RepositoryManifestPath)
	require.Equal(testInstance, filepath.Join(testSourceRootConstant, "addons.yaml"), configuredLayout.AddonsManifestPath)
}

func TestResolveRepositoryPath(testInstance *testing.T) {
	configuredLayout := checkout.Layout{
		SourceRoot:        testSourceRootConstant,
		CoreDirectoryName: testCoreDirectoryConstant,
		CoreManifestKey:   testCoreKeyConstant,
	}.Normalized()

	testCases := []struct {
		name         string
		manifestKey  string
		expectedPath string
	}{
		{
			name:         "core_key_maps_to_core_checkout",
			manifestKey:  testCoreKeyConstant,
			expectedPath: filepath.Join(testSourceRootConstant, testCoreDirectoryConstant),
		},
		{
			name:         "relative_key_joins_source_root",
			manifestKey:  "server-tools",
			expectedPath: filepath.Join(testSourceRootConstant, "server-tools"),
		},
		{
			name:         "absolute_key_is_cleaned",
			manifestKey:  "/srv/elsewhere//repo",
			expectedPath: "/srv/elsewhere/repo",
		},
		{
			name:         "surrounding_whitespace_is_trimmed",
			manifestKey:  "  web ",
			expectedPath: filepath.Join(testSourceRootConstant, "web"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, configuredLayout.ResolveRepositoryPath(testCase.manifestKey))
		})
	}
}
