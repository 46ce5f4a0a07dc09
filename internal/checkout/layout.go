package checkout

import (
	"path/filepath"
	"strings"
)

const (
	defaultSourceRootConstant          = "/opt/odoo/custom/src"
	defaultCoreDirectoryNameConstant   = "odoo"
	defaultCoreManifestKeyConstant     = "ODOO"
	defaultRepositoryManifestFileName  = "repos.yaml"
	defaultAddonsManifestFileName      = "addons.yaml"
	defaultGeneratedManifestFileName   = "repos.auto.yaml"
	sourceRootConfigurationKeyConstant = "source_root"
	coreDirectoryConfigurationKey      = "core_directory"
	coreManifestKeyConfigurationKey    = "core_key"
	repositoryManifestConfigurationKey = "repos_file"
	addonsManifestConfigurationKey     = "addons_file"
	generatedManifestConfigurationKey  = "auto_repos_file"
	configurationKeySeparatorConstant  = "."
)

// Layout locates the source tree and its manifests.
type Layout struct {
	SourceRoot             string `mapstructure:"source_root"`
	CoreDirectoryName      string `mapstructure:"core_directory"`
	CoreManifestKey        string `mapstructure:"core_key"`
	RepositoryManifestPath string `mapstructure:"repos_file"`
	AddonsManifestPath     string `mapstructure:"addons_file"`
	GeneratedManifestPath  string `mapstructure:"auto_repos_file"`
}

// DefaultLayout returns the layout of a standard containerized checkout.
func DefaultLayout() Layout {
	return Layout{
		SourceRoot:        defaultSourceRootConstant,
		CoreDirectoryName: defaultCoreDirectoryNameConstant,
		CoreManifestKey:   defaultCoreManifestKeyConstant,
	}.Normalized()
}

// DefaultConfigurationValues exposes layout defaults for configuration loading under the supplied prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + sourceRootConfigurationKeyConstant: defaultSourceRootConstant,
		configurationPrefix + configurationKeySeparatorConstant + coreDirectoryConfigurationKey:      defaultCoreDirectoryNameConstant,
		configurationPrefix + configurationKeySeparatorConstant + coreManifestKeyConfigurationKey:    defaultCoreManifestKeyConstant,
	}
}

// Normalized fills derived paths and trims configuration values. Manifest
// paths left empty resolve to the conventional files inside the source root.
func (layout Layout) Normalized() Layout {
	normalizedLayout := layout

	normalizedLayout.SourceRoot = strings.TrimSpace(layout.SourceRoot)
	if len(normalizedLayout.SourceRoot) == 0 {
		normalizedLayout.SourceRoot = defaultSourceRootConstant
	}

	normalizedLayout.CoreDirectoryName = strings.TrimSpace(layout.CoreDirectoryName)
	if len(normalizedLayout.CoreDirectoryName) == 0 {
		normalizedLayout.CoreDirectoryName = defaultCoreDirectoryNameConstant
	}

	normalizedLayout.CoreManifestKey = strings.TrimSpace(layout.CoreManifestKey)
	if len(normalizedLayout.CoreManifestKey) == 0 {
		normalizedLayout.CoreManifestKey = defaultCoreManifestKeyConstant
	}

	normalizedLayout.RepositoryManifestPath = strings.TrimSpace(layout.RepositoryManifestPath)
	if len(normalizedLayout.RepositoryManifestPath) == 0 {
		normalizedLayout.RepositoryManifestPath = filepath.Join(normalizedLayout.SourceRoot, defaultRepositoryManifestFileName)
	}

	normalizedLayout.AddonsManifestPath = strings.TrimSpace(layout.AddonsManifestPath)
	if len(normalizedLayout.AddonsManifestPath) == 0 {
		normalizedLayout.AddonsManifestPath = filepath.Join(normalizedLayout.SourceRoot, defaultAddonsManifestFileName)
	}

	normalizedLayout.GeneratedManifestPath = strings.TrimSpace(layout.GeneratedManifestPath)
	if len(normalizedLayout.GeneratedManifestPath) == 0 {
		normalizedLayout.GeneratedManifestPath = filepath.Join(normalizedLayout.SourceRoot, defaultGeneratedManifestFileName)
	}

	return normalizedLayout
}

// CoreCheckoutPath is the absolute path of the core product checkout.
func (layout Layout) CoreCheckoutPath() string {
	return filepath.Join(layout.SourceRoot, layout.CoreDirectoryName)
}

// ResolveRepositoryPath maps a manifest key onto an absolute repository path.
// The core manifest key resolves to the core checkout; every other key is a
// path relative to the source root.
func (layout Layout) ResolveRepositoryPath(manifestKey string) string {
	trimmedManifestKey := strings.TrimSpace(manifestKey)
	if trimmedManifestKey == layout.CoreManifestKey {
		return layout.CoreCheckoutPath()
	}
	if filepath.IsAbs(trimmedManifestKey) {
		return filepath.Clean(trimmedManifestKey)
	}
	return filepath.Join(layout.SourceRoot, trimmedManifestKey)
}
