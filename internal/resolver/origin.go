package resolver

import (
	"path/filepath"
	"strings"

	"github.com/odooops/autoaggregate/internal/settings"
)

const basenamePlaceholderConstant = "{}"

// OriginFor derives the origin remote URL for a repository path by applying
// the environment's URL pattern to the path's basename. The core product
// checkout uses its dedicated pattern; every other repository uses the shared
// default pattern.
func OriginFor(effectiveEnvironment settings.Environment, repositoryPath string, coreDirectoryName string) (string, error) {
	repositoryBasename := filepath.Base(repositoryPath)

	patternVariableName := settings.RepositoryPatternVariableNameConstant
	if repositoryBasename == coreDirectoryName {
		patternVariableName = settings.CorePatternVariableNameConstant
	}

	originPattern, patternError := effectiveEnvironment.Require(patternVariableName)
	if patternError != nil {
		return "", patternError
	}

	return strings.ReplaceAll(originPattern, basenamePlaceholderConstant, repositoryBasename), nil
}
