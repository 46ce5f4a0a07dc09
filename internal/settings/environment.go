package settings

import (
	"fmt"
	"os"
	"strings"
)

const (
	environmentEntrySeparatorConstant        = "="
	environmentEntrySplitLimitConstant       = 2
	missingVariableMessageTemplateConstant   = "required environment variable %s is not set"
	DepthDefaultVariableNameConstant         = "DEPTH_DEFAULT"
	OdooVersionVariableNameConstant          = "ODOO_VERSION"
	RepositoryPatternVariableNameConstant    = "DEFAULT_REPO_PATTERN"
	CorePatternVariableNameConstant          = "DEFAULT_REPO_PATTERN_ODOO"
	LogLevelVariableNameConstant             = "LOG_LEVEL"
	UmaskVariableNameConstant                = "UMASK"
	OwnerUserIdentifierVariableNameConstant  = "UID"
	OwnerGroupIdentifierVariableNameConstant = "GID"
)

// MissingVariableError reports a mandatory environment variable that was absent.
type MissingVariableError struct {
	VariableName string
}

// Error names the missing variable.
func (missingVariable *MissingVariableError) Error() string {
	return fmt.Sprintf(missingVariableMessageTemplateConstant, missingVariable.VariableName)
}

// Environment is an immutable snapshot of environment variable assignments.
type Environment map[string]string

// CaptureEnvironment snapshots the ambient process environment.
func CaptureEnvironment() Environment {
	environmentEntries := os.Environ()
	capturedEnvironment := make(Environment, len(environmentEntries))
	for _, environmentEntry := range environmentEntries {
		entryParts := strings.SplitN(environmentEntry, environmentEntrySeparatorConstant, environmentEntrySplitLimitConstant)
		if len(entryParts) != environmentEntrySplitLimitConstant {
			continue
		}
		capturedEnvironment[entryParts[0]] = entryParts[1]
	}
	return capturedEnvironment
}

// Merged returns a copy of the environment with the supplied overrides applied on top.
func (environment Environment) Merged(overrides map[string]string) Environment {
	mergedEnvironment := make(Environment, len(environment)+len(overrides))
	for variableName, variableValue := range environment {
		mergedEnvironment[variableName] = variableValue
	}
	for variableName, variableValue := range overrides {
		mergedEnvironment[variableName] = variableValue
	}
	return mergedEnvironment
}

// Value returns the assignment for the named variable, or an empty string when unset.
func (environment Environment) Value(variableName string) string {
	return environment[variableName]
}

// Require returns the assignment for the named variable and fails with a
// MissingVariableError when the variable is unset. Mandatory build inputs carry
// no implicit defaults.
func (environment Environment) Require(variableName string) (string, error) {
	variableValue, variableExists := environment[variableName]
	if !variableExists {
		return "", &MissingVariableError{VariableName: variableName}
	}
	return variableValue, nil
}
