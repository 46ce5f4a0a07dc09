package build

import (
	"strings"

	"github.com/odooops/autoaggregate/internal/checkout"
)

const (
	checkoutConfigurationKeyConstant  = "checkout"
	toolConfigurationKeyConstant      = "tool"
	defaultToolNameConstant           = "gitaggregate"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the run command.
type CommandConfiguration struct {
	Checkout checkout.Layout `mapstructure:"checkout"`
	ToolName string          `mapstructure:"tool"`
}

// DefaultConfigurationValues exposes run-command defaults for configuration loading under the supplied prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaultValues := checkout.DefaultConfigurationValues(configurationPrefix + configurationKeySeparatorConstant + checkoutConfigurationKeyConstant)
	defaultValues[configurationPrefix+configurationKeySeparatorConstant+toolConfigurationKeyConstant] = defaultToolNameConstant
	return defaultValues
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ToolName = strings.TrimSpace(configuration.ToolName)
	return sanitized
}
