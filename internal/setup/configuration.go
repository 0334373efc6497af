package setup

import (
	"strings"

	"github.com/temirov/npm-oidc-setup/internal/npmcli"
	pathutils "github.com/temirov/npm-oidc-setup/internal/utils/path"
)

var setupConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	accessConfigurationKeySuffixConstant        = ".access"
	dryRunConfigurationKeySuffixConstant        = ".dry_run"
	temporaryRootConfigurationKeySuffixConstant = ".temp_root"
)

// Configuration aggregates settings for the setup command.
type Configuration struct {
	Access        string `mapstructure:"access"`
	DryRun        bool   `mapstructure:"dry_run"`
	TemporaryRoot string `mapstructure:"temp_root"`
}

// DefaultConfiguration supplies baseline values for setup configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		Access: string(npmcli.PublicAccessLevel),
	}
}

// DefaultConfigurationValues exposes viper defaults under the provided configuration key.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + accessConfigurationKeySuffixConstant:        string(npmcli.PublicAccessLevel),
		configurationKey + dryRunConfigurationKeySuffixConstant:        false,
		configurationKey + temporaryRootConfigurationKeySuffixConstant: "",
	}
}

// Sanitize trims configured values and expands home-relative temporary roots.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Access = strings.TrimSpace(configuration.Access)
	sanitized.TemporaryRoot = strings.TrimSpace(configuration.TemporaryRoot)
	if len(sanitized.TemporaryRoot) > 0 {
		sanitized.TemporaryRoot = setupConfigurationHomeDirectoryExpander.Expand(sanitized.TemporaryRoot)
	}
	return sanitized
}
