package converge

import "strings"

const (
	revisionConfigurationKeySuffixConstant = ".revision"
	remoteConfigurationKeySuffixConstant   = ".remote"
	forceConfigurationKeySuffixConstant    = ".force"
	updateConfigurationKeySuffixConstant   = ".update"
)

// CommandConfiguration captures configuration values for the sync command.
type CommandConfiguration struct {
	RepositoryURL   string `mapstructure:"repo"`
	DestinationPath string `mapstructure:"dest"`
	Revision        string `mapstructure:"revision"`
	RemoteName      string `mapstructure:"remote"`
	Depth           int    `mapstructure:"depth"`
	Force           bool   `mapstructure:"force"`
	Update          bool   `mapstructure:"update"`
	DryRun          bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for sync.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Revision:   defaultRevisionSpecConstant,
		RemoteName: defaultRemoteNameConstant,
		Force:      true,
		Update:     true,
	}
}

// DefaultConfigurationValues exposes sync defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + revisionConfigurationKeySuffixConstant: defaultRevisionSpecConstant,
		configurationKey + remoteConfigurationKeySuffixConstant:   defaultRemoteNameConstant,
		configurationKey + forceConfigurationKeySuffixConstant:    true,
		configurationKey + updateConfigurationKeySuffixConstant:   true,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.RepositoryURL = strings.TrimSpace(configuration.RepositoryURL)
	sanitized.DestinationPath = strings.TrimSpace(configuration.DestinationPath)
	sanitized.Revision = strings.TrimSpace(configuration.Revision)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if sanitized.Depth < 0 {
		sanitized.Depth = 0
	}

	return sanitized
}
