package engine

import (
	"github.com/spaghettifunk/anima-choreographer/engine/config"
)

type ApplicationConfig struct {
	// Path of the TOML configuration. When empty the defaults are used and
	// nothing is watched.
	ConfigPath string
	// Reload the configuration when the file changes on disk.
	WatchConfig bool
	// Used instead of ConfigPath when set.
	Config *config.Config
}

// load resolves the configuration the application starts with.
func (ac *ApplicationConfig) load() (*config.Config, error) {
	if ac.Config != nil {
		if err := ac.Config.Validate(); err != nil {
			return nil, err
		}
		return ac.Config, nil
	}
	if ac.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(ac.ConfigPath)
}
