package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseSettingsDir returns the directory holding the active settings file,
// falling back to ./.agentchat when no file was read.
func BaseSettingsDir() string {
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	currentConfig := viper.ConfigFileUsed()
	if currentConfig == "" {
		return ".agentchat"
	}
	return filepath.Dir(currentConfig)
}

// ResolvePath anchors a relative target under the settings directory.
// Absolute targets and targets with an explicit directory are returned as-is.
func ResolvePath(target string) string {
	if filepath.IsAbs(target) || filepath.Dir(target) != "." {
		return target
	}
	return filepath.Join(BaseSettingsDir(), target)
}
