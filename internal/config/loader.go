package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/pagectl"
	projectConfigDir = ".pagectl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the pagectl configuration by layering default, user, and
// project settings.
func LoadConfig() (PagectlConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return PagectlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return PagectlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a PagectlConfig from a YAML file.
func loadConfigFromFile(filePath string) (PagectlConfig, error) {
	var config PagectlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return PagectlConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return PagectlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in the
// overlay leave the base value in place.
func mergeConfigs(base, overlay PagectlConfig) PagectlConfig {
	merged := base

	if overlay.Service.URL != "" {
		merged.Service.URL = overlay.Service.URL
	}

	if overlay.Serve.Host != "" {
		merged.Serve.Host = overlay.Serve.Host
	}
	if overlay.Serve.Port != 0 {
		merged.Serve.Port = overlay.Serve.Port
	}

	if overlay.Convert.DPI != 0 {
		merged.Convert.DPI = overlay.Convert.DPI
	}
	if overlay.Convert.BlankThreshold != 0 {
		merged.Convert.BlankThreshold = overlay.Convert.BlankThreshold
	}
	if overlay.Convert.SofficeBinary != "" {
		merged.Convert.SofficeBinary = overlay.Convert.SofficeBinary
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
