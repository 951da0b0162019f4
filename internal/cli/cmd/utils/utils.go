package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothtft"
	"github.com/tidwall/pretty"
)

// CanonicalPath expands a leading ~ to $HOME.
func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return os.Getenv("HOME")
	}

	if strings.HasPrefix(path, "~/") {
		homeDir := os.Getenv("HOME")
		return strings.Replace(path, "~", homeDir, 1)
	}

	return path
}

func PrintJSONColored(data interface{}) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	log.Info(string(jPretty))
}

// ConfigDir is $XDG_CONFIG_HOME/smoothtft, falling back to ~/.config.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "smoothtft")
}

// InstallDefaultConfig writes the built-in config to dir unless a config
// is already there. It returns the path of the config file.
func InstallDefaultConfig(dir string) (string, error) {
	configPath := filepath.Join(dir, "smoothtft.toml")

	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("config file already exists at %v", configPath)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(smoothtft.DefaultConfig), 0644); err != nil {
		return "", fmt.Errorf("error writing config file: %w", err)
	}
	return configPath, nil
}
