package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML settings file. Anything left empty
// falls back to env vars and defaults in main.
type FileConfig struct {
	Model        string `yaml:"model"`
	OAIBaseUrl   string `yaml:"oai_base_url"`
	WorkspaceDir string `yaml:"workspace_dir"`
	RegistryPath string `yaml:"registry_path"`
	PythonBin    string `yaml:"python_bin"`
	AllowInstall bool   `yaml:"allow_install"`
}

// LoadFileConfig reads settings from a YAML file. A missing file is not
// an error.
func LoadFileConfig(path string) (FileConfig, error) {
	var config FileConfig

	content, err := os.ReadFile(path)

	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return config, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return config, nil
}

// Apply overlays the file settings onto a base config, file values
// winning where set.
func (f FileConfig) Apply(base Config) Config {
	if f.Model != "" {
		base.Model = f.Model
	}

	if f.OAIBaseUrl != "" {
		base.OAIBaseUrl = f.OAIBaseUrl
	}

	if f.WorkspaceDir != "" {
		base.WorkspaceDir = f.WorkspaceDir
	}

	if f.RegistryPath != "" {
		base.RegistryPath = f.RegistryPath
	}

	if f.PythonBin != "" {
		base.PythonBin = f.PythonBin
	}

	if f.AllowInstall {
		base.AllowInstall = true
	}

	return base
}
