// Package appconfig loads the engine's own operational tunables (batch
// sizes, worker pool bounds, ignore lists, log file path) from a YAML
// file, writing sane defaults on first run. This is distinct from
// internal/uiconfig, which speaks the UI collaborator's JSON contract.
package appconfig

import (
	"gopkg.in/yaml.v3"
	"log"
	"os"
	"path"
)

type yamlConfig struct {
	IsDebug                     bool     `yaml:"debug"`
	LogFilePath                 string   `yaml:"log_file_path"`
	HashCachePath               string   `yaml:"hash_cache_path"`
	BatchSize                   int64    `yaml:"batch_size"`
	MaxConcurrentHashOperations int64    `yaml:"max_concurrent_hash_operations"`
	ProgressUpdateEvery         int64    `yaml:"progress_update_every"`
	FileNamesToIgnore           []string `yaml:"file_names_to_ignore"`
	FolderNamesToIgnore         []string `yaml:"folder_names_to_ignore"`
}

// Config is the parsed, ready-to-use form of the operational settings.
type Config struct {
	IsDebug                     bool
	LogFilePath                 string
	HashCachePath               string
	BatchSize                   int64
	MaxConcurrentHashOperations int64
	ProgressUpdateEvery         int64
	FileNamesToIgnore           []string
	FolderNamesToIgnore         []string
}

// DefaultYAML is written to disk the first time no config file is found.
var DefaultYAML = []byte(`debug: false
log_file_path: ""
hash_cache_path: ""
batch_size: 500
max_concurrent_hash_operations: 8
progress_update_every: 25
file_names_to_ignore:
  - .DS_Store
  - Thumbs.db
folder_names_to_ignore:
  - .git
  - node_modules
`)

// Load reads configFilePath, creating it with DefaultYAML if it does not exist.
func Load(configFilePath string) (*Config, error) {
	if _, err := os.Stat(configFilePath); err != nil {
		log.Print("No app config file found. Creating a new one...")
		if err := os.WriteFile(configFilePath, DefaultYAML, 0o600); err != nil {
			return nil, err
		}
	}

	return parseConfigFile(configFilePath)
}

func parseConfigFile(configFilePath string) (*Config, error) {
	yamlFile, err := os.ReadFile(path.Clean(configFilePath))
	if err != nil {
		return nil, err
	}

	raw := &yamlConfig{}
	if err := yaml.Unmarshal(yamlFile, raw); err != nil {
		return nil, err
	}

	return &Config{
		IsDebug:                     raw.IsDebug,
		LogFilePath:                 raw.LogFilePath,
		HashCachePath:               raw.HashCachePath,
		BatchSize:                   raw.BatchSize,
		MaxConcurrentHashOperations: raw.MaxConcurrentHashOperations,
		ProgressUpdateEvery:         raw.ProgressUpdateEvery,
		FileNamesToIgnore:           raw.FileNamesToIgnore,
		FolderNamesToIgnore:         raw.FolderNamesToIgnore,
	}, nil
}
