package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, loaded from YAML with flag overrides
// applied afterwards.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

type DatasetConfig struct {
	// Source selects where the dataset lives: local, s3 or minio.
	Source string `yaml:"source"`
	// File is the object name, e.g. people.csv or people.csv.gz.
	File string `yaml:"file"`
	// Root is the directory for the local source.
	Root string `yaml:"root"`

	// Object store settings (s3 and minio sources).
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`     // s3
	Endpoint  string `yaml:"endpoint"`   // minio, host:port
	AccessKey string `yaml:"access_key"` // minio
	SecretKey string `yaml:"secret_key"` // minio
	Secure    bool   `yaml:"secure"`     // minio, use TLS
}

type StoreConfig struct {
	// Undirected mirrors every relation edge.
	Undirected bool `yaml:"undirected"`
	// TraversalOrder is the DFS neighbor policy: insertion, ascending
	// or descending.
	TraversalOrder string `yaml:"traversal_order"`
	// Workers is the parser pool size for bulk loads; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// LoadConfig reads the YAML config at configPath. With an empty path it
// probes configs/recgo.yaml and recgo.yaml and falls back to defaults
// when neither exists.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			Source: "local",
			File:   "people.csv",
			Root:   ".",
			Region: "us-east-1",
		},
		Store: StoreConfig{
			TraversalOrder: "insertion",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}

	if configPath == "" {
		for _, p := range []string{"configs/recgo.yaml", "recgo.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				return cfg, nil
			}
		}
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
