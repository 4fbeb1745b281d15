// Package config loads the run configuration (spec.md §6) from a YAML
// file into a typed config struct rather than ad hoc flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultNPrevious is the number of periods before CurrentPeriod to
// sweep in addition to it (spec.md §6).
const defaultNPrevious = 8

// Config is the full set of run parameters.
type Config struct {
	CurrentPeriod       string        `yaml:"currentPeriod"`
	NPrevious           int           `yaml:"nPrevious"`
	SourceSheetURL      string        `yaml:"sourceSheetUrl"`
	SourceWorksheet     string        `yaml:"sourceWorksheet"`
	SourceColumn        string        `yaml:"sourceColumn"`
	TargetSheetURL      string        `yaml:"targetSheetUrl"`
	CredentialsFile     string        `yaml:"credentialsFile"`
	DelayBetweenCedulas time.Duration `yaml:"delayBetweenCedulas"`
	Concurrency         int           `yaml:"concurrency"`
	BaseURL             string        `yaml:"baseUrl"`
	ReportDir           string        `yaml:"reportDir"`
}

// rawConfig mirrors Config but accepts delayBetweenCedulas as a Go
// duration string (e.g. "5s", "500ms"), since yaml.v3 has no built-in
// decoding for time.Duration.
type rawConfig struct {
	CurrentPeriod       string `yaml:"currentPeriod"`
	NPrevious           int    `yaml:"nPrevious"`
	SourceSheetURL      string `yaml:"sourceSheetUrl"`
	SourceWorksheet     string `yaml:"sourceWorksheet"`
	SourceColumn        string `yaml:"sourceColumn"`
	TargetSheetURL      string `yaml:"targetSheetUrl"`
	CredentialsFile     string `yaml:"credentialsFile"`
	DelayBetweenCedulas string `yaml:"delayBetweenCedulas"`
	Concurrency         int    `yaml:"concurrency"`
	BaseURL             string `yaml:"baseUrl"`
	ReportDir           string `yaml:"reportDir"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	c := Config{
		CurrentPeriod:   raw.CurrentPeriod,
		NPrevious:       raw.NPrevious,
		SourceSheetURL:  raw.SourceSheetURL,
		SourceWorksheet: raw.SourceWorksheet,
		SourceColumn:    raw.SourceColumn,
		TargetSheetURL:  raw.TargetSheetURL,
		CredentialsFile: raw.CredentialsFile,
		Concurrency:     raw.Concurrency,
		BaseURL:         raw.BaseURL,
		ReportDir:       raw.ReportDir,
	}

	if raw.DelayBetweenCedulas != "" {
		d, err := time.ParseDuration(raw.DelayBetweenCedulas)
		if err != nil {
			return nil, fmt.Errorf("config: %s: delayBetweenCedulas: %w", path, err)
		}
		c.DelayBetweenCedulas = d
	}

	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.NPrevious == 0 {
		c.NPrevious = defaultNPrevious
	}
	if c.DelayBetweenCedulas == 0 {
		c.DelayBetweenCedulas = 2 * time.Second
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *Config) validate() error {
	missing := map[string]string{
		"currentPeriod":  c.CurrentPeriod,
		"sourceSheetUrl": c.SourceSheetURL,
		"targetSheetUrl": c.TargetSheetURL,
	}
	for field, v := range missing {
		if v == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	if c.NPrevious < 0 {
		return fmt.Errorf("nPrevious must be non-negative, got %d", c.NPrevious)
	}
	return nil
}
