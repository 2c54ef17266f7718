package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

type resourcesFile struct {
	Resources []resourceEntry `yaml:"resources"`
}

type resourceEntry struct {
	Name     string `yaml:"name"`
	Enabled  *bool  `yaml:"enabled"`
	Interval string `yaml:"interval"`
	Refresh  string `yaml:"refresh"`
}

// LoadResourceOverrides reads per-resource overrides from a YAML file.
// ${VAR} references are expanded from the environment before parsing.
func LoadResourceOverrides(path string) ([]resource.Override, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read SYNC_RESOURCES_FILE %s: %w", path, err)
	}
	return ParseResourceOverrides([]byte(os.ExpandEnv(string(raw))))
}

func ParseResourceOverrides(raw []byte) ([]resource.Override, error) {
	var file resourcesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse resource overrides: %w", err)
	}

	out := make([]resource.Override, 0, len(file.Resources))
	for i, entry := range file.Resources {
		name, ok := resource.ParseName(entry.Name)
		if !ok {
			return nil, fmt.Errorf("resources[%d]: unknown resource %q", i, entry.Name)
		}
		ov := resource.Override{Name: name, Enabled: entry.Enabled}
		if entry.Interval != "" {
			interval, err := time.ParseDuration(entry.Interval)
			if err != nil {
				return nil, fmt.Errorf("resources[%d] %s: parse interval: %w", i, name, err)
			}
			if interval <= 0 {
				return nil, fmt.Errorf("resources[%d] %s: interval must be > 0", i, name)
			}
			ov.Interval = interval
		}
		if entry.Refresh != "" {
			policy, err := resource.ParseRefreshPolicy(entry.Refresh)
			if err != nil {
				return nil, fmt.Errorf("resources[%d] %s: %w", i, name, err)
			}
			ov.Refresh = policy
		}
		out = append(out, ov)
	}
	return out, nil
}

// Registry builds the resource registry with cfg's default interval and overrides applied.
func (c Config) Registry() (*resource.Registry, error) {
	items, err := resource.ApplyOverrides(resource.Defaults(c.SyncDefaultInterval), c.ResourceOverrides)
	if err != nil {
		return nil, err
	}
	return resource.NewRegistry(items)
}
