package coach

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type CatalogEntry struct {
	Key       string `yaml:"key"`
	Label     string `yaml:"label"`
	AIContext string `yaml:"ai_context"`
}

type catalog struct {
	Presets []CatalogEntry `yaml:"presets"`
}

// DefaultCatalog parses the embedded default presets.
func DefaultCatalog() ([]CatalogEntry, error) {
	return parseCatalog(defaultsYAML)
}

func parseCatalog(raw []byte) ([]CatalogEntry, error) {
	var c catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}
	seen := make(map[string]bool, len(c.Presets))
	for _, e := range c.Presets {
		if err := ValidateKey(e.Key); err != nil {
			return nil, fmt.Errorf("preset catalog key %q: %w", e.Key, err)
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("preset catalog key %q: duplicate", e.Key)
		}
		seen[e.Key] = true
	}
	return c.Presets, nil
}

// catalogRows turns catalog entries into preset rows numbered in file order.
func catalogRows(tenantID string, entries []CatalogEntry) []NichePreset {
	rows := make([]NichePreset, 0, len(entries))
	for i, e := range entries {
		row := NichePreset{
			TenantID:  tenantID,
			Key:       e.Key,
			Label:     e.Label,
			Enabled:   true,
			SortOrder: i + 1,
		}
		if e.AIContext != "" {
			aiContext := e.AIContext
			row.AIContext = &aiContext
		}
		if row.Label == "" {
			row.Label = labelFromKey(e.Key)
		}
		rows = append(rows, row)
	}
	return rows
}
