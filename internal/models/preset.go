package models

import "time"

// Preset is a saved filter configuration
type Preset struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Source      string        `yaml:"source,omitempty"`
	GlobalLogic Logic         `yaml:"global_logic"`
	Groups      []FilterGroup `yaml:"groups"`
	Columns     []string      `yaml:"columns,omitempty"`
	CreatedAt   time.Time     `yaml:"created_at"`
	UpdatedAt   time.Time     `yaml:"updated_at"`
	LastUsed    time.Time     `yaml:"last_used,omitempty"`
	UsageCount  int           `yaml:"usage_count"`
}

// FilterSet returns the filter state stored in the preset
func (p Preset) FilterSet() FilterGroupSet {
	return FilterGroupSet{GlobalLogic: p.GlobalLogic, Groups: p.Groups}.Clone()
}
