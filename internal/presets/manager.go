package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/lazysheet/internal/models"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// Manager manages saved filter presets
type Manager struct {
	path    string
	presets []models.Preset
}

// NewManager creates a presets manager backed by presets.yaml in dir
func NewManager(dir string) (*Manager, error) {
	path := filepath.Join(dir, "presets.yaml")

	m := &Manager{
		path:    path,
		presets: []models.Preset{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}

	return m, nil
}

// Path returns the backing file
func (m *Manager) Path() string {
	return m.path
}

// Load loads presets from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	var loaded []models.Preset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}
	m.presets = loaded
	return nil
}

// Save writes presets to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}

func (m *Manager) checkName(id, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("preset name cannot be empty")
	}
	for _, p := range m.presets {
		if p.ID != id && strings.EqualFold(p.Name, name) {
			return "", fmt.Errorf("a preset with the name '%s' already exists (names are case-insensitive)", name)
		}
	}
	return name, nil
}

// Add stores a new preset built from a session snapshot
func (m *Manager) Add(p models.Preset) (*models.Preset, error) {
	name, err := m.checkName("", p.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.Name = name
	p.Description = strings.TrimSpace(p.Description)
	p.CreatedAt = now
	p.UpdatedAt = now
	p.UsageCount = 0
	p.LastUsed = time.Time{}

	m.presets = append(m.presets, p)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	return &p, nil
}

// Update replaces the filters of an existing preset, keeping its id and
// usage statistics
func (m *Manager) Update(id string, p models.Preset) error {
	name, err := m.checkName(id, p.Name)
	if err != nil {
		return err
	}

	for i, existing := range m.presets {
		if existing.ID != id {
			continue
		}
		m.presets[i].Name = name
		m.presets[i].Description = strings.TrimSpace(p.Description)
		m.presets[i].Source = p.Source
		m.presets[i].GlobalLogic = p.GlobalLogic
		m.presets[i].Groups = p.Groups
		m.presets[i].Columns = p.Columns
		m.presets[i].UpdatedAt = time.Now()
		if err := m.Save(); err != nil {
			return fmt.Errorf("failed to save preset: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: id '%s'", util.ErrPresetNotFound, id)
}

// Delete removes a preset by id
func (m *Manager) Delete(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets = append(m.presets[:i], m.presets[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save presets after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id '%s'", util.ErrPresetNotFound, id)
}

// Get returns a preset by id
func (m *Manager) Get(id string) (*models.Preset, error) {
	for _, p := range m.presets {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: id '%s'", util.ErrPresetNotFound, id)
}

// GetByName returns a preset by case-insensitive name
func (m *Manager) GetByName(name string) (*models.Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range m.presets {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", util.ErrPresetNotFound, name)
}

// List returns all presets sorted by name
func (m *Manager) List() []models.Preset {
	sorted := make([]models.Preset, len(m.presets))
	copy(sorted, m.presets)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// Search filters presets by name or description
func (m *Manager) Search(query string) []models.Preset {
	if query == "" {
		return m.List()
	}

	query = strings.ToLower(query)
	var results []models.Preset
	for _, p := range m.List() {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
		}
	}
	return results
}

// MarkUsed updates usage statistics for a preset
func (m *Manager) MarkUsed(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets[i].UsageCount++
			m.presets[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id '%s'", util.ErrPresetNotFound, id)
}

// Marshal returns the YAML encoding of a single preset
func Marshal(p models.Preset) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preset: %w", err)
	}
	return data, nil
}
