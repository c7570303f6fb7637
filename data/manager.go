package data

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ebiten-floors/logger"
)

//go:embed tilesets/default.yaml
var defaultTileset embed.FS

// TemplateManager holds every loaded template, keyed by name or id.
// Later loads replace templates with the same key.
type TemplateManager struct {
	Tiles    map[string]*TileTemplate
	Features map[string]*FeatureTemplate
	Items    map[string]*ItemTemplate
	Entities map[string]*EntityTemplate
}

// NewTemplateManager creates an empty template manager
func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		Tiles:    make(map[string]*TileTemplate),
		Features: make(map[string]*FeatureTemplate),
		Items:    make(map[string]*ItemTemplate),
		Entities: make(map[string]*EntityTemplate),
	}
}

// LoadDefault creates a manager holding the built-in tileset
func LoadDefault() (*TemplateManager, error) {
	raw, err := defaultTileset.ReadFile("tilesets/default.yaml")
	if err != nil {
		return nil, err
	}
	m := NewTemplateManager()
	if err := m.Load(bytes.NewReader(raw), "default tileset"); err != nil {
		return nil, err
	}
	return m, nil
}

// Load decodes one tileset document and adds its templates. source names the
// input in error messages.
func (m *TemplateManager) Load(r io.Reader, source string) error {
	var ts Tileset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ts); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s: %w", source, err)
	}

	for i := range ts.Tiles {
		t := &ts.Tiles[i]
		if err := ValidateTileTemplate(t); err != nil {
			return fmt.Errorf("invalid tile template in %s: %w", source, err)
		}
		m.Tiles[t.Name] = t
	}
	for i := range ts.Features {
		t := &ts.Features[i]
		if err := ValidateFeatureTemplate(t); err != nil {
			return fmt.Errorf("invalid feature template in %s: %w", source, err)
		}
		m.Features[t.ID] = t
	}
	for i := range ts.Items {
		t := &ts.Items[i]
		if err := ValidateItemTemplate(t); err != nil {
			return fmt.Errorf("invalid item template in %s: %w", source, err)
		}
		m.Items[t.ID] = t
	}
	for i := range ts.Entities {
		t := &ts.Entities[i]
		if err := ValidateEntityTemplate(t); err != nil {
			return fmt.Errorf("invalid entity template in %s: %w", source, err)
		}
		m.Entities[t.ID] = t
	}

	logger.Debug("tileset loaded",
		zap.String("source", source),
		zap.Int("tiles", len(ts.Tiles)),
		zap.Int("features", len(ts.Features)),
		zap.Int("items", len(ts.Items)),
		zap.Int("entities", len(ts.Entities)))
	return nil
}

// LoadFile loads a single YAML tileset file
func (m *TemplateManager) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Load(f, path)
}

// LoadDirectory loads all YAML files from a directory in name order
func (m *TemplateManager) LoadDirectory(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read template directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if err := m.LoadFile(filepath.Join(dirPath, entry.Name())); err != nil {
			return fmt.Errorf("failed to load templates from %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// LoadPath loads a file or, when path is a directory, every YAML file in it
func (m *TemplateManager) LoadPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return m.LoadDirectory(path)
	}
	return m.LoadFile(path)
}

// GetTile returns a tile template by name
func (m *TemplateManager) GetTile(name string) (*TileTemplate, error) {
	if t, ok := m.Tiles[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("tile %q: %w", name, ErrUnknownTemplate)
}

// GetFeature returns a feature template by id
func (m *TemplateManager) GetFeature(id string) (*FeatureTemplate, error) {
	if t, ok := m.Features[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("feature %q: %w", id, ErrUnknownTemplate)
}

// GetItem returns an item template by id
func (m *TemplateManager) GetItem(id string) (*ItemTemplate, error) {
	if t, ok := m.Items[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("item %q: %w", id, ErrUnknownTemplate)
}

// GetEntity returns an entity template by id
func (m *TemplateManager) GetEntity(id string) (*EntityTemplate, error) {
	if t, ok := m.Entities[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("entity %q: %w", id, ErrUnknownTemplate)
}

// EntitiesTagged returns the entity templates carrying tag, sorted by id
func (m *TemplateManager) EntitiesTagged(tag string) []*EntityTemplate {
	var out []*EntityTemplate
	for _, t := range m.Entities {
		if slices.Contains(t.Tags, tag) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *EntityTemplate) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// ItemsByID returns every item template sorted by id
func (m *TemplateManager) ItemsByID() []*ItemTemplate {
	out := make([]*ItemTemplate, 0, len(m.Items))
	for _, t := range m.Items {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *ItemTemplate) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
