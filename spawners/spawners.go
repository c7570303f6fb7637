package spawners

import (
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/data"
	"ebiten-floors/ecs"
	"ebiten-floors/generation"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// Template ids the palette is built from
const (
	DoorID       = "door"
	UpstairsID   = "upstairs"
	DownstairsID = "downstairs"
)

// ObjectSpawner builds tiles, features, items and actors from loaded templates
type ObjectSpawner struct {
	templates *data.TemplateManager
	tiles     map[string]*components.Tile // Parsed tile prototypes, cloned on use
}

// NewObjectSpawner creates a new object spawner
func NewObjectSpawner(templates *data.TemplateManager) *ObjectSpawner {
	return &ObjectSpawner{
		templates: templates,
		tiles:     make(map[string]*components.Tile),
	}
}

// Templates returns the template manager backing the spawner
func (s *ObjectSpawner) Templates() *data.TemplateManager {
	return s.templates
}

// NewTile creates a tile from its template. Variant rules are parsed once
// and shared between tiles of the same name.
func (s *ObjectSpawner) NewTile(name string) (*components.Tile, error) {
	if proto, ok := s.tiles[name]; ok {
		return proto.Clone(), nil
	}
	template, err := s.templates.GetTile(name)
	if err != nil {
		return nil, err
	}

	proto := components.NewTile(template.Name, data.ParseGlyph(template.Glyph),
		data.ParseHexColor(template.Color), template.Walkable, template.BlocksLight)
	if template.Background != "" {
		proto.BG = data.ParseHexColor(template.Background)
	}
	for _, v := range template.Variants {
		proto.Variants = append(proto.Variants, components.VariantRule{
			Pattern:    ParsePattern(v.Pattern),
			Precedence: v.Precedence,
			Glyph:      data.ParseGlyph(v.Glyph),
		})
	}
	s.tiles[name] = proto
	return proto.Clone(), nil
}

// ParsePattern turns template pattern rows into a neighborhood. "*" and ""
// leave a position unset; a leading "!" marks a Different rule.
func ParsePattern(rows [][]string) components.TileNeighborhood {
	var n components.TileNeighborhood
	for y := 0; y < 3 && y < len(rows); y++ {
		for x := 0; x < 3 && x < len(rows[y]); x++ {
			entry := rows[y][x]
			switch {
			case entry == "" || entry == "*":
			case entry[0] == '!':
				n[y][x] = components.TileRule{Name: entry[1:], Different: true}
			default:
				n[y][x] = components.TileRule{Name: entry}
			}
		}
	}
	return n
}

// TileFactory returns a generation callback building the named tile. The
// template is checked up front so the callback cannot fail.
func (s *ObjectSpawner) TileFactory(name string) (generation.TileFactory, error) {
	if _, err := s.NewTile(name); err != nil {
		return nil, err
	}
	return func(geometry.Coord) *components.Tile {
		tile, _ := s.NewTile(name)
		return tile
	}, nil
}

var featureKinds = map[string]components.FeatureKind{
	"":           components.FeatureGeneric,
	"generic":    components.FeatureGeneric,
	"door":       components.FeatureDoor,
	"upstairs":   components.FeatureUpstairs,
	"downstairs": components.FeatureDownstairs,
}

// NewFeature creates a feature from its template
func (s *ObjectSpawner) NewFeature(id string) (*components.Feature, error) {
	template, err := s.templates.GetFeature(id)
	if err != nil {
		return nil, err
	}
	return &components.Feature{
		ID:             ecs.NewEntityID(),
		Name:           template.Name,
		Kind:           featureKinds[template.Kind],
		Glyph:          data.ParseGlyph(template.Glyph),
		FG:             data.ParseHexColor(template.Color),
		BlocksMovement: template.BlocksMovement,
		BlocksLight:    template.BlocksLight,
		Open:           template.Open,
	}, nil
}

// NewItem creates an item from its template
func (s *ObjectSpawner) NewItem(id string) (*components.Item, error) {
	template, err := s.templates.GetItem(id)
	if err != nil {
		return nil, err
	}
	return &components.Item{
		ID:    ecs.NewEntityID(),
		Name:  template.Name,
		Glyph: data.ParseGlyph(template.Glyph),
		FG:    data.ParseHexColor(template.Color),
	}, nil
}

// NewActor creates an actor from its template
func (s *ObjectSpawner) NewActor(id string) (*components.Actor, error) {
	template, err := s.templates.GetEntity(id)
	if err != nil {
		return nil, err
	}
	return &components.Actor{
		ID:           ecs.NewEntityID(),
		Name:         template.Name,
		Glyph:        data.ParseGlyph(template.Glyph),
		FG:           data.ParseHexColor(template.Color),
		Flying:       template.Flying,
		OpensDoors:   template.OpensDoors,
		VisionRadius: template.VisionRadius,
	}, nil
}

// FeatureFactory returns a generation callback building the feature
func (s *ObjectSpawner) FeatureFactory(id string) (generation.ObjectFactory, error) {
	if _, err := s.templates.GetFeature(id); err != nil {
		return nil, err
	}
	return func(geometry.Coord) components.Object {
		f, _ := s.NewFeature(id)
		return components.FeatureObject(f)
	}, nil
}

// ItemFactory returns a generation callback building the item
func (s *ObjectSpawner) ItemFactory(id string) (generation.ObjectFactory, error) {
	if _, err := s.templates.GetItem(id); err != nil {
		return nil, err
	}
	return func(geometry.Coord) components.Object {
		item, _ := s.NewItem(id)
		return components.ItemObject(item)
	}, nil
}

// ActorFactory returns a generation callback building the actor
func (s *ObjectSpawner) ActorFactory(id string) (generation.ObjectFactory, error) {
	if _, err := s.templates.GetEntity(id); err != nil {
		return nil, err
	}
	return func(geometry.Coord) components.Object {
		actor, _ := s.NewActor(id)
		return components.ActorObject(actor)
	}, nil
}

// Stairs builds a stair feature from the upstairs or downstairs template.
// Missing templates fall back to plain stairs.
func (s *ObjectSpawner) Stairs(pos geometry.Coord, portal *components.Portal, kind components.FeatureKind) *components.Feature {
	id := UpstairsID
	if kind == components.FeatureDownstairs {
		id = DownstairsID
	}
	f, err := s.NewFeature(id)
	if err != nil {
		logger.Warn("stair template missing, using plain stairs", zap.String("template", id), zap.Error(err))
		return generation.DefaultStairs(pos, portal, kind)
	}
	f.Kind = kind
	f.Portal = portal
	return f
}

// Palette builds the generation palette from the Ground and Wall tiles and
// the door and stair templates
func (s *ObjectSpawner) Palette() (generation.Palette, error) {
	ground, err := s.TileFactory(generation.GroundName)
	if err != nil {
		return generation.Palette{}, fmt.Errorf("palette: %w", err)
	}
	wall, err := s.TileFactory(generation.WallName)
	if err != nil {
		return generation.Palette{}, fmt.Errorf("palette: %w", err)
	}
	door, err := s.FeatureFactory(DoorID)
	if err != nil {
		return generation.Palette{}, fmt.Errorf("palette: %w", err)
	}
	for _, id := range []string{UpstairsID, DownstairsID} {
		if _, err := s.templates.GetFeature(id); err != nil {
			return generation.Palette{}, fmt.Errorf("palette: %w", err)
		}
	}
	return generation.Palette{
		Ground: ground,
		Wall:   wall,
		Door:   door,
		Stairs: s.Stairs,
	}, nil
}

// Player creates the player actor, or a plain '@' when no template exists
func (s *ObjectSpawner) Player() *components.Actor {
	if a, err := s.NewActor("player"); err == nil {
		return a
	}
	return &components.Actor{
		ID:           ecs.NewEntityID(),
		Name:         "Player",
		Glyph:        '@',
		FG:           color.RGBA{255, 255, 255, 255},
		OpensDoors:   true,
		VisionRadius: 8,
	}
}
