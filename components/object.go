package components

// ObjectKind selects which field of an Object is populated
type ObjectKind int

// Object kinds
const (
	ObjectNone ObjectKind = iota
	ObjectTile
	ObjectFeature
	ObjectItem
	ObjectActor
)

// String returns a readable name for the kind
func (k ObjectKind) String() string {
	switch k {
	case ObjectTile:
		return "tile"
	case ObjectFeature:
		return "feature"
	case ObjectItem:
		return "item"
	case ObjectActor:
		return "actor"
	}
	return "none"
}

// Object is the result of building something for a floor. Exactly one of
// the pointer fields matches Kind.
type Object struct {
	Kind    ObjectKind
	Tile    *Tile
	Feature *Feature
	Item    *Item
	Actor   *Actor
}

// TileObject wraps a tile
func TileObject(t *Tile) Object {
	return Object{Kind: ObjectTile, Tile: t}
}

// FeatureObject wraps a feature
func FeatureObject(f *Feature) Object {
	return Object{Kind: ObjectFeature, Feature: f}
}

// ItemObject wraps an item
func ItemObject(i *Item) Object {
	return Object{Kind: ObjectItem, Item: i}
}

// ActorObject wraps an actor
func ActorObject(a *Actor) Object {
	return Object{Kind: ObjectActor, Actor: a}
}

// IsZero reports whether the object holds nothing
func (o Object) IsZero() bool {
	return o.Kind == ObjectNone
}
