package dungeon

import (
	"ebiten-floors/components"
	"ebiten-floors/ecs"
	"ebiten-floors/geometry"
)

// Floor event types
const (
	EventTileChanged    ecs.EventType = "tile_changed"
	EventActorAdded     ecs.EventType = "actor_added"
	EventActorRemoved   ecs.EventType = "actor_removed"
	EventActorMoved     ecs.EventType = "actor_moved"
	EventItemAdded      ecs.EventType = "item_added"
	EventItemRemoved    ecs.EventType = "item_removed"
	EventFeatureAdded   ecs.EventType = "feature_added"
	EventFeatureRemoved ecs.EventType = "feature_removed"
	EventFeatureChanged ecs.EventType = "feature_changed"
	EventFloorChanged   ecs.EventType = "floor_changed"
)

// TileChangedEvent is emitted when a cell's tile is replaced
type TileChangedEvent struct {
	Floor components.FloorID
	Pos   geometry.Coord
	Old   *components.Tile // nil when the cell was just created
	New   *components.Tile
}

// Type returns the event type
func (e TileChangedEvent) Type() ecs.EventType {
	return EventTileChanged
}

// ActorEvent is emitted when an actor enters or leaves a floor
type ActorEvent struct {
	Floor   components.FloorID
	Pos     geometry.Coord
	Actor   *components.Actor
	Removed bool
}

// Type returns the event type
func (e ActorEvent) Type() ecs.EventType {
	if e.Removed {
		return EventActorRemoved
	}
	return EventActorAdded
}

// ActorMovedEvent is emitted when an actor changes cell on the same floor
type ActorMovedEvent struct {
	Floor    components.FloorID
	Actor    *components.Actor
	From, To geometry.Coord
}

// Type returns the event type
func (e ActorMovedEvent) Type() ecs.EventType {
	return EventActorMoved
}

// ItemEvent is emitted when an item is dropped on or taken from a cell
type ItemEvent struct {
	Floor   components.FloorID
	Pos     geometry.Coord
	Item    *components.Item
	Removed bool
}

// Type returns the event type
func (e ItemEvent) Type() ecs.EventType {
	if e.Removed {
		return EventItemRemoved
	}
	return EventItemAdded
}

// FeatureEvent is emitted when a feature is added, removed or changes state
type FeatureEvent struct {
	Floor   components.FloorID
	Pos     geometry.Coord
	Feature *components.Feature
	Removed bool
	Changed bool // State change such as a door opening
}

// Type returns the event type
func (e FeatureEvent) Type() ecs.EventType {
	switch {
	case e.Changed:
		return EventFeatureChanged
	case e.Removed:
		return EventFeatureRemoved
	}
	return EventFeatureAdded
}

// FloorChangedEvent is emitted by a Registry when the active floor changes
type FloorChangedEvent struct {
	From, To components.FloorID
	Actor    *components.Actor // The actor that took the stairs, if any
}

// Type returns the event type
func (e FloorChangedEvent) Type() ecs.EventType {
	return EventFloorChanged
}
