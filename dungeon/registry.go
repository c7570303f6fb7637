package dungeon

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/ecs"
	"ebiten-floors/logger"
)

var (
	// ErrUnknownFloor is returned when a floor id is not registered
	ErrUnknownFloor = errors.New("unknown floor")
	// ErrNoStair is returned when an actor tries to take stairs where there are none
	ErrNoStair = errors.New("no stair here")
)

// Registry manages all floors of a dungeon and which one is active
type Registry struct {
	floors   map[components.FloorID]*Floor
	active   components.FloorID
	last     components.FloorID
	hasFloor bool
	events   *ecs.EventManager
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		floors: make(map[components.FloorID]*Floor),
		events: ecs.NewEventManager(),
	}
}

// Events returns the registry's event manager, which raises FloorChangedEvent
func (r *Registry) Events() *ecs.EventManager {
	return r.events
}

// Register adds a floor or replaces the one with the same id. The first
// floor registered becomes active.
func (r *Registry) Register(f *Floor) {
	r.floors[f.ID] = f
	if !r.hasFloor {
		r.active = f.ID
		r.hasFloor = true
	}
	logger.Debug("registered floor", zap.Stringer("floor", f.ID))
}

// Floor returns a registered floor
func (r *Registry) Floor(id components.FloorID) (*Floor, bool) {
	f, ok := r.floors[id]
	return f, ok
}

// Len returns the number of registered floors
func (r *Registry) Len() int {
	return len(r.floors)
}

// IDs returns all floor ids ordered by branch then depth
func (r *Registry) IDs() []components.FloorID {
	ids := make([]components.FloorID, 0, len(r.floors))
	for id := range r.floors {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareFloorIDs)
	return ids
}

// CompareFloorIDs orders floor ids by branch then depth
func CompareFloorIDs(a, b components.FloorID) int {
	if c := strings.Compare(a.Branch, b.Branch); c != 0 {
		return c
	}
	return a.Depth - b.Depth
}

// Active returns the currently active floor, or nil when the registry is empty
func (r *Registry) Active() *Floor {
	if !r.hasFloor {
		return nil
	}
	return r.floors[r.active]
}

// Last returns the previously active floor id
func (r *Registry) Last() components.FloorID {
	return r.last
}

// SetActive switches the active floor
func (r *Registry) SetActive(id components.FloorID) error {
	if _, ok := r.floors[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFloor, id)
	}
	if r.active == id {
		return nil
	}
	from := r.active
	r.last = from
	r.active = id
	r.events.Emit(FloorChangedEvent{From: from, To: id})
	return nil
}

// Transition moves an actor standing on a stair of the active floor to the
// matching stair on the destination floor, which becomes active. The actor
// lands on the stair or, if that is taken, the closest free cell to it.
func (r *Registry) Transition(actor *components.Actor) (*Floor, error) {
	from := r.Active()
	if from == nil {
		return nil, ErrUnknownFloor
	}
	pos, ok := from.ActorPosition(actor)
	if !ok {
		return nil, ErrNotFound
	}

	var portal *components.Portal
	for _, feat := range from.GetFeaturesAt(pos) {
		if feat.Portal != nil {
			portal = feat.Portal
			break
		}
	}
	if portal == nil {
		return nil, ErrNoStair
	}

	to, ok := r.floors[portal.Destination]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFloor, portal.Destination)
	}
	stair, ok := to.StairFor(portal.Connection)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no stair for %s", ErrNoStair, to.ID, portal.Connection)
	}

	landing := stair.Pos
	if cell, ok := to.TryGetCellAt(landing); !ok || cell.Actors.Size() > 0 {
		landing, ok = to.TryGetClosestFreeTile(stair.Pos, MobilityOf(actor))
		if !ok {
			return nil, fmt.Errorf("no free cell near stair on %s", to.ID)
		}
	}

	if err := from.RemoveActor(actor); err != nil {
		return nil, err
	}
	if err := to.AddActor(landing, actor); err != nil {
		// Put the actor back on its stair
		if rerr := from.AddActor(pos, actor); rerr != nil {
			return nil, errors.Join(err, fmt.Errorf("restore actor on %s: %w", from.ID, rerr))
		}
		return nil, err
	}

	r.last = from.ID
	r.active = to.ID
	logger.Info("floor transition",
		zap.Stringer("from", from.ID),
		zap.Stringer("to", to.ID),
		logger.Pos("landing", landing))
	r.events.Emit(FloorChangedEvent{From: from.ID, To: to.ID, Actor: actor})
	return to, nil
}
