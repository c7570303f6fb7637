// Package viewer is the floor inspector: a player avatar walking generated
// floors, drawn by an ebiten window or a tcell terminal.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"slices"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
	"ebiten-floors/ecs"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// Generator builds a fresh dungeon from a seed
type Generator func(seed int64) (*dungeon.Registry, error)

// ErrNoPlayerSpot is returned when the active floor has nowhere to put the player
var ErrNoPlayerSpot = errors.New("no free cell for the player")

// Glyph is what gets drawn for one map position
type Glyph struct {
	Rune    rune
	FG, BG  color.RGBA
	InSight bool
}

// Session holds the inspected dungeon and the player walking it. It knows
// nothing about rendering; the window and terminal front ends both drive it.
type Session struct {
	Registry *dungeon.Registry
	Player   *components.Actor
	Camera   *Camera
	Log      *MessageLog
	Seed     int64
	ShowFOV  bool

	generate    Generator
	rng         *rand.Rand
	path        []geometry.Coord
	floorSub    ecs.Subscription
	featureSubs map[components.FloorID]ecs.Subscription
	log         *zap.Logger
}

// NewSession generates the first dungeon and places the player on its active floor
func NewSession(generate Generator, player *components.Actor, seed int64, viewport geometry.Coord) (*Session, error) {
	s := &Session{
		Player:      player,
		Camera:      NewCamera(viewport.X, viewport.Y),
		Log:         NewMessageLog(100),
		ShowFOV:     true,
		generate:    generate,
		featureSubs: make(map[components.FloorID]ecs.Subscription),
		log:         logger.Named("viewer"),
	}
	if err := s.load(seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(seed int64) error {
	reg, err := s.generate(seed)
	if err != nil {
		return fmt.Errorf("generate seed %d: %w", seed, err)
	}
	if reg.Active() == nil {
		return fmt.Errorf("generate seed %d: %w", seed, dungeon.ErrUnknownFloor)
	}

	// The old dungeon stays in place until the player has somewhere to stand
	rng := rand.New(rand.NewSource(seed))
	if err := placePlayer(reg.Active(), s.Player, rng); err != nil {
		return err
	}

	s.detach()
	s.Registry = reg
	s.Seed = seed
	s.rng = rng
	s.path = nil
	s.attach()
	s.refresh()

	s.Log.Addf(MessageSystem, "Generated %d floors from seed %d.", reg.Len(), seed)
	s.log.Info("dungeon loaded", zap.Int64("seed", seed), zap.Int("floors", reg.Len()))
	return nil
}

// attach subscribes the message log to the registry and every floor
func (s *Session) attach() {
	s.floorSub = s.Registry.Events().Subscribe(dungeon.EventFloorChanged, s.onFloorChanged)
	for _, id := range s.Registry.IDs() {
		f, _ := s.Registry.Floor(id)
		s.featureSubs[id] = f.Events().Subscribe(dungeon.EventFeatureChanged, s.onFeatureChanged)
	}
}

func (s *Session) detach() {
	if s.Registry == nil {
		return
	}
	s.Registry.Events().Unsubscribe(dungeon.EventFloorChanged, s.floorSub)
	for id, sub := range s.featureSubs {
		if f, ok := s.Registry.Floor(id); ok {
			f.Events().Unsubscribe(dungeon.EventFeatureChanged, sub)
		}
	}
	clear(s.featureSubs)
}

func (s *Session) onFloorChanged(e ecs.Event) {
	ev := e.(dungeon.FloorChangedEvent)
	if ev.Actor == s.Player {
		verb := "climb"
		if ev.To.Depth > ev.From.Depth {
			verb = "descend"
		}
		s.Log.Addf(MessageEnvironment, "You %s to %s.", verb, ev.To)
		return
	}
	s.Log.Addf(MessageSystem, "Viewing %s.", ev.To)
}

func (s *Session) onFeatureChanged(e ecs.Event) {
	ev := e.(dungeon.FeatureEvent)
	if ev.Feature.Kind != components.FeatureDoor {
		return
	}
	if ev.Feature.Open {
		s.Log.Add(MessageEnvironment, "The door opens.")
	} else {
		s.Log.Add(MessageEnvironment, "The door closes.")
	}
}

// Floor returns the floor being inspected
func (s *Session) Floor() *dungeon.Floor {
	return s.Registry.Active()
}

// PlayerPosition returns where the player stands, if it is on the active floor
func (s *Session) PlayerPosition() (geometry.Coord, bool) {
	return s.Floor().ActorPosition(s.Player)
}

// placePlayer puts the player on the floor's first spawn point, the closest
// free cell to it, or any free cell when the floor has no spawn point
func placePlayer(f *dungeon.Floor, player *components.Actor, rng *rand.Rand) error {
	m := dungeon.MobilityOf(player)

	var (
		pos geometry.Coord
		ok  bool
	)
	if len(f.SpawnPoints) > 0 {
		pos = f.SpawnPoints[0]
		if cell, found := f.TryGetCellAt(pos); found && cell.IsWalkable(m) && cell.Actors.Size() == 0 {
			ok = true
		} else {
			pos, ok = f.TryGetClosestFreeTile(pos, m)
		}
	}
	if !ok {
		pos, ok = f.RandomFreeTile(rng, m)
	}
	if !ok {
		return fmt.Errorf("%w on %s", ErrNoPlayerSpot, f.ID)
	}
	return f.AddActor(pos, player)
}

// refresh recomputes the player's view and recenters the camera
func (s *Session) refresh() {
	f := s.Floor()
	pos, ok := f.ActorPosition(s.Player)
	if !ok {
		return
	}
	f.RecalculateFov(s.Player)
	s.Camera.CenterOn(pos, f.Size())
}

// Step moves the player one cell in dir. Walking into a closed door opens it
// instead. When the player is on another floor the camera scrolls. It
// reports whether the player acted.
func (s *Session) Step(dir geometry.Coord) bool {
	f := s.Floor()
	pos, ok := f.ActorPosition(s.Player)
	if !ok {
		s.Camera.Move(dir.X, dir.Y, f.Size())
		return false
	}

	to := pos.Add(dir)
	cell, ok := f.TryGetCellAt(to)
	if !ok {
		s.Log.Add(MessageAlert, "Solid rock.")
		return false
	}

	for _, feat := range cell.FeatureList() {
		if feat.Kind != components.FeatureDoor || feat.Open {
			continue
		}
		if !s.Player.OpensDoors {
			s.Log.Add(MessageAlert, "The door is closed.")
			return false
		}
		if err := f.SetDoorOpen(to, feat, true); err != nil {
			s.log.Warn("open door", logger.Pos("pos", to), zap.Error(err))
			return false
		}
		s.refresh()
		return true
	}

	if actors := cell.ActorList(); len(actors) > 0 {
		s.Log.Addf(MessageAlert, "A %s is in the way.", actors[0].Name)
		return false
	}
	if !cell.IsWalkable(dungeon.MobilityOf(s.Player)) {
		s.Log.Addf(MessageAlert, "You bump into the %s.", blockerName(cell))
		return false
	}

	if err := f.MoveActor(s.Player, to); err != nil {
		s.log.Warn("move player", logger.Pos("to", to), zap.Error(err))
		return false
	}
	s.describe(cell)
	s.refresh()
	return true
}

func blockerName(cell *dungeon.MapCell) string {
	for _, feat := range cell.FeatureList() {
		if feat.BlocksMovement && !feat.Open {
			return feat.Name
		}
	}
	return cell.Tile.Name
}

// describe logs what lies on the cell the player just entered
func (s *Session) describe(cell *dungeon.MapCell) {
	for _, item := range cell.ItemList() {
		s.Log.Addf(MessageNormal, "You see a %s here.", item.Name)
	}
	for _, feat := range cell.FeatureList() {
		if feat.IsStair() {
			s.Log.Addf(MessageEnvironment, "There is a %s to %s here.", feat.Name, feat.Portal.Destination)
		}
	}
}

// TakeStairs follows the stair under the player to its floor
func (s *Session) TakeStairs() bool {
	s.path = nil
	if _, err := s.Registry.Transition(s.Player); err != nil {
		switch {
		case errors.Is(err, dungeon.ErrNoStair):
			s.Log.Add(MessageAlert, "There are no stairs here.")
		case errors.Is(err, dungeon.ErrNotFound):
			s.Log.Add(MessageAlert, "You are not on this floor.")
		default:
			s.Log.Addf(MessageAlert, "The stairs are blocked: %v", err)
			s.log.Warn("transition failed", zap.Error(err))
		}
		return false
	}
	s.refresh()
	return true
}

// ShowFloor switches the inspected floor by delta positions in floor order.
// It reports whether the view changed.
func (s *Session) ShowFloor(delta int) bool {
	ids := s.Registry.IDs()
	i := slices.Index(ids, s.Floor().ID)
	next := min(max(i+delta, 0), len(ids)-1)
	if next == i {
		return false
	}
	return s.show(ids[next])
}

// ShowLastFloor jumps back to the floor that was inspected before the current one
func (s *Session) ShowLastFloor() bool {
	last := s.Registry.Last()
	if _, ok := s.Registry.Floor(last); !ok || last == s.Floor().ID {
		return false
	}
	return s.show(last)
}

func (s *Session) show(id components.FloorID) bool {
	if err := s.Registry.SetActive(id); err != nil {
		s.log.Warn("switch floor", zap.Error(err))
		return false
	}
	s.path = nil

	f := s.Floor()
	if _, ok := f.ActorPosition(s.Player); ok {
		s.refresh()
		return true
	}
	focus := geometry.C(f.Size().X/2, f.Size().Y/2)
	if len(f.SpawnPoints) > 0 {
		focus = f.SpawnPoints[0]
	}
	s.Camera.CenterOn(focus, f.Size())
	return true
}

// Regenerate replaces the dungeon with the one from the next seed
func (s *Session) Regenerate() error {
	return s.load(s.Seed + 1)
}

// PathTo plans a walk from the player to target and returns its length in steps
func (s *Session) PathTo(target geometry.Coord) int {
	s.path = nil
	f := s.Floor()
	pos, ok := f.ActorPosition(s.Player)
	if !ok || pos == target {
		return 0
	}
	p := f.FindPath(pos, target, dungeon.MobilityOf(s.Player))
	if p == nil {
		s.Log.Add(MessageAlert, "You can't get there.")
		return 0
	}
	// The first position is where the player stands
	s.path = p.Positions()[1:]
	return len(s.path)
}

// Path returns the remaining planned positions
func (s *Session) Path() []geometry.Coord {
	return s.path
}

// FollowPath takes the next step of the planned walk. Opening a door on the
// way counts as a step without advancing. It reports whether the player acted.
func (s *Session) FollowPath() bool {
	if len(s.path) == 0 {
		return false
	}
	pos, ok := s.PlayerPosition()
	if !ok {
		s.path = nil
		return false
	}
	next := s.path[0]
	if !s.Step(next.Sub(pos)) {
		s.path = nil
		return false
	}
	if now, _ := s.PlayerPosition(); now == next {
		s.path = s.path[1:]
	}
	return true
}

// GlyphAt returns what to draw at a position of the active floor: the first
// actor, else item, else feature, else the tile. Positions without a tile
// report false.
func (s *Session) GlyphAt(pos geometry.Coord) (Glyph, bool) {
	f := s.Floor()
	cell, ok := f.TryGetCellAt(pos)
	if !ok {
		return Glyph{}, false
	}

	g := Glyph{Rune: cell.Tile.Glyph, FG: cell.Tile.FG, BG: cell.Tile.BG, InSight: true}
	if actors := cell.ActorList(); len(actors) > 0 {
		g.Rune, g.FG = actors[0].Glyph, actors[0].FG
	} else if items := cell.ItemList(); len(items) > 0 {
		g.Rune, g.FG = items[0].Glyph, items[0].FG
	} else if feats := cell.FeatureList(); len(feats) > 0 {
		g.Rune, g.FG = feats[0].Glyph, feats[0].FG
		if feats[0].Kind == components.FeatureDoor && feats[0].Open {
			g.Rune = '\''
		}
	}

	if s.ShowFOV {
		if _, onFloor := f.ActorPosition(s.Player); onFloor && !f.CanSee(s.Player, pos) {
			g.InSight = false
			g.FG = dim(g.FG)
			g.BG = dim(g.BG)
		}
	}
	return g, true
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{c.R / 3, c.G / 3, c.B / 3, c.A}
}

// Status is the one-line summary shown under the map
func (s *Session) Status() string {
	f := s.Floor()
	if pos, ok := f.ActorPosition(s.Player); ok {
		return fmt.Sprintf("%s  seed %d  @ %d,%d", f.ID, s.Seed, pos.X, pos.Y)
	}
	return fmt.Sprintf("%s  seed %d  (player on another floor)", f.ID, s.Seed)
}
