package generation

import (
	"fmt"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// placeStairs builds one stair for every declared connection touching the
// floor. A stair hint for the connection fixes the position; otherwise a
// random free ground cell is used. It returns the number of stairs placed.
func (b *FloorBuilder) placeStairs(ctx *FloorGenerationContext, floor *dungeon.Floor, hints map[components.FloorConnection]geometry.Coord) (int, error) {
	placed := 0
	for _, conn := range ctx.Connections() {
		if !conn.Touches(floor.ID) || conn.From == conn.To {
			continue
		}
		pos, hinted := hints[conn]
		if hinted {
			delete(hints, conn)
		} else {
			var ok bool
			pos, ok = floor.RandomFreeTile(ctx.Rng, dungeon.Mobility{})
			if !ok {
				return placed, fmt.Errorf("floor %s: stair for %s: %w", floor.ID, conn, ErrNoValidTile)
			}
		}

		portal := components.NewPortal(conn, floor.ID)
		kind := components.FeatureUpstairs
		if portal.GoesDown(floor.ID) {
			kind = components.FeatureDownstairs
		}
		stair := b.Stairs(pos, portal, kind)
		if err := floor.AddFeature(pos, stair); err != nil {
			return placed, fmt.Errorf("floor %s: stair for %s: %w", floor.ID, conn, err)
		}
		placed++
		logger.Debug("stair placed",
			zap.Stringer("floor", floor.ID),
			zap.Stringer("kind", kind),
			logger.Pos("pos", pos),
			zap.Bool("hinted", hinted))
	}
	for conn, pos := range hints {
		logger.Warn("stair hint has no matching connection", zap.Stringer("connection", conn), logger.Pos("pos", pos))
	}
	return placed, nil
}
