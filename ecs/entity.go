package ecs

import "sync/atomic"

// EntityID identifies a tile, feature, item or actor. Zero is never issued.
type EntityID uint64

var lastEntityID atomic.Uint64

// NewEntityID returns a fresh id, safe to call from any goroutine
func NewEntityID() EntityID {
	return EntityID(lastEntityID.Add(1))
}
