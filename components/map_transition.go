package components

import "fmt"

// FloorID identifies one floor of the dungeon. It is a value type and can be used as a map key.
type FloorID struct {
	Branch string // Dungeon branch, e.g. "main" or "mines"
	Depth  int    // Depth within the branch, starting at 1
}

// String returns the floor id as "branch:depth"
func (id FloorID) String() string {
	return fmt.Sprintf("%s:%d", id.Branch, id.Depth)
}

// FloorConnection is an ordered stair link between two floors
type FloorConnection struct {
	From FloorID
	To   FloorID
}

// NewFloorConnection creates a new floor connection
func NewFloorConnection(from, to FloorID) FloorConnection {
	return FloorConnection{From: from, To: to}
}

// Touches reports whether the connection has an end on the given floor
func (c FloorConnection) Touches(id FloorID) bool {
	return c.From == id || c.To == id
}

// Other returns the end of the connection that is not id
func (c FloorConnection) Other(id FloorID) FloorID {
	if c.From == id {
		return c.To
	}
	return c.From
}

// String returns the connection as "from -> to"
func (c FloorConnection) String() string {
	return c.From.String() + " -> " + c.To.String()
}

// Portal is carried by stair features and tells where the stair leads
type Portal struct {
	Connection  FloorConnection
	Destination FloorID
}

// NewPortal creates the portal seen from floor `at` for a connection
func NewPortal(conn FloorConnection, at FloorID) *Portal {
	return &Portal{
		Connection:  conn,
		Destination: conn.Other(at),
	}
}

// GoesDown reports whether following the portal increases depth
func (p *Portal) GoesDown(from FloorID) bool {
	return p.Destination.Depth > from.Depth
}
