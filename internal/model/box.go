package model

import "time"

// Box statuses.  A box is OCCUPIED exactly when one active parking
// references it; MAINTENANCE takes the box out of allocation entirely.
const (
	BoxFree        = "FREE"
	BoxOccupied    = "OCCUPIED"
	BoxMaintenance = "MAINTENANCE"
)

// Box describes an individual parking slot inside a yard.  Box names
// are unique within their yard.  EntryAt/ExitAt mirror the last
// occupancy cycle and are maintained only by the allocation engine.
type Box struct {
	ID        uint64     `json:"id"`         // boxes.id
	YardID    uint64     `json:"yard_id"`    // boxes.yard_id
	Name      string     `json:"name"`       // boxes.name
	Status    string     `json:"status"`     // boxes.status
	EntryAt   *time.Time `json:"entry_at"`   // boxes.entry_at (nullable)
	ExitAt    *time.Time `json:"exit_at"`    // boxes.exit_at (nullable)
	CreatedAt time.Time  `json:"created_at"` // boxes.created_at
	UpdatedAt time.Time  `json:"updated_at"` // boxes.updated_at
}
