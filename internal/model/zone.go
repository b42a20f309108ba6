package model

import "time"

// Zone is a named sub-area of a yard used for signage and grouping.
// Zones carry no allocation state; they are deleted with their yard.
type Zone struct {
	ID          uint64    `json:"id"`          // zones.id
	YardID      uint64    `json:"yard_id"`     // zones.yard_id
	Name        string    `json:"name"`        // zones.name
	Description *string   `json:"description"` // zones.description (nullable)
	CreatedAt   time.Time `json:"created_at"`  // zones.created_at
}
