package model

import "time"

// Yard statuses.  A yard can be taken out of rotation without deleting
// its boxes by marking it INACTIVE.
const (
	YardActive   = "ACTIVE"
	YardInactive = "INACTIVE"
)

// Yard represents a physical parking facility (a patio) that owns a
// collection of boxes and zones.  Deleting a yard removes its dependent
// rows (movement logs, parkings, zones, boxes) in dependency order.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name of the yard.
//  Status       – ACTIVE or INACTIVE.
//  Address      – optional street address.
//  ContactPhone – optional contact phone number.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Yard struct {
	ID           uint64     `json:"id"`            // yards.id
	Name         string     `json:"name"`          // yards.name
	Status       string     `json:"status"`        // yards.status
	Address      *string    `json:"address"`       // yards.address (nullable)
	ContactPhone *string    `json:"contact_phone"` // yards.contact_phone (nullable)
	CreatedAt    time.Time  `json:"created_at"`    // yards.created_at
	UpdatedAt    time.Time  `json:"updated_at"`    // yards.updated_at
}
