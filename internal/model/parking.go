package model

import "time"

// Parking is one vehicle-in-box session. At most one active row may
// exist per vehicle and per box; releasing a vehicle closes the row
// (is_active = 0, exited_at set) rather than deleting it, so the
// session survives as history.
type Parking struct {
	ID        uint64     `json:"id"`         // parkings.id
	VehicleID uint64     `json:"vehicle_id"` // parkings.vehicle_id
	BoxID     uint64     `json:"box_id"`     // parkings.box_id
	YardID    uint64     `json:"yard_id"`    // parkings.yard_id
	IsActive  bool       `json:"is_active"`  // parkings.is_active
	EnteredAt time.Time  `json:"entered_at"` // parkings.entered_at
	ExitedAt  *time.Time `json:"exited_at"`  // parkings.exited_at (nullable)
}

// ParkingDetail is a Parking joined with the names a dashboard needs,
// so listings do not require follow-up lookups.
type ParkingDetail struct {
	Parking
	Plate    string `json:"plate"`     // vehicles.plate
	BoxName  string `json:"box_name"`  // boxes.name
	YardName string `json:"yard_name"` // yards.name
}
