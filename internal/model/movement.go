package model

import "time"

// Movement types recorded by the movement log.
const (
	MovementEntry = "ENTRY"
	MovementExit  = "EXIT"
)

// MovementLog is an append-only record of a vehicle entering or leaving
// a box.  EXIT rows carry the parked duration in minutes, derived from
// the matching ENTRY row at recording time.
type MovementLog struct {
	ID            uint64    `json:"id"`             // movement_logs.id
	VehicleID     uint64    `json:"vehicle_id"`     // movement_logs.vehicle_id
	BoxID         uint64    `json:"box_id"`         // movement_logs.box_id
	YardID        uint64    `json:"yard_id"`        // movement_logs.yard_id
	MovementType  string    `json:"movement_type"`  // ENTRY or EXIT
	RecordedAt    time.Time `json:"recorded_at"`    // movement_logs.recorded_at
	ParkedMinutes *int64    `json:"parked_minutes"` // EXIT only (nullable)
	Notes         *string   `json:"notes"`          // movement_logs.notes (nullable)
}
