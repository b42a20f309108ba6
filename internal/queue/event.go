// Package queue defines message payloads exchanged over the message broker.
package queue

// VehicleMovedEvent is published whenever a vehicle enters or leaves a
// box. It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type VehicleMovedEvent struct {
	Direction     string `json:"direction"` // ENTRY or EXIT
	Plate         string `json:"plate"`
	VehicleID     uint64 `json:"vehicle_id"`
	BoxID         uint64 `json:"box_id"`
	BoxName       string `json:"box_name"`
	YardID        uint64 `json:"yard_id"`
	YardName      string `json:"yard_name"`
	ParkedMinutes *int64 `json:"parked_minutes,omitempty"` // EXIT only
	OccurredAt    string `json:"occurred_at"`
}
