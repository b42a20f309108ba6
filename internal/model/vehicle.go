package model

import "time"

// Vehicle represents a registered fleet vehicle.  Plates are unique and
// stored in their normalized (uppercase, separator-free) form.  The BLE
// tag identifier is assigned sequentially at registration when the
// caller does not supply one.
//
// Fields:
//  ID           – primary key identifier.
//  Plate        – normalized license plate, unique.
//  Chassis      – chassis (VIN) identifier.
//  Registration – national registration identifier (RENAVAM).
//  Manufacturer – vehicle manufacturer.
//  Model        – vehicle model name.
//  ModelYear    – model year, nil when unknown.
//  BleTagID     – BLE beacon tag attached to the vehicle.
//  Status       – free-form operational status (e.g. ACTIVE).
type Vehicle struct {
	ID           uint64    `json:"id"`           // vehicles.id
	Plate        string    `json:"plate"`        // vehicles.plate
	Chassis      string    `json:"chassis"`      // vehicles.chassis
	Registration string    `json:"registration"` // vehicles.registration
	Manufacturer string    `json:"manufacturer"` // vehicles.manufacturer
	Model        string    `json:"model"`        // vehicles.model
	ModelYear    *uint32   `json:"model_year"`   // vehicles.model_year (nullable)
	BleTagID     string    `json:"ble_tag_id"`   // vehicles.ble_tag_id
	Status       string    `json:"status"`       // vehicles.status
	CreatedAt    time.Time `json:"created_at"`   // vehicles.created_at
	UpdatedAt    time.Time `json:"updated_at"`   // vehicles.updated_at
}
