package model

import "time"

// OccupancySnapshot is a computed, point-in-time occupancy summary for
// one yard.  It is never persisted: it is recomputed on demand, on
// cache miss, and on every publisher tick.
//
// OccupancyRate is a percentage in [0,100].  When a yard has no boxes
// the rate is 0.0, never NaN.
type OccupancySnapshot struct {
	YardID        uint64    `json:"yard_id"`
	YardName      string    `json:"yard_name"`
	YardStatus    string    `json:"yard_status"`
	TotalBoxes    int       `json:"total_boxes"`
	OccupiedBoxes int       `json:"occupied_boxes"`
	FreeBoxes     int       `json:"free_boxes"`
	OccupancyRate float64   `json:"occupancy_rate"`
	ComputedAt    time.Time `json:"computed_at"`
}
