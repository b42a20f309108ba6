package config

import "time"

// PublisherConfig controls the occupancy snapshot stream.
type PublisherConfig struct {
	Interval time.Duration // time between snapshot recomputations
}

// LoadPublisherConfig reads SNAPSHOT_INTERVAL (Go duration syntax,
// e.g. "5s") and falls back to five seconds when unset or invalid.
func LoadPublisherConfig() PublisherConfig {
	return PublisherConfig{
		Interval: envDur("SNAPSHOT_INTERVAL", 5*time.Second),
	}
}
