package config

// CacheConfig defines settings for the occupancy snapshot cache.
// When Enabled is false or no Redis client is configured, caching is
// disabled and every read recomputes from the database.  Prefix
// namespaces the keys so several deployments can share one Redis.
type CacheConfig struct {
	Enabled bool
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		Prefix:  envStr("CACHE_PREFIX", "occupancy"),
	}
}
