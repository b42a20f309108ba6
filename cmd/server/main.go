package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/fleet-yard-manager/internal/cache"      // Occupancy snapshot cache
	"github.com/iliyamo/fleet-yard-manager/internal/config"     // Internal config loader
	"github.com/iliyamo/fleet-yard-manager/internal/database"   // MySQL connector
	"github.com/iliyamo/fleet-yard-manager/internal/handler"    // HTTP handlers
	"github.com/iliyamo/fleet-yard-manager/internal/middleware" // Rate limiting middleware
	"github.com/iliyamo/fleet-yard-manager/internal/queue"      // Movement event consumer
	"github.com/iliyamo/fleet-yard-manager/internal/repository" // Data access layer
	"github.com/iliyamo/fleet-yard-manager/internal/router"     // Route registration
	"github.com/iliyamo/fleet-yard-manager/internal/service"    // Allocation and occupancy services
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate
	// limiting but the API keeps serving from MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; caching and rate limiting disabled")
	}

	// Repositories
	yards := repository.NewYardRepo(db)
	zones := repository.NewZoneRepo(db)
	boxes := repository.NewBoxRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	parkings := repository.NewParkingRepo(db)
	licenses := repository.NewLicenseRepo(db)
	movements := repository.NewMovementLogRepo(db)

	// Services
	cacheCfg := config.LoadCacheConfig()
	var cacheClient = rdb
	if !cacheCfg.Enabled {
		cacheClient = nil
	}
	occCache := cache.NewOccupancyCache(cacheClient, cacheCfg.Prefix)
	occ := service.NewOccupancyService(yards, boxes, parkings, occCache)
	alloc := service.NewAllocationService(vehicles, boxes, parkings, movements, yards, occ)

	pubCfg := config.LoadPublisherConfig()
	publisher := service.NewSnapshotPublisher(occ, pubCfg.Interval)

	// Background consumer mirrors movement events into logs/movements.log.
	go func() {
		if err := queue.StartMovementConsumer(); err != nil {
			log.Printf("movement consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterParking(e, handler.NewParkingHandler(alloc, parkings, vehicles, movements))
	router.RegisterOccupancy(e, handler.NewOccupancyHandler(occ, publisher))
	router.RegisterYards(e, handler.NewYardHandler(yards, zones, occ))
	router.RegisterBoxes(e, handler.NewBoxHandler(boxes, yards, occ))
	router.RegisterVehicles(e, handler.NewVehicleHandler(vehicles))
	router.RegisterLicenses(e, handler.NewLicenseHandler(licenses))

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
