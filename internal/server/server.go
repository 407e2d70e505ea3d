package server

import (
	"context"
	"time"

	"github.com/igor-olikh/drive-pilot/internal/auth"
	"github.com/igor-olikh/drive-pilot/internal/config"
	"github.com/igor-olikh/drive-pilot/internal/db"
	"github.com/igor-olikh/drive-pilot/internal/detector"
	"github.com/igor-olikh/drive-pilot/internal/device"
	"github.com/igor-olikh/drive-pilot/internal/ingest"
	"github.com/igor-olikh/drive-pilot/internal/metrics"
	"github.com/igor-olikh/drive-pilot/internal/orchestrator"
	"github.com/igor-olikh/drive-pilot/internal/session"
	"github.com/igor-olikh/drive-pilot/internal/stream"
	"github.com/igor-olikh/drive-pilot/internal/trip"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
	Engine *orchestrator.Orchestrator

	LocationFeed  *ingest.LocationPushFeed
	BluetoothFeed *ingest.BluetoothPushFeed
}

func NewServer(cfg config.Config, q db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	locFeed := ingest.NewLocationPushFeed()
	btFeed := ingest.NewBluetoothPushFeed()

	matcher := device.NewMatcher()
	tagStore := device.NewStore(q)
	tripRepo := trip.NewRepository(q)

	// A typed-nil store must not reach the orchestrator's TagStore nil check.
	var tags orchestrator.TagStore
	if q != nil {
		tags = tagStore
	}

	engine := orchestrator.New(conditionsFromConfig(cfg), session.NewManager(), matcher, locFeed, btFeed, tags)

	hub := stream.NewHub(redisClient)
	engine.Subscribe(hub.EventSubscriber())
	engine.Subscribe(metrics.Subscriber())
	if q != nil {
		engine.Subscribe(tripRepo.Subscriber(cfg.MinDistanceM))
	}

	s := &Server{
		App:           app,
		Cfg:           cfg,
		DB:            q,
		Redis:         redisClient,
		Stream:        hub,
		Engine:        engine,
		LocationFeed:  locFeed,
		BluetoothFeed: btFeed,
	}

	registerRoutes(s, matcher, tagStore, tripRepo)
	return s
}

func conditionsFromConfig(cfg config.Config) detector.Conditions {
	cond := detector.DefaultConditions()
	if cfg.MinSpeedMps > 0 {
		cond.MinSpeedMps = cfg.MinSpeedMps
	}
	if cfg.MinDurationSec > 0 {
		cond.MinDuration = time.Duration(cfg.MinDurationSec) * time.Second
	}
	if cfg.MaxStationarySec > 0 {
		cond.MaxStationaryTime = time.Duration(cfg.MaxStationarySec) * time.Second
	}
	if cfg.SessionEndTimeoutSec > 0 {
		cond.SessionEndTimeout = time.Duration(cfg.SessionEndTimeoutSec) * time.Second
	}
	if cfg.MinDistanceM > 0 {
		cond.MinDistanceM = cfg.MinDistanceM
	}
	return cond
}

func registerRoutes(s *Server, matcher *device.Matcher, tagStore *device.Store, tripRepo *trip.Repository) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	device.RegisterRoutes(s.App.Group("/devices"), matcher, tagStore, jwtMiddleware)
	trip.RegisterRoutes(s.App.Group("/trips"), tripRepo)
	ingest.RegisterRoutes(s.App.Group("/ingest"), s.LocationFeed, s.BluetoothFeed)
	orchestrator.RegisterRoutes(s.App.Group("/engine"), s.Engine, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// InitEngine loads device tags and wires the feeds. Safe to call once at boot.
func (s *Server) InitEngine(ctx context.Context) error {
	return s.Engine.Initialize(ctx)
}
