package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/config"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/database"
	httpapi "github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/http"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/logger"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/repository"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/service"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "dorm-match")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis 可选：未启用或不可用时降级为内存缓存
	var kv store.KV = store.NewMemoryKV()
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
		log.Info("Redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var db *sql.DB
	var roomRepo repository.RoomsRepository
	var appRepo repository.ApplicationsRepository
	var profileRepo repository.ProfilesRepository

	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for dorm-match")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}
	if db != nil {
		roomRepo = repository.NewPostgresRoomsRepository(db)
		appRepo = repository.NewPostgresApplicationsRepository(db)
		profileRepo = repository.NewPostgresProfilesRepository(db)
	} else {
		// DB 未就绪：使用内存 repo 支持联测
		memRooms := repository.NewMemoryRoomsRepo()
		roomRepo = memRooms
		appRepo = repository.NewMemoryApplicationsRepo(memRooms)
		profileRepo = repository.NewMemoryProfilesRepo()
	}

	// 档案服务地址配置后走 HTTP，否则直接读库/内存
	if cfg.Profiles.Addr != "" {
		profileRepo = service.NewHTTPProfileClient(
			cfg.Profiles.Addr,
			time.Duration(cfg.Profiles.TimeoutSeconds)*time.Second,
			cfg.Profiles.RetryCount,
			log,
		)
		log.Info("Using external profile service", zap.String("addr", cfg.Profiles.Addr))
	}

	matching := service.NewMatchingService()
	roomService := service.NewRoomService(roomRepo, appRepo, profileRepo, matching, kv, log)
	appService := service.NewApplicationService(appRepo, roomRepo, log)
	allocationService := service.NewAllocationService(
		roomRepo, appRepo, profileRepo, matching, cfg.Allocation.MaxAttempts, log)

	roomHandler := httpapi.NewRoomHandler(roomService, log)
	appHandler := httpapi.NewApplicationHandler(appService, allocationService, log)

	router := httpapi.NewRouter(log)
	router.RegisterRoomRoutes(roomHandler, appHandler)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
