package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/cache"
	adapterHTTP "github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/handler/http"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/repository"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/services"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var rdb *redis.Client
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		rdb, err = cache.NewRedisClient(
			redisHost,
			envOr("REDIS_PORT", "6379"),
			os.Getenv("REDIS_PASSWORD"),
			0,
		)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache: %v", err)
			rdb = nil
		}
	}

	userRepo := repository.NewPostgresUserRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)
	awardRepo := repository.NewPostgresBadgeAwardRepository(db)
	ledgerRepo := repository.NewPostgresLedgerRepository(db)
	counts := repository.NewPostgresActivityCounts(db)

	var statsRepo domain.StatsRepository = repository.NewPostgresStatsRepository(db)
	if rdb != nil {
		statsRepo = repository.NewCachedStatsRepository(statsRepo, rdb)
	}

	streakService := services.NewStreakService(streakRepo, ledgerRepo)
	badgeService := services.NewBadgeService(awardRepo, counts, streakService, ledgerRepo)
	statsService := services.NewStatsService(statsRepo, ledgerRepo, awardRepo, counts)

	refreshWorker := workers.NewRefreshWorker(statsService, userRepo, time.Hour)

	activityService := services.NewActivityService(streakService, badgeService, statsService, ledgerRepo, refreshWorker)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "shikshalokam-engage", 24*time.Hour, userRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	refreshWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService, tokenService),
		ActivityHandler:     adapterHTTP.NewActivityHandler(activityService),
		GamificationHandler: adapterHTTP.NewGamificationHandler(streakService, badgeService, statsService, activityService),
		TokenService:        tokenService,
		DB:                  db,
		Redis:               rdb,
		StartTime:           startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Engagement engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
