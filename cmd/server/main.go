package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/optatrack/account-service/internal/api"
	"github.com/optatrack/account-service/internal/core/ports"
	"github.com/optatrack/account-service/internal/core/service"
	"github.com/optatrack/account-service/internal/infrastructure/config"
	mongodb "github.com/optatrack/account-service/internal/infrastructure/db/mongo"
	"github.com/optatrack/account-service/internal/infrastructure/db/postgres"
	redisdb "github.com/optatrack/account-service/internal/infrastructure/db/redis"
	"github.com/optatrack/account-service/internal/infrastructure/queue"
	"github.com/optatrack/account-service/internal/infrastructure/token"
	"github.com/optatrack/account-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "account-service",
	})

	if cfg.Auth.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Credential store ---
	var (
		repo    ports.UserRepository
		mongoDB *mongodriver.Database
		sqlDB   *sql.DB
	)
	switch cfg.Store.Driver {
	case "postgres":
		db, err := openPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer db.Close()

		pgRepo, err := postgres.NewUserRepository(db)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres schema setup failed")
		}
		if err := pgRepo.EnsureRoles(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres role seeding failed")
		}
		repo = pgRepo
		sqlDB = db
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		mongoRepo := mongodb.NewUserRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index setup failed")
		}
		if err := mongoRepo.EnsureRoles(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo role seeding failed")
		}
		repo = mongoRepo
		mongoDB = db
	}

	// --- Redis (login throttle) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()
	throttle := redisdb.NewLoginThrottle(rdb)

	// --- Audit publisher (optional) ---
	var audit ports.AuditPublisher
	if cfg.RabbitMQ.URL != "" {
		pub, err := queue.NewAuditPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("audit publisher unavailable, continuing without it")
		} else {
			defer func() { _ = pub.Close() }()
			audit = pub
		}
	}

	// --- Core services ---
	codec := token.NewJWTCodec(cfg.Auth.SessionSecret, cfg.Auth.Scheme)
	sessions := service.NewSessionService(codec,
		cfg.Auth.DefaultLoginDuration, cfg.Auth.RememberMeLoginDuration, cfg.Auth.Scheme, log)
	evaluator := service.NewPolicyEvaluator(log)
	accounts := service.NewAccountService(repo, sessions, throttle, audit, log)

	e := api.NewRouter(api.Dependencies{
		Config:    cfg,
		Accounts:  accounts,
		Sessions:  sessions,
		Evaluator: evaluator,
		Mongo:     mongoDB,
		SQL:       sqlDB,
		Redis:     rdb,
		Logger:    log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
