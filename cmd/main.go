package main

import (
	"context"
	"os/signal"
	"syscall"

	"school-service/internal/handler"
	"school-service/internal/repository"
	"school-service/internal/server"
	"school-service/pkg/config"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"

	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync() //nolint:errcheck
	log.Info("Starting school service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users   repository.UserRepository
		schools repository.SchoolRepository
	)
	switch cfg.DB.Driver {
	case "memory":
		store := repository.NewMemoryStore()
		users, schools = store.Users(), store.Schools()
		log.Warn("Using in-memory store, data will not survive a restart")
	default:
		db, err := database.Connect(ctx, &cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(context.Background()); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}()

		userRepo := repository.NewMongoUserRepository(db.DB)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal("Failed to create indexes", zap.Error(err))
		}
		users, schools = userRepo, repository.NewMongoSchoolRepository(db.DB)
	}

	// Initialize JWT utility
	keys, err := cfg.JWT.VerificationKeys()
	if err != nil {
		log.Fatal("Invalid JWT configuration", zap.Error(err))
	}
	jwt, err := jwtutil.NewJWTUtil(jwtutil.Config{
		KeyID:        cfg.JWT.KeyID,
		SigningKey:   cfg.JWT.SigningKey,
		PreviousKeys: keys,
		Expiration:   cfg.JWT.Expiration,
	})
	if err != nil {
		log.Fatal("Failed to initialize JWT utility", zap.Error(err))
	}

	prometheus.SetInfo(version, cfg.DB.Driver)

	h := handler.New(users, schools, jwt, cfg.Auth.BcryptCost)
	e := server.New(h, jwt, log)

	if err := server.Run(ctx, e, ":"+cfg.Server.Port, cfg.Server.ShutdownTimeout, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}
}
