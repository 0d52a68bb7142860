package database

import (
	"context"
	"fmt"

	"school-service/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Database is the shared document store handle. It is created once at
// startup and handed to every repository.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the MongoDB client and pings the primary
func Connect(ctx context.Context, cfg *config.DBConfig, log *zap.Logger) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.GetURI()).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to MongoDB", zap.String("db_name", cfg.Name))

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Name),
	}, nil
}

// Close disconnects the client
func (d *Database) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Disconnect(ctx)
}
