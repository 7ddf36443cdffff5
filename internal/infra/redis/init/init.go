package infra_redis_init

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-redis/redis"
	"github.com/swemmanuelgz/impostor-backend/internal/config"
)

// EstablishConn opens the connection for room-code reservations and the
// identity cache, verifying it with a ping.
func EstablishConn(cfg config.RedisCache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       0,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// MustEstablishConn is the startup form.
func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	client, err := EstablishConn(cfg)
	if err != nil {
		slog.Error("redis unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return client
}
