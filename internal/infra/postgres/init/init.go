package infra_pg_init

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/swemmanuelgz/impostor-backend/internal/config"
)

// EstablishConn opens and verifies the game-store connection.
func EstablishConn(cfg config.Postgres) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// MustEstablishConn is the startup form: the process is useless without its
// game store, so an unreachable one ends it.
func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	db, err := EstablishConn(cfg)
	if err != nil {
		slog.Error("postgres unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return db
}

func dsn(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}
