package app

import (
	"log/slog"

	"github.com/swemmanuelgz/impostor-backend/internal/config"
	http_game "github.com/swemmanuelgz/impostor-backend/internal/delivery/http/game"
	http_init "github.com/swemmanuelgz/impostor-backend/internal/delivery/http/init"
	ws_game "github.com/swemmanuelgz/impostor-backend/internal/delivery/ws/game"
	infra_pg_init "github.com/swemmanuelgz/impostor-backend/internal/infra/postgres/init"
	infra_postgres_game "github.com/swemmanuelgz/impostor-backend/internal/infra/postgres/game"
	infra_redis_codes "github.com/swemmanuelgz/impostor-backend/internal/infra/redis/codes"
	infra_redis_init "github.com/swemmanuelgz/impostor-backend/internal/infra/redis/init"
	infra_identity_cache "github.com/swemmanuelgz/impostor-backend/internal/infra/redis/session"
	"github.com/swemmanuelgz/impostor-backend/internal/reaper"
	"github.com/swemmanuelgz/impostor-backend/internal/roles"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
	service_identity "github.com/swemmanuelgz/impostor-backend/internal/service/identity"
	"github.com/swemmanuelgz/impostor-backend/internal/session"
	"github.com/swemmanuelgz/impostor-backend/internal/words"
)

func Go(cfg *config.Config) {
	const (
		roomCodesKey   = "room_codes"
		identityPrefix = "identity"
	)

	logger := slog.Default()

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	gameRepo := infra_postgres_game.New(pgConn)
	codeSet := infra_redis_codes.New(redisConn, roomCodesKey)
	identityCache := infra_identity_cache.New(redisConn, identityPrefix)

	registry := session.NewRegistry(logger)
	reconnects := session.NewTracker(registry, cfg.Game.GraceWindow, logger)

	hub := ws_game.NewHub(logger)
	rounds := round.New(
		gameRepo,
		codeSet,
		registry,
		reconnects,
		words.New(),
		roles.New(),
		hub,
		logger,
		round.WithResolveTimeout(cfg.Game.ResolveTimeout),
	)
	defer rounds.Close()

	gateway := ws_game.NewGateway(hub, rounds, logger)
	identityService := service_identity.New(identityCache, nil)

	cleaner := reaper.New(rounds, reconnects, cfg.Game.StaleAfter, logger)
	cleaner.MustSchedule(cfg.Game.SweepEvery, cfg.Game.StaleEvery)
	defer cleaner.Stop()

	controllerPool := http_init.NewControllerPool(logger)
	controllerPool.Add(http_game.New(rounds, identityService, gateway, gameRepo))

	controllerPool.Register()
	if err := controllerPool.RunAll(cfg.HTTP.Port); err != nil {
		logger.Error("http server stopped", slog.String("error", err.Error()))
	}
}
