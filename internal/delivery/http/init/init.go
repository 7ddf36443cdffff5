package http_init

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// ControllerPool collects the HTTP controllers of the process and serves
// them all under one API prefix.
type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger *slog.Logger
}

func NewControllerPool(logger *slog.Logger) *ControllerPool {
	if logger == nil {
		logger = slog.Default()
	}
	engine := gin.Default()
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
		logger: logger,
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
	pool.logger.Info("routes registered", slog.Int("controllers", len(pool.pool)))
}

// RunAll blocks serving until the listener fails or is closed.
func (pool *ControllerPool) RunAll(port string) error {
	pool.logger.Info("http server starting", slog.String("port", port))
	return pool.engine.Run(":" + port)
}
