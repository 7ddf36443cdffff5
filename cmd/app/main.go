package main

import (
	"github.com/swemmanuelgz/impostor-backend/internal/app"
	"github.com/swemmanuelgz/impostor-backend/internal/config"
)

func main() {
	app.Go(config.Load())
}
