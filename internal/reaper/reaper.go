package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
	"github.com/swemmanuelgz/impostor-backend/internal/session"
)

// Reaper runs the background hygiene jobs: expired disconnection records
// are swept, empty rooms are closed, and rooms nobody has touched for too
// long are torn down.
type Reaper struct {
	rounds     *round.Controller
	reconnects *session.Tracker
	staleAfter time.Duration

	cron   *cron.Cron
	logger *slog.Logger
}

func New(
	rounds *round.Controller,
	reconnects *session.Tracker,
	staleAfter time.Duration,
	logger *slog.Logger,
) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reaper{
		rounds:     rounds,
		reconnects: reconnects,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger,
	}
}

// MustSchedule installs the jobs and starts the scheduler. Specs use the
// cron format, "@every 5m" included.
func (r *Reaper) MustSchedule(sweepSpec, staleSpec string) {
	if _, err := r.cron.AddFunc(sweepSpec, r.sweep); err != nil {
		panic(err)
	}
	if _, err := r.cron.AddFunc(staleSpec, r.closeStale); err != nil {
		panic(err)
	}
	r.cron.Start()
}

func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reaper) sweep() {
	swept := r.reconnects.SweepExpired(time.Now())
	if swept > 0 {
		r.logger.Info("swept expired disconnection records", slog.Int("count", swept))
	}

	closed := 0
	for _, code := range r.rounds.Codes() {
		if r.rounds.CloseIfEmpty(context.Background(), code) {
			closed++
		}
	}
	if closed > 0 {
		r.logger.Info("closed empty rooms", slog.Int("count", closed))
	}
}

func (r *Reaper) closeStale() {
	closed := r.rounds.CloseStaleRooms(context.Background(), r.staleAfter)
	if closed > 0 {
		r.logger.Info("closed stale rooms", slog.Int("count", closed))
	}
}
