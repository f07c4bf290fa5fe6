package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isdelr/exercise-tracker/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Maintainer is the part of the store the maintenance job needs.
type Maintainer interface {
	Optimize(ctx context.Context) error
	Stats(ctx context.Context) (store.Stats, error)
}

// Maintenance periodically optimizes the store and logs its size.
type Maintenance struct {
	store    Maintainer
	schedule cron.Schedule
	timeout  time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewMaintenance creates a maintenance job running on a standard cron
// expression or descriptor such as "@hourly".
func NewMaintenance(st Maintainer, spec string) (*Maintenance, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return &Maintenance{
		store:    st,
		schedule: schedule,
		timeout:  30 * time.Second,
		now:      time.Now,
		done:     make(chan struct{}),
	}, nil
}

// Next reports when the job fires after t.
func (m *Maintenance) Next(t time.Time) time.Time {
	return m.schedule.Next(t)
}

// Run blocks, running the job on schedule until Stop is called.
func (m *Maintenance) Run() {
	log.Info().Msg("Starting store maintenance...")
	for {
		wait := m.Next(m.now()).Sub(m.now())
		timer := time.NewTimer(wait)
		select {
		case <-m.done:
			timer.Stop()
			log.Info().Msg("Stopping store maintenance.")
			return
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			if err := m.RunOnce(ctx); err != nil {
				log.Error().Err(err).Msg("Maintenance: run failed")
			}
			cancel()
		}
	}
}

// Stop halts the job. It is safe to call more than once.
func (m *Maintenance) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// RunOnce optimizes the store and logs its statistics.
func (m *Maintenance) RunOnce(ctx context.Context) error {
	start := m.now()
	if err := m.store.Optimize(ctx); err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	stats, err := m.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	log.Info().
		Int("users", stats.Users).
		Int("entries", stats.Entries).
		Dur("took", m.now().Sub(start)).
		Msg("Maintenance: store optimized")
	return nil
}
