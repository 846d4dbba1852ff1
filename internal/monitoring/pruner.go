package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/rakapradana/auth-gate-be/internal/services"
)

// Pruner periodically removes audit events past the retention window.
type Pruner struct {
	events    services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
}

// NewPruner creates a pruner keeping events for the given retention window.
func NewPruner(events services.EventServiceProvider, retention time.Duration) *Pruner {
	return &Pruner{
		events:    events,
		retention: retention,
		cron:      cron.New(),
	}
}

// Run prunes once, then blocks running the hourly schedule.
func (p *Pruner) Run() {
	log.Info().Dur("retention", p.retention).Msg("Starting audit event pruner")
	p.prune()

	if _, err := p.cron.AddFunc("@hourly", p.prune); err != nil {
		log.Error().Err(err).Msg("Failed to schedule audit event pruning")
		return
	}
	p.cron.Run()
}

// Stop halts the schedule. Any in-flight prune completes.
func (p *Pruner) Stop() {
	log.Info().Msg("Stopping audit event pruner")
	<-p.cron.Stop().Done()
}

func (p *Pruner) prune() {
	cutoff := time.Now().UTC().Add(-p.retention)
	pruned, err := p.events.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune audit events")
		return
	}
	if pruned > 0 {
		log.Info().Int64("pruned", pruned).Time("cutoff", cutoff).Msg("Pruned expired audit events")
	}
}
