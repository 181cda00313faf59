package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"metacat/internal/domain"
	"metacat/internal/service"
)

// Scheduler runs discovery for every active connection on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	discovery   *service.DiscoveryService
	connections *service.ConnectionService
	logger      *slog.Logger
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler(discovery *service.DiscoveryService, connections *service.ConnectionService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:        cron.New(),
		discovery:   discovery,
		connections: connections,
		logger:      logger.With("component", "scheduler"),
	}
}

// Start registers the discovery job under the given cron spec and starts
// the scheduler. An empty spec disables scheduling.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.runAll(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("discovery schedule active", "spec", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// runAll walks every active connection and runs discovery against it.
// Failures are logged per connection; one broken connector must not stall
// the rest of the schedule.
func (s *Scheduler) runAll(ctx context.Context) {
	page := domain.PageRequest{}
	for {
		conns, total, err := s.connections.List(ctx, page)
		if err != nil {
			s.logger.Error("list connections for scheduled discovery", "error", err)
			return
		}
		for _, conn := range conns {
			if conn.Status != "active" {
				continue
			}
			report, err := s.discovery.RunDiscovery(ctx, conn.ID)
			if err != nil {
				s.logger.Warn("scheduled discovery failed",
					"connection_id", conn.ID, "error", err)
				continue
			}
			s.logger.Info("scheduled discovery complete",
				"connection_id", conn.ID,
				"scanned", report.Scanned,
				"inserted", report.Inserted,
				"updated", report.Updated)
		}
		page.PageOffset += len(conns)
		if int64(page.PageOffset) >= total || len(conns) == 0 {
			return
		}
	}
}
