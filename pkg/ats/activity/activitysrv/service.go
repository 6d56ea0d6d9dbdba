package activitysrv

import (
	"context"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/logx"
)

// ActivityService registra y consulta el audit trail
type ActivityService struct {
	repo activity.EntryRepository
}

func NewActivityService(repo activity.EntryRepository) *ActivityService {
	return &ActivityService{
		repo: repo,
	}
}

var _ activity.Recorder = (*ActivityService)(nil)

// Record agrega una entrada. Un fallo se loguea pero no se propaga:
// el audit trail nunca hace fallar la operación de negocio que lo origina.
func (s *ActivityService) Record(ctx context.Context, entry activity.Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		logx.WithFields(logx.Fields{
			"module":      entry.Module,
			"action":      entry.Action,
			"entity_code": entry.EntityCode,
		}).Errorf("Failed to record activity entry: %v", err)
	}
}

// List consulta el audit trail con filtros
func (s *ActivityService) List(ctx context.Context, filter activity.Filter) (*activity.ListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []activity.Entry{}
	}

	return &activity.ListResponse{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// ============================================================================
// Retention Pruner
// ============================================================================

// RetentionPruner poda entradas más viejas que el periodo de retención
type RetentionPruner struct {
	repo      activity.EntryRepository
	retention time.Duration
	interval  time.Duration
}

func NewRetentionPruner(repo activity.EntryRepository, retention, interval time.Duration) *RetentionPruner {
	return &RetentionPruner{
		repo:      repo,
		retention: retention,
		interval:  interval,
	}
}

// Start corre la poda periódica hasta que el contexto se cancele
func (p *RetentionPruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			logx.Info("Activity retention pruner stopped")
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *RetentionPruner) prune(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)

	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logx.Errorf("Activity retention prune failed: %v", err)
		return
	}

	if deleted > 0 {
		logx.Infof("Pruned %d activity entries older than %s", deleted, cutoff.Format(time.RFC3339))
	}
}
