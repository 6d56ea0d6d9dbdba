package reportsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proconsultancy/backend/pkg/ats/report"
	"github.com/proconsultancy/backend/pkg/logx"
)

const cacheKeyPrefix = "reports:"

// ReportService sirve los reportes agregados con una caché corta en Redis.
// Los reportes toleran datos levemente desactualizados; la caché evita
// repetir las consultas agregadas en cada carga del dashboard.
type ReportService struct {
	repo  report.ReportRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewReportService(repo report.ReportRepository, cache *redis.Client, ttl time.Duration) *ReportService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// SubmissionFunnel devuelve el funnel del pipeline
func (s *ReportService) SubmissionFunnel(ctx context.Context) ([]report.FunnelRow, error) {
	return cached(ctx, s, "funnel", func() ([]report.FunnelRow, error) {
		return s.repo.SubmissionFunnel(ctx)
	})
}

// PlacementsByMonth devuelve las colocaciones de los últimos N meses
func (s *ReportService) PlacementsByMonth(ctx context.Context, months int) ([]report.PlacementsByMonthRow, error) {
	key := fmt.Sprintf("placements:%d", months)
	return cached(ctx, s, key, func() ([]report.PlacementsByMonthRow, error) {
		return s.repo.PlacementsByMonth(ctx, months)
	})
}

// OpenJobsByClient devuelve los puestos abiertos por cliente
func (s *ReportService) OpenJobsByClient(ctx context.Context) ([]report.OpenJobsByClientRow, error) {
	return cached(ctx, s, "open_jobs", func() ([]report.OpenJobsByClientRow, error) {
		return s.repo.OpenJobsByClient(ctx)
	})
}

// ApplicationIntake devuelve la entrada de postulaciones por puesto
func (s *ReportService) ApplicationIntake(ctx context.Context) ([]report.ApplicationIntakeRow, error) {
	return cached(ctx, s, "intake", func() ([]report.ApplicationIntakeRow, error) {
		return s.repo.ApplicationIntake(ctx)
	})
}

// cached intenta la caché primero; si falla Redis, cae directo a la base
func cached[T any](ctx context.Context, s *ReportService, key string, load func() ([]T, error)) ([]T, error) {
	fullKey := cacheKeyPrefix + key

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, fullKey).Bytes()
		if err == nil {
			var rows []T
			if err := json.Unmarshal(raw, &rows); err == nil {
				return rows, nil
			}
			logx.Warnf("Discarding corrupt report cache entry %s", fullKey)
		} else if err != redis.Nil {
			logx.Warnf("Report cache read failed for %s: %v", fullKey, err)
		}
	}

	rows, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, fullKey, raw, s.ttl).Err(); err != nil {
				logx.Warnf("Report cache write failed for %s: %v", fullKey, err)
			}
		}
	}

	return rows, nil
}
