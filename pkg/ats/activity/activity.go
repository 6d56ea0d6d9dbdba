package activity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"time"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// Activity Entry Entity
// ============================================================================

// DetailMap serializa el detalle de la entrada como JSONB
type DetailMap map[string]any

func (d DetailMap) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *DetailMap) Scan(src any) error {
	if src == nil {
		*d = nil
		return nil
	}
	bytes, ok := src.([]byte)
	if !ok {
		return errx.New("unsupported scan type for DetailMap", errx.TypeInternal)
	}
	return json.Unmarshal(bytes, d)
}

// Entry es una entrada append-only del audit trail. Nunca se actualiza
// ni se borra individualmente; solo la poda por retención las elimina.
type Entry struct {
	ID         int64         `db:"id" json:"id"`
	Module     string        `db:"module" json:"module"`
	Action     string        `db:"action" json:"action"`
	EntityCode string        `db:"entity_code" json:"entity_code"`
	ActorID    kernel.UserID `db:"actor_id" json:"actor_id"`
	Detail     DetailMap     `db:"detail" json:"detail,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// ============================================================================
// Ports
// ============================================================================

// Recorder registra entradas del audit trail. Los servicios de dominio lo
// invocan en cada mutación; un fallo al registrar no revierte la operación.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// EntryRepository define el contrato de persistencia del audit trail
type EntryRepository interface {
	Insert(ctx context.Context, entry Entry) error
	FindAll(ctx context.Context, filter Filter) ([]Entry, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ============================================================================
// DTOs
// ============================================================================

// Filter filtra el listado del audit trail
type Filter struct {
	Module     string
	Action     string
	EntityCode string
	ActorID    string
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

// ListResponse pagina el listado
type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("ACTIVITY")

var (
	CodeRecordFailed = ErrRegistry.Register("RECORD_FAILED", errx.TypeInternal, http.StatusInternalServerError, "No se pudo registrar la actividad")
)

func ErrRecordFailed() *errx.Error {
	return ErrRegistry.New(CodeRecordFailed)
}
