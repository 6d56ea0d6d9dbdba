package eventx

import (
	"context"
	"encoding/json"
	"time"
)

// Event es un evento de dominio publicado hacia consumidores externos
// (notificaciones, integraciones, data warehouse).
type Event struct {
	Type       string         `json:"type"`
	Module     string         `json:"module"`
	EntityCode string         `json:"entity_code"`
	ActorID    string         `json:"actor_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher publica eventos de dominio. Las implementaciones no deben
// hacer fallar la operación de negocio si el broker no está disponible.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher descarta eventos; se usa cuando no hay broker configurado
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (p *NoopPublisher) Close() error { return nil }
