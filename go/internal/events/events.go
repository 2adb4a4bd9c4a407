// Package events publishes domain events emitted after successful writes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/mcdev12/teamgraph/go/internal/models"
)

// TypePlayerCreated is emitted after a player row is inserted.
const TypePlayerCreated = "player.created"

// Event is a single domain event.
type Event struct {
	ID         uuid.UUID       `json:"event_id"`
	Type       string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher delivers events to consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PlayerCreatedPayload is the payload of a player.created event.
type PlayerCreatedPayload struct {
	PlayerID  int64  `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TeamID    *int32 `json:"team_id,omitempty"`
}

// NewPlayerCreated builds a player.created event stamped with clock.
func NewPlayerCreated(clock clockwork.Clock, player *models.Player) (Event, error) {
	payload := PlayerCreatedPayload{
		PlayerID: player.ID,
		TeamID:   player.TeamID,
	}
	if player.FirstName != nil {
		payload.FirstName = *player.FirstName
	}
	if player.LastName != nil {
		payload.LastName = *player.LastName
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal player.created payload: %w", err)
	}

	return Event{
		ID:         uuid.New(),
		Type:       TypePlayerCreated,
		OccurredAt: clock.Now().UTC(),
		Payload:    data,
	}, nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// LogPublisher writes events to the context logger at debug level.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event Event) error {
	zerolog.Ctx(ctx).Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		RawJSON("payload", event.Payload).
		Msg("publishing event")
	return nil
}
