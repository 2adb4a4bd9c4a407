package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamgraph/go/internal/models"
)

type fakeConn struct {
	msgs       []*nats.Msg
	publishErr error
	flushed    int
	closed     bool
}

func (f *fakeConn) PublishMsg(msg *nats.Msg) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed++
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func strPtr(s string) *string { return &s }

func TestNewPlayerCreated(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC))
	teamID := int32(4)

	event, err := NewPlayerCreated(clock, &models.Player{
		ID:        17,
		FirstName: strPtr("Ann"),
		LastName:  strPtr("Lee"),
		TeamID:    &teamID,
	})
	require.NoError(t, err)

	assert.Equal(t, TypePlayerCreated, event.Type)
	assert.Equal(t, clock.Now(), event.OccurredAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(event.ID))

	var payload PlayerCreatedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, int64(17), payload.PlayerID)
	assert.Equal(t, "Ann", payload.FirstName)
	assert.Equal(t, "Lee", payload.LastName)
	require.NotNil(t, payload.TeamID)
	assert.Equal(t, int32(4), *payload.TeamID)
}

func TestNATSPublisherPublish(t *testing.T) {
	conn := &fakeConn{}
	pub := NewNATSPublisherWithConn(conn, "teamgraph.events")

	event, err := NewPlayerCreated(clockwork.NewFakeClock(), &models.Player{ID: 1})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), event))
	require.Len(t, conn.msgs, 1)
	assert.Equal(t, 1, conn.flushed)

	msg := conn.msgs[0]
	assert.Equal(t, "teamgraph.events.player.created", msg.Subject)
	assert.Equal(t, event.ID.String(), msg.Header.Get(nats.MsgIdHdr))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.JSONEq(t, string(event.Payload), string(decoded.Payload))

	require.NoError(t, pub.Close())
	assert.True(t, conn.closed)
}

func TestNATSPublisherPublishError(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("nats: connection closed")}
	pub := NewNATSPublisherWithConn(conn, "teamgraph.events")

	err := pub.Publish(context.Background(), Event{Type: TypePlayerCreated, Payload: json.RawMessage(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teamgraph.events.player.created")
	assert.Zero(t, conn.flushed)
}

func TestNoopAndLogPublishers(t *testing.T) {
	event := Event{Type: TypePlayerCreated, Payload: json.RawMessage(`{"player_id":1}`)}
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), event))
	assert.NoError(t, LogPublisher{}.Publish(context.Background(), event))
}
