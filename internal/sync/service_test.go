package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/almasatelier/shop-bridge/internal/kafka"
	"github.com/almasatelier/shop-bridge/internal/wms"
)

type fakeDedup struct {
	seen  map[string]bool
	calls int
}

func (d *fakeDedup) SeenAndMark(ctx context.Context, eventID string) bool {
	d.calls++
	if d.seen[eventID] {
		return true
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[eventID] = true
	return false
}

func message(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := wms.Envelope{
		EventID:      "ev-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "bridge-test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderEventCreated(t *testing.T) {
	dedup := &fakeDedup{}
	svc := &Service{Dedup: dedup, ServiceName: "syncer-test"}

	m := message(t, wms.EventOrderCreated, wms.OrderCreatedPayload{
		Org: "default", OrderID: "o1", Total: 100, Currency: "KZT",
	})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	assert.Equal(t, 1, dedup.calls)

	// redelivery is swallowed
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	assert.Equal(t, 2, dedup.calls)
}

func TestHandleOrderEventStatusChanged(t *testing.T) {
	svc := &Service{ServiceName: "syncer-test"}
	m := message(t, wms.EventOrderStatusChanged, wms.OrderStatusChangedPayload{
		Org: "default", OrderID: "o1", From: wms.StatusNew, To: wms.StatusCancelled,
	})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
}

func TestHandleOrderEventIgnoresForeignTypes(t *testing.T) {
	dedup := &fakeDedup{}
	svc := &Service{Dedup: dedup}

	m := message(t, "SomethingElse", map[string]any{})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	assert.Zero(t, dedup.calls, "foreign events skip dedup entirely")
}

func TestHandleOrderEventBadEnvelope(t *testing.T) {
	svc := &Service{}
	err := svc.HandleOrderEvent(context.Background(), kafkago.Message{Value: []byte("not json")})
	require.Error(t, err)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
