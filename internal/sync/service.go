// Package sync consumes the order event feed and forwards orders to the
// accounting side.
package sync

import (
	"context"
	"encoding/json"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/almasatelier/shop-bridge/internal/finolog"
	kafkax "github.com/almasatelier/shop-bridge/internal/kafka"
	"github.com/almasatelier/shop-bridge/internal/wms"
)

// Deduper short-circuits redelivered events.
type Deduper interface {
	SeenAndMark(ctx context.Context, eventID string) bool
}

type Service struct {
	Dedup       Deduper
	ServiceName string

	// APIKey for the accounting API. The push is still a placeholder: drafts
	// are logged, not sent.
	APIKey string
}

// HandleOrderEvent is the consumer handler for both order feed topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env wms.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	switch env.EventType {
	case wms.EventOrderCreated, wms.EventOrderStatusChanged:
	default:
		return nil // not ours
	}

	if s.Dedup != nil && s.Dedup.SeenAndMark(ctx, env.EventID) {
		return nil
	}

	switch env.EventType {
	case wms.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[wms.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		tx := finolog.FromOrderCreated(p)
		// TODO: POST the draft to the Finolog API once FINOLOG_API_KEY is provisioned.
		log.Printf("%s: income draft org=%s order=%s amount=%.2f %s (%s)",
			s.ServiceName, p.Org, p.OrderID, tx.Amount, tx.Currency, tx.Description)
	case wms.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[wms.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		if p.To == wms.StatusCancelled {
			log.Printf("%s: void draft org=%s order=%s (%s -> %s)",
				s.ServiceName, p.Org, p.OrderID, p.From, p.To)
		}
	}
	return nil
}
