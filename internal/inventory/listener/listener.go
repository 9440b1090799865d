package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory"
	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/broker"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"go.uber.org/zap"
)

const (
	eventOrderCreated     = "order.created"
	eventOrderCancelled   = "order.cancelled"
	eventPaymentSucceeded = "payment.succeeded"
	eventPaymentFailed    = "payment.failed"
)

type orderEvent struct {
	EventType string `json:"event_type"`
	OrderID   string `json:"order_id"`
	Items     []struct {
		SKU      string  `json:"sku"`
		Quantity float64 `json:"quantity"`
	} `json:"items"`
}

// InventoryListener consumes order lifecycle events and mirrors them into
// the stock ledger: a created order reserves, a successful payment turns the
// reservation into a sale, and a failed payment or cancellation restores the
// reserved quantity.
type InventoryListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, log logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

// Listen blocks until ctx is cancelled. Read errors back off for a second
// instead of spinning; handler errors are logged and the offset is still
// committed, because replaying a reservation that already failed once would
// fail the same way.
func (l *InventoryListener) Listen(ctx context.Context) {
	l.logger.Info("inventory listener started")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				l.logger.Info("inventory listener stopped")
				return
			}
			l.logger.Error("failed to read order event", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := l.handle(ctx, msg.Value); err != nil {
			l.logger.Error("failed to handle order event",
				zap.ByteString("payload", msg.Value),
				zap.Error(err),
			)
		}
	}
}

func (l *InventoryListener) handle(ctx context.Context, payload []byte) error {
	var event orderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	switch event.EventType {
	case eventOrderCreated:
		lines := make([]dto.ReservationLine, 0, len(event.Items))
		for _, item := range event.Items {
			lines = append(lines, dto.ReservationLine{SKU: item.SKU, Quantity: item.Quantity})
		}
		return l.uc.Reserve(ctx, &dto.ReserveInput{
			Items:   lines,
			OrderID: event.OrderID,
		})
	case eventPaymentSucceeded:
		_, err := l.uc.Confirm(ctx, event.OrderID)
		return err
	case eventPaymentFailed, eventOrderCancelled:
		_, err := l.uc.Release(ctx, event.OrderID)
		return err
	default:
		l.logger.Debug("ignoring order event", zap.String("event_type", event.EventType))
		return nil
	}
}
