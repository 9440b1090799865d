package listener

import (
	"context"
	"testing"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryUseCase struct {
	reserved  []*dto.ReserveInput
	confirmed []string
	released  []string
}

func (f *fakeInventoryUseCase) CheckStock(context.Context, string, *string, float64) (*dto.StockCheckResult, error) {
	return nil, nil
}

func (f *fakeInventoryUseCase) GetItemBySKU(context.Context, string) (*model.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryUseCase) ListLowStock(context.Context, int, int) ([]model.InventoryItem, int, error) {
	return nil, 0, nil
}

func (f *fakeInventoryUseCase) ListMovements(context.Context, *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return nil, 0, nil
}

func (f *fakeInventoryUseCase) Reserve(_ context.Context, input *dto.ReserveInput) error {
	f.reserved = append(f.reserved, input)
	return nil
}

func (f *fakeInventoryUseCase) Release(_ context.Context, orderID string) (int, error) {
	f.released = append(f.released, orderID)
	return 1, nil
}

func (f *fakeInventoryUseCase) Confirm(_ context.Context, orderID string) (int, error) {
	f.confirmed = append(f.confirmed, orderID)
	return 1, nil
}

func (f *fakeInventoryUseCase) Restock(context.Context, *dto.RestockInput) (*model.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryUseCase) Adjust(context.Context, *dto.AdjustInput) (*model.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryUseCase) ListAlerts(context.Context, bool, int, int) ([]model.InventoryAlert, int, error) {
	return nil, 0, nil
}

func (f *fakeInventoryUseCase) ResolveAlert(context.Context, string, string) error {
	return nil
}

func TestHandleOrderCreatedReserves(t *testing.T) {
	uc := &fakeInventoryUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	payload := []byte(`{
		"event_type": "order.created",
		"order_id": "order-a",
		"items": [
			{"sku": "BOARD-95", "quantity": 6},
			{"sku": "BOARD-120", "quantity": 2}
		]
	}`)

	require.NoError(t, l.handle(context.Background(), payload))
	require.Len(t, uc.reserved, 1)
	assert.Equal(t, "order-a", uc.reserved[0].OrderID)
	require.Len(t, uc.reserved[0].Items, 2)
	assert.Equal(t, "BOARD-95", uc.reserved[0].Items[0].SKU)
	assert.Equal(t, 6.0, uc.reserved[0].Items[0].Quantity)
}

func TestHandlePaymentOutcomes(t *testing.T) {
	uc := &fakeInventoryUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	require.NoError(t, l.handle(context.Background(),
		[]byte(`{"event_type": "payment.succeeded", "order_id": "order-a"}`)))
	assert.Equal(t, []string{"order-a"}, uc.confirmed)

	require.NoError(t, l.handle(context.Background(),
		[]byte(`{"event_type": "payment.failed", "order_id": "order-b"}`)))
	require.NoError(t, l.handle(context.Background(),
		[]byte(`{"event_type": "order.cancelled", "order_id": "order-c"}`)))
	assert.Equal(t, []string{"order-b", "order-c"}, uc.released)
}

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	uc := &fakeInventoryUseCase{}
	l := NewInventoryListener(nil, uc, logger.NewNop())

	require.NoError(t, l.handle(context.Background(),
		[]byte(`{"event_type": "order.shipped", "order_id": "order-a"}`)))
	assert.Empty(t, uc.reserved)
	assert.Empty(t, uc.confirmed)
	assert.Empty(t, uc.released)

	assert.Error(t, l.handle(context.Background(), []byte(`not json`)))
}
