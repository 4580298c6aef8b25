package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
	"github.com/dokanify/backend/internal/domain/shared"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type mockCourierClient struct {
	mock.Mock
	code courier.Code
}

func (m *mockCourierClient) Code() courier.Code { return m.code }

func (m *mockCourierClient) CreateShipment(ctx context.Context, o *order.Order, area *courier.AreaInfo) (*courier.ShipmentResult, error) {
	args := m.Called(ctx, o, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.ShipmentResult), args.Error(1)
}

func (m *mockCourierClient) TrackShipment(ctx context.Context, ref string) (*courier.TrackingStatus, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.TrackingStatus), args.Error(1)
}

func (m *mockCourierClient) CancelShipment(ctx context.Context, consignmentID string) (*courier.CancelResult, error) {
	args := m.Called(ctx, consignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.CancelResult), args.Error(1)
}

type stubRegistry struct {
	clients map[courier.Code]courier.Client
}

func (r *stubRegistry) Resolve(code courier.Code) (courier.Client, error) {
	c, ok := r.clients[code]
	if !ok {
		return nil, courier.ErrUnknownCourier
	}
	return c, nil
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder("ORD-2001", "Karim Mia", "01812000000", "Plot 7, Sector 10, Uttara, Dhaka", []order.Item{{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   uuid.New(),
		ProductName: "Saree",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(2500),
	}})
	require.NoError(t, err)
	return o
}

func TestCreateShipmentSuccess(t *testing.T) {
	o := pendingOrder(t)
	orders := new(mockOrderRepository)
	client := &mockCourierClient{code: courier.CodeSteadfast}
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{clients: map[courier.Code]courier.Client{
		courier.CodeSteadfast: client,
	}}, zap.NewNop())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	client.On("CreateShipment", mock.Anything, o, (*courier.AreaInfo)(nil)).Return(&courier.ShipmentResult{
		ConsignmentID: "1424107",
		TrackingCode:  "15BAEB8A",
		RawInfo:       `{"status":200}`,
	}, nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	updated, err := orchestrator.CreateShipment(context.Background(), o.ID, courier.CodeSteadfast, nil)

	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.Equal(t, "steadfast", updated.CourierName)
	assert.Equal(t, "1424107", updated.CourierConsignmentID)
	assert.Equal(t, "15BAEB8A", updated.CourierTrackingCode)
	assert.Equal(t, "Shipment Created", updated.CourierStatus)
	orders.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestCreateShipmentOrderNotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{}, zap.NewNop())

	id := uuid.New()
	orders.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := orchestrator.CreateShipment(context.Background(), id, courier.CodeSteadfast, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateShipmentUnknownCourier(t *testing.T) {
	o := pendingOrder(t)
	orders := new(mockOrderRepository)
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{}, zap.NewNop())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := orchestrator.CreateShipment(context.Background(), o.ID, courier.Code("dhl"), nil)

	assert.ErrorIs(t, err, courier.ErrUnknownCourier)
	assert.Equal(t, order.StatusPending, o.Status)
	orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateShipmentProviderFailureLeavesOrderUntouched(t *testing.T) {
	o := pendingOrder(t)
	orders := new(mockOrderRepository)
	client := &mockCourierClient{code: courier.CodeRedX}
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{clients: map[courier.Code]courier.Client{
		courier.CodeRedX: client,
	}}, zap.NewNop())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	providerErr := courier.NewError(courier.CodeRedX, courier.KindProviderRejected, 422, "invalid delivery area")
	client.On("CreateShipment", mock.Anything, o, mock.Anything).Return(nil, providerErr)

	_, err := orchestrator.CreateShipment(context.Background(), o.ID, courier.CodeRedX, &courier.AreaInfo{AreaID: 23})

	assert.Equal(t, providerErr, err)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Empty(t, o.CourierConsignmentID)
	orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateShipmentRejectsShippedOrder(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.ApplyShipment("steadfast", "1", "T1", ""))

	orders := new(mockOrderRepository)
	client := &mockCourierClient{code: courier.CodeSteadfast}
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{clients: map[courier.Code]courier.Client{
		courier.CodeSteadfast: client,
	}}, zap.NewNop())
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := orchestrator.CreateShipment(context.Background(), o.ID, courier.CodeSteadfast, nil)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	client.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrackShipmentUpdatesCachedStatus(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.ApplyShipment("redx", "99004", "RDX-1", ""))

	orders := new(mockOrderRepository)
	client := &mockCourierClient{code: courier.CodeRedX}
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{clients: map[courier.Code]courier.Client{
		courier.CodeRedX: client,
	}}, zap.NewNop())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	client.On("TrackShipment", mock.Anything, "RDX-1").Return(&courier.TrackingStatus{Status: "delivery-in-progress"}, nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	status, err := orchestrator.TrackShipment(context.Background(), o.ID)

	require.NoError(t, err)
	assert.Equal(t, "delivery-in-progress", status.Status)
	assert.Equal(t, "delivery-in-progress", o.CourierStatus)
	orders.AssertExpectations(t)
}

func TestTrackShipmentWithoutConsignment(t *testing.T) {
	o := pendingOrder(t)
	orders := new(mockOrderRepository)
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{}, zap.NewNop())
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := orchestrator.TrackShipment(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrNoTrackingInfo)
}

func TestCancelShipment(t *testing.T) {
	o := pendingOrder(t)
	require.NoError(t, o.ApplyShipment("pathao", "DP250101", "DP250101", ""))

	orders := new(mockOrderRepository)
	client := &mockCourierClient{code: courier.CodePathao}
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{clients: map[courier.Code]courier.Client{
		courier.CodePathao: client,
	}}, zap.NewNop())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	client.On("CancelShipment", mock.Anything, "DP250101").Return(&courier.CancelResult{Message: "cancelled"}, nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	updated, err := orchestrator.CancelShipment(context.Background(), o.ID)

	require.NoError(t, err)
	assert.Equal(t, "Cancelled", updated.CourierStatus)
	orders.AssertExpectations(t)
}

func TestCancelShipmentWithoutConsignment(t *testing.T) {
	o := pendingOrder(t)
	orders := new(mockOrderRepository)
	orchestrator := NewShipmentOrchestrator(orders, &stubRegistry{}, zap.NewNop())
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := orchestrator.CancelShipment(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrNoTrackingInfo)
}
