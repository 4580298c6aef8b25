package delivery

import (
	"context"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
)

// CarryBeeAdapter is a placeholder for the CarryBee integration. It keeps
// CarryBee selectable in the provider set while every operation reports a
// typed not-implemented failure.
type CarryBeeAdapter struct{}

var _ courier.Client = (*CarryBeeAdapter)(nil)

// NewCarryBeeAdapter creates the CarryBee placeholder adapter
func NewCarryBeeAdapter() *CarryBeeAdapter {
	return &CarryBeeAdapter{}
}

// Code identifies this adapter's provider
func (a *CarryBeeAdapter) Code() courier.Code {
	return courier.CodeCarryBee
}

// CreateShipment reports that the integration is not available
func (a *CarryBeeAdapter) CreateShipment(_ context.Context, _ *order.Order, _ *courier.AreaInfo) (*courier.ShipmentResult, error) {
	return nil, a.notImplemented()
}

// TrackShipment reports that the integration is not available
func (a *CarryBeeAdapter) TrackShipment(_ context.Context, _ string) (*courier.TrackingStatus, error) {
	return nil, a.notImplemented()
}

// CancelShipment reports that the integration is not available
func (a *CarryBeeAdapter) CancelShipment(_ context.Context, _ string) (*courier.CancelResult, error) {
	return nil, a.notImplemented()
}

func (a *CarryBeeAdapter) notImplemented() error {
	return courier.NewError(courier.CodeCarryBee, courier.KindNotImplemented, 0,
		"carrybee integration is not available yet")
}
