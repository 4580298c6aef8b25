// Package shipping coordinates courier bookings against the order book.
package shipping

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
	"github.com/dokanify/backend/internal/domain/shared"
)

// ErrNoTrackingInfo signals an order with no consignment on file
var ErrNoTrackingInfo = shared.NewDomainError("NO_TRACKING_INFO", "Order has no courier tracking information")

// ShipmentOrchestrator routes shipment operations to the selected provider
// and writes the results back onto the order. The order is only persisted
// after the provider call succeeded, so a failed booking leaves no partial
// writes.
type ShipmentOrchestrator struct {
	orders   order.Repository
	registry courier.Registry
	logger   *zap.Logger
}

// NewShipmentOrchestrator creates a shipment orchestrator
func NewShipmentOrchestrator(orders order.Repository, registry courier.Registry, logger *zap.Logger) *ShipmentOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentOrchestrator{
		orders:   orders,
		registry: registry,
		logger:   logger,
	}
}

// CreateShipment books a consignment for the order with the selected courier
// and moves the order to SHIPPED.
func (s *ShipmentOrchestrator) CreateShipment(ctx context.Context, orderID uuid.UUID, code courier.Code, area *courier.AreaInfo) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	client, err := s.registry.Resolve(code)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(order.StatusShipped) {
		return nil, shared.ErrInvalidState
	}

	result, err := client.CreateShipment(ctx, o, area)
	if err != nil {
		s.logger.Warn("shipment creation failed",
			zap.String("order_id", orderID.String()),
			zap.String("courier", code.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := o.ApplyShipment(code.String(), result.ConsignmentID, result.TrackingCode, result.RawInfo); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("shipment created",
		zap.String("order_id", orderID.String()),
		zap.String("courier", code.String()),
		zap.String("consignment_id", result.ConsignmentID),
		zap.String("tracking_code", result.TrackingCode),
	)
	return o, nil
}

// TrackShipment fetches the order's current consignment status from its
// courier and caches the status string on the order.
func (s *ShipmentOrchestrator) TrackShipment(ctx context.Context, orderID uuid.UUID) (*courier.TrackingStatus, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ref := o.TrackingRef()
	if ref == "" || o.CourierName == "" {
		return nil, ErrNoTrackingInfo
	}

	client, err := s.registry.Resolve(courier.Code(o.CourierName))
	if err != nil {
		return nil, err
	}

	status, err := client.TrackShipment(ctx, ref)
	if err != nil {
		return nil, err
	}

	if status.Status != "" && status.Status != o.CourierStatus {
		o.CourierStatus = status.Status
		if err := s.orders.Save(ctx, o); err != nil {
			s.logger.Warn("courier status cache update failed",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
	}
	return status, nil
}

// CancelShipment cancels the order's consignment with its courier and
// records the cancellation on the order.
func (s *ShipmentOrchestrator) CancelShipment(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.CourierConsignmentID == "" || o.CourierName == "" {
		return nil, ErrNoTrackingInfo
	}

	client, err := s.registry.Resolve(courier.Code(o.CourierName))
	if err != nil {
		return nil, err
	}

	result, err := client.CancelShipment(ctx, o.CourierConsignmentID)
	if err != nil {
		return nil, err
	}

	o.ApplyShipmentCancellation(result.RawInfo)
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("shipment cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("courier", o.CourierName),
		zap.String("consignment_id", o.CourierConsignmentID),
	)
	return o, nil
}
