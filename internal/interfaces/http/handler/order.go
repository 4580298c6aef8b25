package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
)

// StockReserver reserves and releases order stock
type StockReserver interface {
	Reserve(ctx context.Context, orderID uuid.UUID) error
	Release(ctx context.Context, orderID uuid.UUID) error
}

// ShipmentService routes shipment operations to the couriers
type ShipmentService interface {
	CreateShipment(ctx context.Context, orderID uuid.UUID, code courier.Code, area *courier.AreaInfo) (*order.Order, error)
	TrackShipment(ctx context.Context, orderID uuid.UUID) (*courier.TrackingStatus, error)
	CancelShipment(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
}

// OrderHandler exposes reservation and shipment operations on orders
type OrderHandler struct {
	BaseHandler
	reserver  StockReserver
	shipments ShipmentService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(reserver StockReserver, shipments ShipmentService) *OrderHandler {
	return &OrderHandler{reserver: reserver, shipments: shipments}
}

// Reserve handles POST /api/v1/orders/:id/reserve
func (h *OrderHandler) Reserve(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.reserver.Reserve(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": orderID, "reserved": true})
}

// Release handles POST /api/v1/orders/:id/release
func (h *OrderHandler) Release(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.reserver.Release(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": orderID, "released": true})
}

type shipRequest struct {
	Courier string `json:"courier" binding:"required"`
	Area    *struct {
		AreaID   int    `json:"area_id"`
		AreaName string `json:"area_name"`
		CityID   int    `json:"city_id"`
		ZoneID   int    `json:"zone_id"`
	} `json:"area"`
}

type shipmentResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	Status        string    `json:"status"`
	Courier       string    `json:"courier"`
	ConsignmentID string    `json:"consignment_id"`
	TrackingCode  string    `json:"tracking_code"`
	CourierStatus string    `json:"courier_status"`
}

// Ship handles POST /api/v1/orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req shipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	code := courier.Code(req.Courier)
	if !code.IsValid() {
		h.Error(c, courier.ErrUnknownCourier)
		return
	}

	var area *courier.AreaInfo
	if req.Area != nil {
		area = &courier.AreaInfo{
			AreaID:   req.Area.AreaID,
			AreaName: req.Area.AreaName,
			CityID:   req.Area.CityID,
			ZoneID:   req.Area.ZoneID,
		}
	}

	o, err := h.shipments.CreateShipment(c.Request.Context(), orderID, code, area)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, shipmentResponse{
		OrderID:       o.ID,
		Status:        o.Status.String(),
		Courier:       o.CourierName,
		ConsignmentID: o.CourierConsignmentID,
		TrackingCode:  o.CourierTrackingCode,
		CourierStatus: o.CourierStatus,
	})
}

// Track handles GET /api/v1/orders/:id/track
func (h *OrderHandler) Track(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	status, err := h.shipments.TrackShipment(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": orderID, "status": status.Status})
}

// CancelShipment handles POST /api/v1/orders/:id/cancel-shipment
func (h *OrderHandler) CancelShipment(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	o, err := h.shipments.CancelShipment(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": o.ID, "courier_status": o.CourierStatus})
}
