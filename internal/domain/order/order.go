package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dokanify/backend/internal/domain/shared"
)

// Status represents the lifecycle state of an order
type Status string

const (
	// StatusPending indicates the order is placed, awaiting confirmation
	StatusPending Status = "PENDING"
	// StatusConfirmed indicates the order is confirmed and ready to ship
	StatusConfirmed Status = "CONFIRMED"
	// StatusShipped indicates a courier shipment has been created
	StatusShipped Status = "SHIPPED"
	// StatusDelivered indicates the courier delivered the parcel
	StatusDelivered Status = "DELIVERED"
	// StatusCancelled indicates the order was cancelled
	StatusCancelled Status = "CANCELLED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns true if the transition is allowed
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusShipped || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// Order is the sales order aggregate. Order placement and lifecycle belong
// to the order subsystem; the reservation coordinator owns StockReserved and
// the shipment orchestrator owns the Courier* fields.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status      Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	// Recipient details, snapshotted at order time for the couriers
	CustomerName  string `gorm:"type:varchar(255);not null"`
	CustomerPhone string `gorm:"type:varchar(30);not null"`
	Address       string `gorm:"type:varchar(500);not null"`
	DeliveryNote  string `gorm:"type:varchar(255)"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	// CODAmount is the cash to collect on delivery
	CODAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// StockReserved guards reserve/release idempotency: release is a no-op
	// unless a live reservation exists.
	StockReserved bool `gorm:"not null;default:false"`

	CourierName          string `gorm:"type:varchar(30);index"`
	CourierConsignmentID string `gorm:"type:varchar(100)"`
	CourierTrackingCode  string `gorm:"type:varchar(100)"`
	CourierStatus        string `gorm:"type:varchar(100)"`
	// CourierInfo retains the provider's raw payload for support/debugging
	CourierInfo string `gorm:"type:text"`

	Items []Item `gorm:"foreignKey:OrderID;references:ID"`

	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Item is an immutable snapshot of one order line at order time
type Item struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// UnitWeight is the per-unit weight in kilograms captured at order time.
	// Zero means the product had no weight set.
	UnitWeight decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewOrder creates a pending order
func NewOrder(orderNumber, customerName, customerPhone, address string, items []Item) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            StatusPending,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		Address:           address,
	}

	total := decimal.Zero
	for i := range items {
		items[i].OrderID = o.ID
		total = total.Add(items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	o.Items = items
	o.TotalAmount = total
	o.CODAmount = total

	return o, nil
}

// MarkReserved flags the order as holding a stock reservation
func (o *Order) MarkReserved() error {
	if o.StockReserved {
		return shared.NewDomainError("ALREADY_RESERVED", "Stock is already reserved for this order")
	}
	o.StockReserved = true
	o.touch()
	return nil
}

// MarkReleased clears the reservation flag. Returns false when there was
// no live reservation; the caller treats that as a no-op.
func (o *Order) MarkReleased() bool {
	if !o.StockReserved {
		return false
	}
	o.StockReserved = false
	o.touch()
	return true
}

// ApplyShipment writes the courier result onto the order and moves it to
// SHIPPED. The caller persists the order only after the courier call
// succeeded, so a failed shipment never leaves partial writes.
func (o *Order) ApplyShipment(courierName, consignmentID, trackingCode, rawInfo string) error {
	if !o.Status.CanTransitionTo(StatusShipped) {
		return shared.ErrInvalidState
	}
	o.Status = StatusShipped
	o.CourierName = courierName
	o.CourierConsignmentID = consignmentID
	o.CourierTrackingCode = trackingCode
	o.CourierStatus = "Shipment Created"
	o.CourierInfo = rawInfo
	o.touch()
	return nil
}

// ApplyShipmentCancellation records a cancelled consignment
func (o *Order) ApplyShipmentCancellation(rawInfo string) {
	o.CourierStatus = "Cancelled"
	if rawInfo != "" {
		o.CourierInfo = rawInfo
	}
	o.touch()
}

// TrackingRef returns the identifier used for status lookups, preferring
// the customer-facing tracking code over the consignment id.
func (o *Order) TrackingRef() string {
	if o.CourierTrackingCode != "" {
		return o.CourierTrackingCode
	}
	return o.CourierConsignmentID
}

// CanCancel returns true if the order may still be cancelled
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}

// Cancel moves the order to CANCELLED
func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return shared.ErrInvalidState
	}
	o.Status = StatusCancelled
	o.touch()
	return nil
}

// TotalQuantity sums the ordered quantity across all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalWeight sums line weights in kilograms, substituting defaultUnitWeight
// for lines whose product had no weight set.
func (o *Order) TotalWeight(defaultUnitWeight decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		unit := item.UnitWeight
		if unit.IsZero() {
			unit = defaultUnitWeight
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
