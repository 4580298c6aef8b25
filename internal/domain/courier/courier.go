// Package courier defines the uniform contract over the delivery providers.
// Each provider exposes the same capability set behind the Client interface;
// the infrastructure layer supplies one adapter per provider and the
// application layer routes to them through the Registry.
package courier

import (
	"context"

	"github.com/dokanify/backend/internal/domain/order"
)

// Code identifies a delivery provider
type Code string

const (
	// CodeSteadfast is Steadfast Courier
	CodeSteadfast Code = "steadfast"
	// CodeRedX is RedX Delivery
	CodeRedX Code = "redx"
	// CodePathao is Pathao Courier
	CodePathao Code = "pathao"
	// CodeCarryBee is CarryBee (integration pending)
	CodeCarryBee Code = "carrybee"
)

// String returns the string representation of Code
func (c Code) String() string {
	return string(c)
}

// IsValid returns true if the code names a known provider
func (c Code) IsValid() bool {
	switch c {
	case CodeSteadfast, CodeRedX, CodePathao, CodeCarryBee:
		return true
	}
	return false
}

// AllCodes lists every known provider code
func AllCodes() []Code {
	return []Code{CodeSteadfast, CodeRedX, CodePathao, CodeCarryBee}
}

// AreaInfo carries provider-specific locality identifiers. RedX routes by
// numeric delivery area; Pathao routes by city and zone; Steadfast and
// CarryBee work from the order's free-text address and ignore it.
type AreaInfo struct {
	AreaID   int    `json:"area_id,omitempty"`
	AreaName string `json:"area_name,omitempty"`
	CityID   int    `json:"city_id,omitempty"`
	ZoneID   int    `json:"zone_id,omitempty"`
}

// ShipmentResult is the provider's answer to a successful shipment creation
type ShipmentResult struct {
	ConsignmentID string
	TrackingCode  string
	Status        string
	// RawInfo retains the provider's response payload for support/debugging
	RawInfo string
}

// TrackingStatus is the provider's view of a consignment in flight
type TrackingStatus struct {
	Status  string
	RawInfo string
}

// CancelResult reports a consignment cancellation
type CancelResult struct {
	Message string
	RawInfo string
}

// Client is the uniform provider contract. Every method reports failures as
// *Error so callers never see a provider's raw HTTP surface.
type Client interface {
	// Code identifies the provider this client talks to
	Code() Code

	// CreateShipment books a consignment for the order. Area may be nil for
	// providers that route by free-text address.
	CreateShipment(ctx context.Context, o *order.Order, area *AreaInfo) (*ShipmentResult, error)

	// TrackShipment looks up a consignment by tracking code or consignment id
	TrackShipment(ctx context.Context, trackingRef string) (*TrackingStatus, error)

	// CancelShipment cancels a previously created consignment
	CancelShipment(ctx context.Context, consignmentID string) (*CancelResult, error)
}

// Registry resolves provider clients by code
type Registry interface {
	// Resolve returns the client for the given code, or ErrUnknownCourier
	Resolve(code Code) (Client, error)
}
