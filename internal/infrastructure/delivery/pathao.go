package delivery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
)

// PathaoDefaultBaseURL is the sandbox API endpoint, used until a production
// host is configured
const PathaoDefaultBaseURL = "https://courier-api-sandbox.pathao.com"

const (
	// pathaoDeliveryTypeNormal is Pathao's "normal delivery" service code
	pathaoDeliveryTypeNormal = 48
	// pathaoItemTypeParcel is Pathao's "parcel" item classification
	pathaoItemTypeParcel = 2
)

// pathaoDefaultUnitWeight mirrors the default parcel weight assumption used
// for providers that bill by weight
var pathaoDefaultUnitWeight = decimal.NewFromFloat(0.5)

// PathaoConfig holds Pathao Courier API credentials
type PathaoConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	StoreID      int
	Timeout      time.Duration
}

// Validate checks that the credentials needed for token issue are present
func (c *PathaoConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.Username == "" || c.Password == "" {
		return courier.NewError(courier.CodePathao, courier.KindNotConfigured, 0,
			"pathao client id, client secret, username and password are required")
	}
	return nil
}

// TokenSource supplies a valid bearer token for Pathao API calls
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// PathaoAdapter implements courier.Client for Pathao Courier. Calls carry a
// bearer token from the token source; success is signaled by type "success"
// in the response envelope, not by the HTTP status alone.
type PathaoAdapter struct {
	config     PathaoConfig
	tokens     TokenSource
	httpClient *http.Client
}

var _ courier.Client = (*PathaoAdapter)(nil)

// NewPathaoAdapter creates a Pathao adapter over the given token source
func NewPathaoAdapter(config PathaoConfig, tokens TokenSource) *PathaoAdapter {
	if config.BaseURL == "" {
		config.BaseURL = PathaoDefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &PathaoAdapter{
		config:     config,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Code identifies this adapter's provider
func (a *PathaoAdapter) Code() courier.Code {
	return courier.CodePathao
}

type pathaoCreateOrderRequest struct {
	StoreID            int    `json:"store_id"`
	MerchantOrderID    string `json:"merchant_order_id"`
	RecipientName      string `json:"recipient_name"`
	RecipientPhone     string `json:"recipient_phone"`
	RecipientAddress   string `json:"recipient_address"`
	RecipientCity      int    `json:"recipient_city"`
	RecipientZone      int    `json:"recipient_zone"`
	DeliveryType       int    `json:"delivery_type"`
	ItemType           int    `json:"item_type"`
	ItemQuantity       int    `json:"item_quantity"`
	ItemWeight         string `json:"item_weight"`
	AmountToCollect    string `json:"amount_to_collect"`
	SpecialInstruction string `json:"special_instruction,omitempty"`
}

type pathaoEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Data    struct {
		ConsignmentID string `json:"consignment_id"`
		OrderStatus   string `json:"order_status"`
	} `json:"data"`
}

// CreateShipment books a consignment with Pathao. Pathao routes by numeric
// city and zone ids carried in the area info.
func (a *PathaoAdapter) CreateShipment(ctx context.Context, o *order.Order, area *courier.AreaInfo) (*courier.ShipmentResult, error) {
	if area == nil || area.CityID == 0 || area.ZoneID == 0 {
		return nil, courier.ErrMissingAreaInfo
	}

	payload := pathaoCreateOrderRequest{
		StoreID:            a.config.StoreID,
		MerchantOrderID:    o.OrderNumber,
		RecipientName:      o.CustomerName,
		RecipientPhone:     o.CustomerPhone,
		RecipientAddress:   o.Address,
		RecipientCity:      area.CityID,
		RecipientZone:      area.ZoneID,
		DeliveryType:       pathaoDeliveryTypeNormal,
		ItemType:           pathaoItemTypeParcel,
		ItemQuantity:       o.TotalQuantity(),
		ItemWeight:         o.TotalWeight(pathaoDefaultUnitWeight).StringFixed(3),
		AmountToCollect:    o.CODAmount.StringFixed(2),
		SpecialInstruction: o.DeliveryNote,
	}

	envelope, body, err := a.call(ctx, http.MethodPost, "/aladdin/api/v1/orders", payload)
	if err != nil {
		return nil, err
	}

	return &courier.ShipmentResult{
		ConsignmentID: envelope.Data.ConsignmentID,
		TrackingCode:  envelope.Data.ConsignmentID,
		Status:        envelope.Data.OrderStatus,
		RawInfo:       string(body),
	}, nil
}

// TrackShipment fetches the consignment's current status
func (a *PathaoAdapter) TrackShipment(ctx context.Context, trackingRef string) (*courier.TrackingStatus, error) {
	path := "/aladdin/api/v1/orders/" + url.PathEscape(trackingRef) + "/info"
	envelope, body, err := a.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return &courier.TrackingStatus{
		Status:  envelope.Data.OrderStatus,
		RawInfo: string(body),
	}, nil
}

// CancelShipment requests cancellation of a consignment
func (a *PathaoAdapter) CancelShipment(ctx context.Context, consignmentID string) (*courier.CancelResult, error) {
	path := "/aladdin/api/v1/orders/" + url.PathEscape(consignmentID) + "/cancel"
	envelope, body, err := a.call(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	return &courier.CancelResult{
		Message: envelope.Message,
		RawInfo: string(body),
	}, nil
}

func (a *PathaoAdapter) call(ctx context.Context, method, path string, payload any) (*pathaoEnvelope, []byte, error) {
	if err := a.config.Validate(); err != nil {
		return nil, nil, err
	}

	accessToken, err := a.tokens.AccessToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	req, err := newJSONRequest(ctx, method, a.config.BaseURL+path, payload)
	if err != nil {
		return nil, nil, courier.NewError(courier.CodePathao, courier.KindProtocolError, 0, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	status, body, err := execute(a.httpClient, req, courier.CodePathao)
	if err != nil {
		return nil, nil, err
	}
	if status < 200 || status >= 300 {
		return nil, nil, mapFailure(courier.CodePathao, status, body)
	}

	var envelope pathaoEnvelope
	if err := decode(courier.CodePathao, body, &envelope); err != nil {
		return nil, nil, err
	}
	if envelope.Type != "success" {
		return nil, nil, courier.NewError(courier.CodePathao, courier.KindProviderRejected, status, envelope.Message)
	}
	return &envelope, body, nil
}
