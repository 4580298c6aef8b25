package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/order"
)

// SteadfastDefaultBaseURL is the production API endpoint
const SteadfastDefaultBaseURL = "https://portal.packzy.com/api/v1"

// SteadfastConfig holds Steadfast Courier API credentials
type SteadfastConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
}

// Validate checks that the credentials needed for an API call are present.
// Called on every request rather than at construction so deployments that
// never use Steadfast can run without its credentials.
func (c *SteadfastConfig) Validate() error {
	if c.APIKey == "" || c.SecretKey == "" {
		return courier.NewError(courier.CodeSteadfast, courier.KindNotConfigured, 0,
			"steadfast api key and secret key are required")
	}
	return nil
}

// SteadfastAdapter implements courier.Client for Steadfast Courier.
// Steadfast embeds its own status code in the response body, so a body-level
// status other than 200 is a rejection even on HTTP 200.
type SteadfastAdapter struct {
	config     SteadfastConfig
	httpClient *http.Client
}

var _ courier.Client = (*SteadfastAdapter)(nil)

// NewSteadfastAdapter creates a Steadfast adapter
func NewSteadfastAdapter(config SteadfastConfig) *SteadfastAdapter {
	if config.BaseURL == "" {
		config.BaseURL = SteadfastDefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SteadfastAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Code identifies this adapter's provider
func (a *SteadfastAdapter) Code() courier.Code {
	return courier.CodeSteadfast
}

type steadfastCreateOrderRequest struct {
	Invoice          string `json:"invoice"`
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientAddress string `json:"recipient_address"`
	CODAmount        string `json:"cod_amount"`
	Note             string `json:"note,omitempty"`
}

type steadfastConsignment struct {
	ConsignmentID json.Number `json:"consignment_id"`
	TrackingCode  string      `json:"tracking_code"`
	Status        string      `json:"status"`
}

type steadfastEnvelope struct {
	Status         int                   `json:"status"`
	Message        string                `json:"message"`
	Consignment    *steadfastConsignment `json:"consignment"`
	DeliveryStatus string                `json:"delivery_status"`
}

// CreateShipment books a consignment. Steadfast routes by the free-text
// address, so area info is ignored.
func (a *SteadfastAdapter) CreateShipment(ctx context.Context, o *order.Order, _ *courier.AreaInfo) (*courier.ShipmentResult, error) {
	payload := steadfastCreateOrderRequest{
		Invoice:          o.OrderNumber,
		RecipientName:    o.CustomerName,
		RecipientPhone:   o.CustomerPhone,
		RecipientAddress: o.Address,
		CODAmount:        o.CODAmount.StringFixed(2),
		Note:             o.DeliveryNote,
	}

	body, err := a.call(ctx, http.MethodPost, "/create_order", payload)
	if err != nil {
		return nil, err
	}

	var envelope steadfastEnvelope
	if err := decode(courier.CodeSteadfast, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != 200 || envelope.Consignment == nil {
		return nil, courier.NewError(courier.CodeSteadfast, courier.KindProviderRejected, http.StatusOK, envelope.Message)
	}

	return &courier.ShipmentResult{
		ConsignmentID: envelope.Consignment.ConsignmentID.String(),
		TrackingCode:  envelope.Consignment.TrackingCode,
		Status:        envelope.Consignment.Status,
		RawInfo:       string(body),
	}, nil
}

// TrackShipment looks up the delivery status by tracking code
func (a *SteadfastAdapter) TrackShipment(ctx context.Context, trackingRef string) (*courier.TrackingStatus, error) {
	path := "/status_by_trackingcode/" + url.PathEscape(trackingRef)
	body, err := a.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope steadfastEnvelope
	if err := decode(courier.CodeSteadfast, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != 200 {
		return nil, courier.NewError(courier.CodeSteadfast, courier.KindProviderRejected, http.StatusOK, envelope.Message)
	}

	return &courier.TrackingStatus{
		Status:  envelope.DeliveryStatus,
		RawInfo: string(body),
	}, nil
}

// CancelShipment requests cancellation of a consignment
func (a *SteadfastAdapter) CancelShipment(ctx context.Context, consignmentID string) (*courier.CancelResult, error) {
	payload := map[string]string{"consignment_id": consignmentID}
	body, err := a.call(ctx, http.MethodPost, "/cancel_order", payload)
	if err != nil {
		return nil, err
	}

	var envelope steadfastEnvelope
	if err := decode(courier.CodeSteadfast, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != 200 {
		return nil, courier.NewError(courier.CodeSteadfast, courier.KindProviderRejected, http.StatusOK, envelope.Message)
	}

	return &courier.CancelResult{
		Message: envelope.Message,
		RawInfo: string(body),
	}, nil
}

func (a *SteadfastAdapter) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	req, err := newJSONRequest(ctx, method, a.config.BaseURL+path, payload)
	if err != nil {
		return nil, courier.NewError(courier.CodeSteadfast, courier.KindProtocolError, 0, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Api-Key", a.config.APIKey)
	req.Header.Set("Secret-Key", a.config.SecretKey)

	status, body, err := execute(a.httpClient, req, courier.CodeSteadfast)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, mapFailure(courier.CodeSteadfast, status, body)
	}
	return body, nil
}
