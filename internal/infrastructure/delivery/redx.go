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

// RedXDefaultBaseURL is the production API endpoint
const RedXDefaultBaseURL = "https://openapi.redx.com.bd/v1.0.0-beta"

// redxDefaultUnitWeight is the per-unit parcel weight in kilograms assumed
// for items whose product has no weight set
var redxDefaultUnitWeight = decimal.NewFromFloat(0.5)

// RedXConfig holds RedX Delivery API credentials
type RedXConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate checks that the credentials needed for an API call are present
func (c *RedXConfig) Validate() error {
	if c.APIKey == "" {
		return courier.NewError(courier.CodeRedX, courier.KindNotConfigured, 0,
			"redx api key is required")
	}
	return nil
}

// RedXAdapter implements courier.Client for RedX Delivery. RedX routes by a
// numeric delivery area id, so shipment creation requires area info and is
// rejected before any HTTP call when it is missing.
type RedXAdapter struct {
	config     RedXConfig
	httpClient *http.Client
}

var _ courier.Client = (*RedXAdapter)(nil)

// NewRedXAdapter creates a RedX adapter
func NewRedXAdapter(config RedXConfig) *RedXAdapter {
	if config.BaseURL == "" {
		config.BaseURL = RedXDefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &RedXAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Code identifies this adapter's provider
func (a *RedXAdapter) Code() courier.Code {
	return courier.CodeRedX
}

type redxCreateParcelRequest struct {
	CustomerName         string `json:"customer_name"`
	CustomerPhone        string `json:"customer_phone"`
	CustomerAddress      string `json:"customer_address"`
	DeliveryArea         string `json:"delivery_area"`
	DeliveryAreaID       int    `json:"delivery_area_id"`
	MerchantInvoiceID    string `json:"merchant_invoice_id"`
	CashCollectionAmount string `json:"cash_collection_amount"`
	ParcelWeight         string `json:"parcel_weight"`
	Value                string `json:"value"`
	Instruction          string `json:"instruction,omitempty"`
}

type redxCreateParcelResponse struct {
	TrackingID string `json:"tracking_id"`
}

type redxParcelInfoResponse struct {
	Parcel struct {
		Status string `json:"status"`
	} `json:"parcel"`
}

// CreateShipment books a parcel with RedX
func (a *RedXAdapter) CreateShipment(ctx context.Context, o *order.Order, area *courier.AreaInfo) (*courier.ShipmentResult, error) {
	if area == nil || area.AreaID == 0 {
		return nil, courier.ErrMissingAreaInfo
	}

	payload := redxCreateParcelRequest{
		CustomerName:         o.CustomerName,
		CustomerPhone:        o.CustomerPhone,
		CustomerAddress:      o.Address,
		DeliveryArea:         area.AreaName,
		DeliveryAreaID:       area.AreaID,
		MerchantInvoiceID:    o.OrderNumber,
		CashCollectionAmount: o.CODAmount.StringFixed(2),
		ParcelWeight:         o.TotalWeight(redxDefaultUnitWeight).StringFixed(3),
		Value:                o.TotalAmount.StringFixed(2),
		Instruction:          o.DeliveryNote,
	}

	body, err := a.call(ctx, http.MethodPost, "/parcel", payload)
	if err != nil {
		return nil, err
	}

	var resp redxCreateParcelResponse
	if err := decode(courier.CodeRedX, body, &resp); err != nil {
		return nil, err
	}
	if resp.TrackingID == "" {
		return nil, courier.NewError(courier.CodeRedX, courier.KindProtocolError, http.StatusOK, "response missing tracking_id")
	}

	return &courier.ShipmentResult{
		ConsignmentID: resp.TrackingID,
		TrackingCode:  resp.TrackingID,
		RawInfo:       string(body),
	}, nil
}

// TrackShipment fetches the parcel's current status
func (a *RedXAdapter) TrackShipment(ctx context.Context, trackingRef string) (*courier.TrackingStatus, error) {
	path := "/parcel/info/" + url.PathEscape(trackingRef)
	body, err := a.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp redxParcelInfoResponse
	if err := decode(courier.CodeRedX, body, &resp); err != nil {
		return nil, err
	}

	return &courier.TrackingStatus{
		Status:  resp.Parcel.Status,
		RawInfo: string(body),
	}, nil
}

// CancelShipment requests cancellation of a parcel
func (a *RedXAdapter) CancelShipment(ctx context.Context, consignmentID string) (*courier.CancelResult, error) {
	path := "/parcel/cancel/" + url.PathEscape(consignmentID)
	body, err := a.call(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope genericEnvelope
	if err := decode(courier.CodeRedX, body, &envelope); err != nil {
		return nil, err
	}

	return &courier.CancelResult{
		Message: envelope.Message,
		RawInfo: string(body),
	}, nil
}

func (a *RedXAdapter) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	req, err := newJSONRequest(ctx, method, a.config.BaseURL+path, payload)
	if err != nil {
		return nil, courier.NewError(courier.CodeRedX, courier.KindProtocolError, 0, fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("API-ACCESS-TOKEN", "Bearer "+a.config.APIKey)

	status, body, err := execute(a.httpClient, req, courier.CodeRedX)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, mapFailure(courier.CodeRedX, status, body)
	}
	return body, nil
}
