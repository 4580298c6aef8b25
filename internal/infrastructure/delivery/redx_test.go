package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokanify/backend/internal/domain/courier"
)

func newRedX(serverURL string) *RedXAdapter {
	return NewRedXAdapter(RedXConfig{
		BaseURL: serverURL,
		APIKey:  "test-access-token",
	})
}

func TestRedXCreateShipment(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parcel", r.URL.Path)
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("API-ACCESS-TOKEN"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracking_id":"22A5B3C9D0E1F"}`))
	}))
	defer server.Close()

	area := &courier.AreaInfo{AreaID: 23, AreaName: "Dhanmondi"}
	result, err := newRedX(server.URL).CreateShipment(context.Background(), testOrder(t), area)

	require.NoError(t, err)
	assert.Equal(t, "22A5B3C9D0E1F", result.ConsignmentID)
	assert.Equal(t, "22A5B3C9D0E1F", result.TrackingCode)
	assert.Equal(t, float64(23), captured["delivery_area_id"])
	assert.Equal(t, "Dhanmondi", captured["delivery_area"])
	// 2 x 1.2kg + 4 x 0.5kg default
	assert.Equal(t, "4.400", captured["parcel_weight"])
	assert.Equal(t, "2400.00", captured["cash_collection_amount"])
}

func TestRedXRejectsMissingAreaBeforeHTTPCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	adapter := newRedX(server.URL)

	_, err := adapter.CreateShipment(context.Background(), testOrder(t), nil)
	assert.ErrorIs(t, err, courier.ErrMissingAreaInfo)

	_, err = adapter.CreateShipment(context.Background(), testOrder(t), &courier.AreaInfo{AreaName: "Dhanmondi"})
	assert.ErrorIs(t, err, courier.ErrMissingAreaInfo)

	assert.False(t, called)
}

func TestRedXProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid delivery area id"}`))
	}))
	defer server.Close()

	_, err := newRedX(server.URL).CreateShipment(context.Background(), testOrder(t), &courier.AreaInfo{AreaID: 99999, AreaName: "Nowhere"})

	var courierErr *courier.Error
	require.ErrorAs(t, err, &courierErr)
	assert.Equal(t, courier.KindProviderRejected, courierErr.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, courierErr.HTTPStatus)
	assert.Equal(t, "Invalid delivery area id", courierErr.Message)
}

func TestRedXMissingCredentials(t *testing.T) {
	adapter := NewRedXAdapter(RedXConfig{BaseURL: "http://localhost"})

	_, err := adapter.CreateShipment(context.Background(), testOrder(t), &courier.AreaInfo{AreaID: 23, AreaName: "Dhanmondi"})

	var courierErr *courier.Error
	require.ErrorAs(t, err, &courierErr)
	assert.Equal(t, courier.KindNotConfigured, courierErr.Kind)
}

func TestRedXTrackShipment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parcel/info/22A5B3C9D0E1F", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"parcel":{"status":"delivery-in-progress"}}`))
	}))
	defer server.Close()

	status, err := newRedX(server.URL).TrackShipment(context.Background(), "22A5B3C9D0E1F")

	require.NoError(t, err)
	assert.Equal(t, "delivery-in-progress", status.Status)
}
