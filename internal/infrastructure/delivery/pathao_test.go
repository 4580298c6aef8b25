package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/shared"
)

type fakeTokenRepo struct {
	mu    sync.Mutex
	token *courier.CourierToken
}

func (r *fakeTokenRepo) FindByCourier(_ context.Context, code courier.Code) (*courier.CourierToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token == nil || r.token.Courier != code {
		return nil, shared.ErrNotFound
	}
	copied := *r.token
	return &copied, nil
}

func (r *fakeTokenRepo) Upsert(_ context.Context, token *courier.CourierToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.token = &copied
	return nil
}

func pathaoTestConfig(serverURL string) PathaoConfig {
	return PathaoConfig{
		BaseURL:      serverURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "merchant@example.com",
		Password:     "secret",
		StoreID:      130140,
	}
}

// pathaoServer fakes the token and order endpoints, counting token issues
type pathaoServer struct {
	*httptest.Server
	mu          sync.Mutex
	tokenCalls  int
	grantTypes  []string
	failRefresh bool
}

func newPathaoServer(t *testing.T) *pathaoServer {
	t.Helper()
	s := &pathaoServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aladdin/api/v1/issue-token":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			s.mu.Lock()
			s.tokenCalls++
			s.grantTypes = append(s.grantTypes, payload["grant_type"])
			failRefresh := s.failRefresh
			s.mu.Unlock()

			if failRefresh && payload["grant_type"] == "refresh_token" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"invalid refresh token"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"fresh-token","refresh_token":"fresh-refresh","expires_in":3600,"token_type":"Bearer"}`))
		case "/aladdin/api/v1/orders":
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"type":"success","message":"Order created","data":{"consignment_id":"DP010725","order_status":"Pending"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func TestPathaoCreateShipment(t *testing.T) {
	server := newPathaoServer(t)
	cfg := pathaoTestConfig(server.URL)
	manager := NewPathaoTokenManager(cfg, &fakeTokenRepo{}, zap.NewNop())
	adapter := NewPathaoAdapter(cfg, manager)

	area := &courier.AreaInfo{CityID: 1, ZoneID: 298}
	result, err := adapter.CreateShipment(context.Background(), testOrder(t), area)

	require.NoError(t, err)
	assert.Equal(t, "DP010725", result.ConsignmentID)
	assert.Equal(t, "Pending", result.Status)
	assert.Equal(t, []string{"password"}, server.grantTypes)
}

func TestPathaoRequiresCityAndZone(t *testing.T) {
	server := newPathaoServer(t)
	cfg := pathaoTestConfig(server.URL)
	adapter := NewPathaoAdapter(cfg, NewPathaoTokenManager(cfg, &fakeTokenRepo{}, zap.NewNop()))

	_, err := adapter.CreateShipment(context.Background(), testOrder(t), &courier.AreaInfo{CityID: 1})

	assert.ErrorIs(t, err, courier.ErrMissingAreaInfo)
	assert.Zero(t, server.tokenCalls)
}

func TestPathaoTokenReusedWithinValidity(t *testing.T) {
	server := newPathaoServer(t)
	cfg := pathaoTestConfig(server.URL)
	manager := NewPathaoTokenManager(cfg, &fakeTokenRepo{}, zap.NewNop())
	adapter := NewPathaoAdapter(cfg, manager)

	area := &courier.AreaInfo{CityID: 1, ZoneID: 298}
	_, err := adapter.CreateShipment(context.Background(), testOrder(t), area)
	require.NoError(t, err)
	_, err = adapter.TrackShipment(context.Background(), "DP010725")
	assert.Error(t, err) // tracking endpoint not faked, but no new token issued

	assert.Equal(t, 1, server.tokenCalls)
}

func TestPathaoRefreshFallsBackToPasswordGrant(t *testing.T) {
	server := newPathaoServer(t)
	server.failRefresh = true

	repo := &fakeTokenRepo{token: &courier.CourierToken{
		BaseEntity:   shared.NewBaseEntity(),
		Courier:      courier.CodePathao,
		AccessToken:  "stale-token",
		RefreshToken: "stale-refresh",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}}
	cfg := pathaoTestConfig(server.URL)
	manager := NewPathaoTokenManager(cfg, repo, zap.NewNop())

	token, err := manager.AccessToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, []string{"refresh_token", "password"}, server.grantTypes)
	assert.Equal(t, "fresh-refresh", repo.token.RefreshToken)
}

func TestPathaoTokenManagerMissingCredentials(t *testing.T) {
	manager := NewPathaoTokenManager(PathaoConfig{BaseURL: "http://localhost"}, &fakeTokenRepo{}, zap.NewNop())

	_, err := manager.AccessToken(context.Background())

	var courierErr *courier.Error
	require.ErrorAs(t, err, &courierErr)
	assert.Equal(t, courier.KindNotConfigured, courierErr.Kind)
}

func TestPathaoEnvelopeFailureIsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/aladdin/api/v1/issue-token" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"fresh-token","refresh_token":"","expires_in":3600}`))
			return
		}
		// HTTP 200 with a failure envelope
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"type":"error","message":"Zone is not valid"}`))
	}))
	defer server.Close()

	cfg := pathaoTestConfig(server.URL)
	adapter := NewPathaoAdapter(cfg, NewPathaoTokenManager(cfg, &fakeTokenRepo{}, zap.NewNop()))

	_, err := adapter.CreateShipment(context.Background(), testOrder(t), &courier.AreaInfo{CityID: 1, ZoneID: 298})

	var courierErr *courier.Error
	require.ErrorAs(t, err, &courierErr)
	assert.Equal(t, courier.KindProviderRejected, courierErr.Kind)
	assert.Equal(t, "Zone is not valid", courierErr.Message)
}

func TestCarryBeeIsNotImplemented(t *testing.T) {
	adapter := NewCarryBeeAdapter()

	_, err := adapter.CreateShipment(context.Background(), testOrder(t), nil)

	var courierErr *courier.Error
	require.ErrorAs(t, err, &courierErr)
	assert.Equal(t, courier.KindNotImplemented, courierErr.Kind)
	assert.Equal(t, courier.CodeCarryBee, courierErr.Courier)
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry(NewCarryBeeAdapter(), NewSteadfastAdapter(SteadfastConfig{}))

	client, err := registry.Resolve(courier.CodeSteadfast)
	require.NoError(t, err)
	assert.Equal(t, courier.CodeSteadfast, client.Code())

	_, err = registry.Resolve(courier.Code("dhl"))
	assert.ErrorIs(t, err, courier.ErrUnknownCourier)
}
