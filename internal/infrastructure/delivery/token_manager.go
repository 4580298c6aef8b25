package delivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/shared"
)

// tokenExpiryMargin is how long before expiry a cached token is considered
// stale and refreshed proactively
const tokenExpiryMargin = 60 * time.Second

// PathaoTokenManager handles the OAuth-style token lifecycle for Pathao.
// Tokens are cached in the courier_tokens table keyed by provider; refresh
// and re-issue are serialized per provider through a singleflight group so
// concurrent callers racing on an expired token trigger exactly one network
// round-trip and one upsert.
type PathaoTokenManager struct {
	config     PathaoConfig
	tokens     courier.CourierTokenRepository
	httpClient *http.Client
	group      singleflight.Group
	logger     *zap.Logger
}

// NewPathaoTokenManager creates a token manager over the given token store
func NewPathaoTokenManager(config PathaoConfig, tokens courier.CourierTokenRepository, logger *zap.Logger) *PathaoTokenManager {
	if config.BaseURL == "" {
		config.BaseURL = PathaoDefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathaoTokenManager{
		config:     config,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

type pathaoTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// AccessToken returns a valid access token, issuing or refreshing one if the
// cached token is missing or near expiry.
func (m *PathaoTokenManager) AccessToken(ctx context.Context) (string, error) {
	cached, err := m.findCached(ctx)
	if err != nil {
		return "", err
	}
	if cached != nil && cached.Valid(tokenExpiryMargin) {
		return cached.AccessToken, nil
	}

	token, err, _ := m.group.Do(courier.CodePathao.String(), func() (any, error) {
		// Another caller may have refreshed while we waited on the group
		current, err := m.findCached(ctx)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Valid(tokenExpiryMargin) {
			return current.AccessToken, nil
		}
		return m.renew(ctx, current)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *PathaoTokenManager) findCached(ctx context.Context) (*courier.CourierToken, error) {
	token, err := m.tokens.FindByCourier(ctx, courier.CodePathao)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return token, nil
}

// renew refreshes the token when a refresh token is on file, falling back to
// a fresh password-grant issue when the refresh is rejected.
func (m *PathaoTokenManager) renew(ctx context.Context, current *courier.CourierToken) (string, error) {
	if err := m.config.Validate(); err != nil {
		return "", err
	}

	if current != nil && current.RefreshToken != "" {
		resp, err := m.grant(ctx, map[string]string{
			"client_id":     m.config.ClientID,
			"client_secret": m.config.ClientSecret,
			"grant_type":    "refresh_token",
			"refresh_token": current.RefreshToken,
		})
		if err == nil {
			return m.store(ctx, current, resp)
		}
		m.logger.Warn("pathao token refresh failed, falling back to password grant",
			zap.Error(err),
		)
	}

	resp, err := m.grant(ctx, map[string]string{
		"client_id":     m.config.ClientID,
		"client_secret": m.config.ClientSecret,
		"grant_type":    "password",
		"username":      m.config.Username,
		"password":      m.config.Password,
	})
	if err != nil {
		return "", err
	}
	return m.store(ctx, current, resp)
}

func (m *PathaoTokenManager) grant(ctx context.Context, payload map[string]string) (*pathaoTokenResponse, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, m.config.BaseURL+"/aladdin/api/v1/issue-token", payload)
	if err != nil {
		return nil, courier.NewError(courier.CodePathao, courier.KindProtocolError, 0, fmt.Sprintf("failed to build token request: %v", err))
	}

	status, body, err := execute(m.httpClient, req, courier.CodePathao)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, mapFailure(courier.CodePathao, status, body)
	}

	var resp pathaoTokenResponse
	if err := decode(courier.CodePathao, body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, courier.NewError(courier.CodePathao, courier.KindProtocolError, status, "token response missing access_token")
	}
	return &resp, nil
}

func (m *PathaoTokenManager) store(ctx context.Context, current *courier.CourierToken, resp *pathaoTokenResponse) (string, error) {
	token := current
	if token == nil {
		token = &courier.CourierToken{
			BaseEntity: shared.NewBaseEntity(),
			Courier:    courier.CodePathao,
		}
	}
	token.AccessToken = resp.AccessToken
	token.RefreshToken = resp.RefreshToken
	token.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)

	if err := m.tokens.Upsert(ctx, token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}
