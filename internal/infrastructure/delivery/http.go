// Package delivery implements the courier provider adapters. Each adapter
// wraps one provider's HTTP API behind the courier.Client contract and maps
// its failures onto courier.Error so nothing provider-specific leaks upward.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dokanify/backend/internal/domain/courier"
)

// maxResponseSize is the maximum allowed response size from a provider (1MB)
const maxResponseSize = 1 * 1024 * 1024

// genericEnvelope covers the message/error fields the providers use in
// their failure payloads
type genericEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// execute performs the request and returns the status code and body. Any
// transport failure, including a timeout, is a protocol error: no usable
// response arrived, so nothing can be inferred about the provider's state.
func execute(client *http.Client, req *http.Request, code courier.Code) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, courier.NewError(code, courier.KindProtocolError, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, courier.NewError(code, courier.KindProtocolError, resp.StatusCode, "failed to read response body")
	}
	return resp.StatusCode, body, nil
}

// mapFailure applies the uniform error mapping to a provider response:
// 401 means bad credentials, a non-JSON body means the provider broke its
// contract, and a JSON message/error on any other status is a rejection.
func mapFailure(code courier.Code, status int, body []byte) error {
	if status == http.StatusUnauthorized {
		return courier.NewError(code, courier.KindAuthenticationFailed, status, rejectionMessage(body))
	}
	if !json.Valid(body) {
		return courier.NewError(code, courier.KindProtocolError, status, "provider returned a non-JSON response")
	}
	return courier.NewError(code, courier.KindProviderRejected, status, rejectionMessage(body))
}

func rejectionMessage(body []byte) string {
	var envelope genericEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return "request rejected by provider"
}

// decode parses a JSON body, reporting a protocol error when it does not fit
func decode(code courier.Code, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return courier.NewError(code, courier.KindProtocolError, 0, fmt.Sprintf("unexpected response shape: %v", err))
	}
	return nil
}

func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
