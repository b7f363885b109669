package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
)

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")

	// ErrNoToken is returned when an auth endpoint answers 2xx without a token.
	ErrNoToken = errors.New("auth response carried no token")
)

const noTokenMessage = "Authentication failed: No token received."

// APIError is a non-2xx answer from the weather service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather api: status %d", e.Status)
	}
	return fmt.Sprintf("weather api: status %d: %s", e.Status, e.Message)
}

// UserMessage picks the text shown inline for a failed call: the service's
// own message when it sent one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNoToken) {
		return noTokenMessage
	}
	return fallback
}

// request describes one call; body, when set, is sent as JSON.
type request struct {
	method string
	path   string
	query  string
	token  string
	body   any
}

// do runs a single attempt through the circuit breaker and decodes a 2xx
// JSON body into out (out may be nil). Transport errors and 5xx answers
// count against the breaker; 4xx answers do not.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.http == nil {
		return errNoHTTPClient
	}

	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.path, err)
		}
		payload = b
	}

	u := c.baseURL + r.path
	if r.query != "" {
		u += "?" + r.query
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	var clientErr error
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}

		if resp.StatusCode >= 500 {
			return nil, decodeAPIError(resp.StatusCode, body)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Caller mistakes say nothing about the service's health.
			clientErr = decodeAPIError(resp.StatusCode, body)
			return nil, nil
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return err
	}
	if clientErr != nil {
		return clientErr
	}

	body, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{Status: status, Message: payload.Message}
}
