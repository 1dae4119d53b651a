package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the credentials attached to outbound requests.
type TokenSource interface {
	AccessToken() string
	CompanyID() string
}

// Client talks to the camlica360 HR backend. It owns per-request timeouts;
// callers only ever see the typed error taxonomy from errors.go.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a backend client.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// apiResponse is the backend's response envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Message *string         `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// do performs one request and decodes the envelope's data into out (which
// may be nil for calls without a response body).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if code := c.tokens.CompanyID(); code != "" {
		req.Header.Set("X-Company-Code", code)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	if err := classifyStatus(resp.StatusCode, data); err != nil {
		return err
	}

	var envelope apiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if !envelope.Success {
		return &ServerError{StatusCode: envelope.Code, Message: envelopeMessage(envelope)}
	}
	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return nil
}

func envelopeMessage(envelope apiResponse) string {
	if envelope.Message != nil {
		return *envelope.Message
	}
	return "request failed"
}

// classifyTransportError maps connection-level failures onto the transient
// part of the taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	// Everything else at this layer is an unreachable network.
	return fmt.Errorf("%w: %v", ErrNoConnectivity, err)
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, serverMessage(body))
	case status >= 500:
		return &ServerError{StatusCode: status, Message: serverMessage(body)}
	default:
		return &ServerError{StatusCode: status, Message: serverMessage(body)}
	}
}

func serverMessage(body []byte) string {
	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != nil {
		return *envelope.Message
	}
	return "request failed"
}
