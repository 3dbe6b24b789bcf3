// internal/app/system/transport/transport.go

// Package transport is the single low-level HTTP client every view goes
// through. It attaches the bearer token, serializes JSON (or passes
// multipart bodies through untouched), and normalizes success and error
// outcomes into the client's error taxonomy.
//
// One deliberate side effect lives here: an exactly-401 response clears all
// known token storage keys so subsequent renders treat the user as logged
// out. The auth-changed signal is NOT raised for that wipe; callers that
// need role re-derivation after a 401 must re-check session state on their
// own next read. Known gap, kept explicit rather than hidden.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/localstate"
)

// Client issues requests against the SILA REST backend.
type Client struct {
	// BaseURL is the fixed base origin relative paths resolve against,
	// e.g. "http://localhost:8000". Absolute URLs bypass it.
	BaseURL string

	// HTTP is the underlying client. Timeouts ride on it or on the
	// request context; the transport adds no retry policy of its own.
	HTTP *http.Client

	// State supplies the bearer token and absorbs the 401 wipe.
	State localstate.Store

	Log *zap.Logger
}

// New creates a Client with the default http.Client.
func New(baseURL string, state localstate.Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		State:   state,
		Log:     log,
	}
}

// Do performs one request and returns the raw response body. A 204 returns
// (nil, nil). Non-2xx statuses return *HttpError; requests that never
// complete return *TransportError wrapping the underlying error.
//
// payload handling: nil sends no body; *FormPayload is sent as-is with its
// own multipart content type; anything else is JSON-encoded with a JSON
// content-type header.
func (c *Client) Do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch p := payload.(type) {
	case nil:
	case *FormPayload:
		r, ct, err := p.finalize()
		if err != nil {
			return nil, fmt.Errorf("finalize form payload: %w", err)
		}
		body, contentType = r, ct
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode request payload: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := localstate.Token(c.State); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn("request failed before a response",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// A body that cannot be read in full is a transport failure even on a
	// 2xx status; a truncated payload must never pass for a success.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Warn("response body read failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &TransportError{Err: err}
	}

	c.Log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	// Unauthorized invalidates local credentials so the next render sees a
	// logged-out session. Only exactly 401; other failures leave tokens be.
	if resp.StatusCode == http.StatusUnauthorized {
		localstate.ClearTokens(c.State)
	}

	return nil, &HttpError{
		Status:  resp.StatusCode,
		Message: errorMessage(raw, resp.StatusCode),
	}
}

// JSON performs Do and unmarshals a non-empty response body into out.
// out may be nil when the caller only cares about success.
func (c *Client) JSON(ctx context.Context, method, path string, payload, out any) error {
	raw, err := c.Do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// resolve joins path onto the base origin, letting absolute URLs through
// unmodified.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// errorMessage extracts the most specific message from an error body:
// JSON "detail", then JSON "error", then the raw text, then "HTTP <status>".
func errorMessage(raw []byte, status int) string {
	text := strings.TrimSpace(string(raw))
	if text != "" {
		var body struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			if body.Detail != "" {
				return body.Detail
			}
			if body.Error != "" {
				return body.Error
			}
		}
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
