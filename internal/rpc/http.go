package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clientInfo identifies this application to the backend.
const clientInfo = "restodesk-admin"

// HTTPGateway invokes backend functions over the platform's HTTP surface:
// POST {base}/rest/v1/rpc/{fn} with a JSON parameter object.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

// NewHTTPGateway builds a gateway for the given base URL and API key.
// client may be nil, in which case a default client with a 30s timeout
// is used.
func NewHTTPGateway(baseURL, apiKey string, client *http.Client, log *zap.Logger) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPGateway{client: client, baseURL: baseURL, apiKey: apiKey, log: log}
}

// backendError is the error body shape returned by the platform.
type backendError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Call issues the named function with params and returns the raw JSON
// result. Any failure comes back in the *Error slot; Call itself never
// returns a Go error or panics.
func (g *HTTPGateway) Call(ctx context.Context, fn string, params map[string]any) (json.RawMessage, *Error) {
	requestID := uuid.NewString()
	start := time.Now()
	g.log.Debug("rpc call",
		zap.String("fn", fn),
		zap.String("request_id", requestID),
		zap.Any("params", redactParams(params)),
	)

	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, errorf("encode params for %s: %v", fn, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/rest/v1/rpc/%s", g.baseURL, fn), bytes.NewReader(body))
	if err != nil {
		return nil, errorf("build request for %s: %v", fn, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Info", clientInfo)
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		callErr := errorf("call %s: %v", fn, err)
		g.logOutcome(fn, requestID, start, callErr)
		return nil, callErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		callErr := errorf("read response of %s: %v", fn, err)
		g.logOutcome(fn, requestID, start, callErr)
		return nil, callErr
	}

	if resp.StatusCode >= http.StatusBadRequest {
		callErr := decodeBackendError(fn, resp.StatusCode, data)
		g.logOutcome(fn, requestID, start, callErr)
		return nil, callErr
	}

	g.logOutcome(fn, requestID, start, nil)
	return json.RawMessage(data), nil
}

func (g *HTTPGateway) logOutcome(fn, requestID string, start time.Time, callErr *Error) {
	fields := []zap.Field{
		zap.String("fn", fn),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if callErr != nil {
		fields = append(fields, zap.String("error", callErr.Message), zap.String("code", callErr.Code))
		g.log.Warn("rpc failed", fields...)
		return
	}
	g.log.Debug("rpc ok", fields...)
}

// decodeBackendError maps a non-2xx body into an *Error, falling back to
// the HTTP status when the body is not the expected shape.
func decodeBackendError(fn string, status int, body []byte) *Error {
	var be backendError
	if err := json.Unmarshal(body, &be); err == nil && be.Message != "" {
		return &Error{Message: be.Message, Code: be.Code}
	}
	return errorf("call %s: unexpected status %d", fn, status)
}
