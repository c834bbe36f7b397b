package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/akhaled-dev/restodesk/internal/rpc/rpctest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// roundTripperFunc adapts a function to http.RoundTripper for client mocking.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func TestHTTPGateway_NetworkErrorNormalized(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})
	g := NewHTTPGateway("http://example.com", "key", client, nil)

	data, callErr := g.Call(context.Background(), "users_get", nil)
	if data != nil {
		t.Errorf("expected nil data, got %s", data)
	}
	if callErr == nil || !strings.Contains(callErr.Message, "network down") {
		t.Errorf("expected normalized transport error, got %v", callErr)
	}
}

func TestHTTPGateway_RequestShape(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://example.com/rest/v1/rpc/auth_admin" {
			t.Errorf("unexpected URL: %s", req.URL)
		}
		if req.Header.Get("apikey") != "anon" || req.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("missing auth headers: %v", req.Header)
		}
		if req.Header.Get("X-Client-Info") != "restodesk-admin" {
			t.Errorf("missing client info header")
		}
		var params map[string]any
		if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if params["p_username"] != "admin" {
			t.Errorf("unexpected params: %+v", params)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"success"}`)),
		}, nil
	})
	g := NewHTTPGateway("http://example.com", "anon", client, nil)

	data, callErr := g.Call(context.Background(), "auth_admin", map[string]any{
		"p_username": "admin",
		"p_passcode": "1234",
	})
	if callErr != nil {
		t.Fatalf("unexpected error: %v", callErr)
	}
	if !strings.Contains(string(data), "success") {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestHTTPGateway_NilParamsSendEmptyObject(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		if strings.TrimSpace(string(body)) != "{}" {
			t.Errorf("expected empty object body, got %q", body)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`[]`)),
		}, nil
	})
	g := NewHTTPGateway("http://example.com", "", client, nil)

	if _, callErr := g.Call(context.Background(), "branches_get", nil); callErr != nil {
		t.Fatalf("unexpected error: %v", callErr)
	}
}

func TestHTTPGateway_BackendErrorBody(t *testing.T) {
	srv := rpctest.NewServer()
	defer srv.Close()
	srv.Handle("users_delete", func(params map[string]any) (any, *rpctest.Fault) {
		return nil, &rpctest.Fault{
			Status:  http.StatusConflict,
			Message: `update or delete on table "users" violates foreign key constraint`,
			Code:    "23503",
		}
	})

	g := NewHTTPGateway(srv.URL, "anon", srv.Client(), nil)
	_, callErr := g.Call(context.Background(), "users_delete", map[string]any{"_id": "u1"})
	if callErr == nil {
		t.Fatal("expected error")
	}
	if callErr.Code != "23503" || !callErr.IsForeignKeyViolation() {
		t.Errorf("expected foreign-key classification, got %+v", callErr)
	}
}

func TestHTTPGateway_UnexpectedStatusWithoutBody(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream died")),
		}, nil
	})
	g := NewHTTPGateway("http://example.com", "", client, nil)

	_, callErr := g.Call(context.Background(), "shifts_get", nil)
	if callErr == nil || !strings.Contains(callErr.Message, "unexpected status 502") {
		t.Errorf("expected status fallback error, got %v", callErr)
	}
}

func TestHTTPGateway_PasscodeNeverLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"success"}`)),
		}, nil
	})
	g := NewHTTPGateway("http://example.com", "anon", client, zap.New(core))

	_, callErr := g.Call(context.Background(), "auth_admin", map[string]any{
		"p_username": "admin",
		"p_passcode": "secret-1234",
	})
	if callErr != nil {
		t.Fatalf("unexpected error: %v", callErr)
	}

	entries := logs.FilterMessage("rpc call").All()
	if len(entries) != 1 {
		t.Fatalf("expected one call log entry, got %d", len(entries))
	}
	params, ok := entries[0].ContextMap()["params"].(map[string]any)
	if !ok {
		t.Fatalf("params field missing from log entry: %+v", entries[0].ContextMap())
	}
	if params["p_passcode"] != "[REDACTED]" {
		t.Errorf("passcode logged as %v; want redacted", params["p_passcode"])
	}
	if params["p_username"] != "admin" {
		t.Errorf("non-sensitive param mangled: %v", params["p_username"])
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"nil error", nil, false},
		{"sqlstate code", &Error{Message: "conflict", Code: "23503"}, true},
		{"message match", &Error{Message: "update violates foreign key constraint"}, true},
		{"plain foreign key text", &Error{Message: "Foreign Key constraint failed"}, true},
		{"other code", &Error{Message: "bad input", Code: "22P02"}, false},
		{"generic", &Error{Message: "boom"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsForeignKeyViolation(); got != tt.want {
				t.Errorf("IsForeignKeyViolation() = %v; want %v", got, tt.want)
			}
		})
	}
}
