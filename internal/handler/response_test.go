package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/accountapi/accountapi-go/internal/service"
	"github.com/accountapi/accountapi-go/internal/validate"
)

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{name: "validation", err: validate.FieldError("email", "bad"), status: http.StatusBadRequest, field: "email"},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", validate.FieldError("password", "short")), status: http.StatusBadRequest, field: "password"},
		{name: "credentials", err: service.ErrInvalidCredentials, status: http.StatusBadRequest, field: validate.NonFieldErrors},
		{name: "unauthenticated", err: service.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "forbidden", err: service.ErrForbidden, status: http.StatusForbidden},
		{name: "unexpected", err: errors.New("disk on fire"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodPost, "/", nil), logger, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var body struct {
				Error  string              `json:"error"`
				Fields map[string][]string `json:"fields"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Error == "" {
				t.Error("missing error message")
			}
			if tt.field != "" && len(body.Fields[tt.field]) == 0 {
				t.Errorf("fields = %v, want entry for %q", body.Fields, tt.field)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(body.Error, "disk") {
				t.Error("internal error details leaked to the client")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{name: "object", body: `{"name":"tina"}`, ok: true},
		{name: "empty body", body: "", ok: true},
		{name: "malformed", body: `{"name":`, status: http.StatusBadRequest},
		{name: "wrong type", body: `{"name":5}`, status: http.StatusBadRequest},
		{name: "trailing whitespace", body: "{\"name\":\"tina\"}\n  ", ok: true},
		{name: "trailing garbage", body: `{"name":"tina"} garbage`, status: http.StatusBadRequest},
		{name: "second object", body: `{"name":"tina"}{"name":"no"}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var p payload
			ok := decodeJSON(rec, req, &p)
			if ok != tt.ok {
				t.Fatalf("decodeJSON() = %v, want %v", ok, tt.ok)
			}
			if !ok && rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed(rec, httptest.NewRequest(http.MethodPost, "/api/user/me", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if !strings.Contains(rec.Body.String(), `POST`) {
		t.Errorf("body = %s, want method name", rec.Body.String())
	}
}
