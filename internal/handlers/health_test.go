package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandlerReportsDatabase(t *testing.T) {
	cases := []struct {
		name       string
		check      func(context.Context) error
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "no check",
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok"},
		},
		{
			name:       "database reachable",
			check:      func(context.Context) error { return nil },
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok", "database": "ok"},
		},
		{
			name:       "database down",
			check:      func(context.Context) error { return errors.New("dial tcp: connection refused") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"status": "degraded", "database": "unavailable"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler{Check: tc.check}.Handle(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if len(body) != len(tc.wantBody) {
				t.Fatalf("unexpected body %v", body)
			}
			for k, v := range tc.wantBody {
				if body[k] != v {
					t.Fatalf("expected %s=%s got %v", k, v, body)
				}
			}
		})
	}
}
