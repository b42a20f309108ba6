package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-yard-manager/internal/repository"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRespondErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"yard not found", repository.ErrYardNotFound, http.StatusNotFound},
		{"box not found", repository.ErrBoxNotFound, http.StatusNotFound},
		{"vehicle not found", repository.ErrVehicleNotFound, http.StatusNotFound},
		{"zone not found", repository.ErrZoneNotFound, http.StatusNotFound},
		{"no active parking", repository.ErrNoActiveParking, http.StatusNotFound},
		{"conflict", repository.ErrConflict, http.StatusConflict},
		{"not allowed", repository.ErrNotAllowed, http.StatusConflict},
		{"yard full", repository.ErrNoFreeBox, http.StatusConflict},
		{"invalid input", repository.ErrInvalidInput, http.StatusBadRequest},
		{"unknown error", errors.New("driver exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			if err := respondError(c, tt.err); err != nil {
				t.Fatalf("respondError returned %v", err)
			}
			rec := c.Response().Writer.(*httptest.ResponseRecorder)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusInternalServerError {
				// internals must not leak to clients
				if body := rec.Body.String(); body != "" && body != "{\"error\":\"internal error\"}\n" {
					t.Errorf("unexpected 500 body: %q", body)
				}
			}
		})
	}
}

func TestParamID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint64
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"zero", "0", 0, true},
		{"negative", "-1", 0, true},
		{"garbage", "abc", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			c.SetParamNames("id")
			c.SetParamValues(tt.raw)
			got, err := paramID(c, "id")
			if tt.wantErr {
				if !errors.Is(err, repository.ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("paramID = (%d, %v), want (%d, nil)", got, err, tt.want)
			}
		})
	}
}
