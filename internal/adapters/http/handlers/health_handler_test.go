package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eazicred/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		cacheErr error
		want     int
		database string
		cache    string
	}{
		{"all healthy", nil, nil, http.StatusOK, "healthy", "healthy"},
		{"database down", errors.New("down"), nil, http.StatusServiceUnavailable, "unhealthy", "healthy"},
		{"cache down", nil, errors.New("down"), http.StatusOK, "healthy", "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(&config.Config{AppMode: "dev"}, pingerFunc(func(context.Context) error { return tt.cacheErr }))
			h.ping = func() error { return tt.dbErr }

			app := fiber.New()
			app.Get("/health", h.HealthCheck)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.database, body.Checks["database"])
			assert.Equal(t, tt.cache, body.Checks["cache"])
		})
	}
}

func TestRoot(t *testing.T) {
	h := NewHealthHandler(&config.Config{AppMode: "prod"}, nil)
	app := fiber.New()
	app.Get("/", h.Root)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "prod", body["mode"])
}
