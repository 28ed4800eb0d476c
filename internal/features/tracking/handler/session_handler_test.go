package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"
	"shipment-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport is a canned TransportClient for handler tests.
type stubTransport struct {
	returnList  []domain.Shipment
	returnError error
}

// FetchShipments implements TransportClient.
func (s *stubTransport) FetchShipments(_ context.Context, _ string) ([]domain.Shipment, error) {
	if s.returnError != nil {
		return nil, s.returnError
	}
	return s.returnList, nil
}

// OpenLiveChannel implements TransportClient.
func (s *stubTransport) OpenLiveChannel(_ context.Context, _ string) (ports.LiveChannel, error) {
	return nil, domain.ErrNoLiveEndpoint
}

func newTestApp(t *testing.T, transport *stubTransport) *fiber.App {
	t.Helper()

	session := service.NewSession(transport, time.Hour, true)
	t.Cleanup(session.Close)

	h := NewSessionHandler(session)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/healthz", h.Health)
	app.Get("/session", h.GetSession)
	app.Post("/search", h.Search)
	app.Post("/select", h.Select)
	return app
}

// TestSessionHandler_Search_Success verifies a search returns the refreshed snapshot.
func TestSessionHandler_Search_Success(t *testing.T) {
	app := newTestApp(t, &stubTransport{
		returnList: []domain.Shipment{{TrackingNumber: "ABC123", Status: "In Transit"}},
	})

	req := httptest.NewRequest("POST", "/search", strings.NewReader(`{"trackingNumber":"ABC123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap service.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Len(t, snap.Shipments, 1)
	assert.Equal(t, "ABC123", snap.Shipments[0].TrackingNumber)
	require.NotNil(t, snap.Selected)
	assert.Equal(t, string(service.UpdateStatePolling), string(snap.UpdateState))
}

// TestSessionHandler_Search_BlankTrackingNumber verifies the validation message.
func TestSessionHandler_Search_BlankTrackingNumber(t *testing.T) {
	app := newTestApp(t, &stubTransport{})

	req := httptest.NewRequest("POST", "/search", strings.NewReader(`{"trackingNumber":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, service.MsgEmptyTrackingNumber, errResp.Message)
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestSessionHandler_Search_TransportFailure verifies the backend error text
// is surfaced.
func TestSessionHandler_Search_TransportFailure(t *testing.T) {
	app := newTestApp(t, &stubTransport{
		returnError: &domain.TransportError{StatusCode: 404, Body: "tracking number not found"},
	})

	req := httptest.NewRequest("POST", "/search", strings.NewReader(`{"trackingNumber":"NOPE"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "tracking number not found", errResp.Message)
}

// TestSessionHandler_Select verifies selecting and missing shipments.
func TestSessionHandler_Select(t *testing.T) {
	app := newTestApp(t, &stubTransport{
		returnList: []domain.Shipment{
			{TrackingNumber: "A"},
			{TrackingNumber: "B"},
		},
	})

	req := httptest.NewRequest("POST", "/search", strings.NewReader(`{"trackingNumber":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/select", strings.NewReader(`{"trackingNumber":"B"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap service.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "B", snap.Selected.TrackingNumber)

	req = httptest.NewRequest("POST", "/select", strings.NewReader(`{"trackingNumber":"MISSING"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestSessionHandler_GetSession verifies the snapshot endpoint.
func TestSessionHandler_GetSession(t *testing.T) {
	app := newTestApp(t, &stubTransport{})

	req := httptest.NewRequest("GET", "/session", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap service.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Empty(t, snap.Shipments)
	assert.Equal(t, string(service.UpdateStateIdle), string(snap.UpdateState))
}

// TestSessionHandler_Health verifies the liveness route.
func TestSessionHandler_Health(t *testing.T) {
	app := newTestApp(t, &stubTransport{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
