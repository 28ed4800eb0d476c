package adapters

import (
	"context"
	"time"

	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"
)

var (
	mockLocations = []string{
		"Origin Facility",
		"Transit Hub A",
		"Transit Hub B",
		"Local Facility",
		"Out for Delivery",
	}
	mockStatuses = []string{
		"Label Created",
		"In Transit",
		"In Transit",
		"Arrived at Facility",
		"Out for Delivery",
		"Delivered",
	}
)

// MockTransport synthesizes placeholder shipment data for demo mode, used when
// no backend API is configured. Progress is a function of the current time,
// not of the tracking number, so repeated polls appear to move the parcel
// along. This is a documented fallback, not an error path.
type MockTransport struct {
	now func() time.Time
}

// NewMockTransport creates a MockTransport using the wall clock.
func NewMockTransport() *MockTransport {
	return &MockTransport{now: time.Now}
}

// FetchShipments returns one synthesized shipment for the tracking number.
// Never fails and never touches the network.
func (t *MockTransport) FetchShipments(_ context.Context, trackingNumber string) ([]domain.Shipment, error) {
	now := t.now()
	idx := now.Minute() % len(mockLocations)
	status := mockStatuses[min(idx+1, len(mockStatuses)-1)]

	shipment := domain.Shipment{
		TrackingNumber: trackingNumber,
		Carrier:        "MockCarrier",
		Status:         status,
		ETA:            now.Add(36 * time.Hour).Format(time.RFC3339),
		Location:       mockLocations[idx],
		Service:        "Ground",
		Weight:         "2.4 kg",
		History: []domain.HistoryEvent{
			{Time: now.Add(-72 * time.Hour), Location: "Origin Facility", Status: "Label Created"},
			{Time: now.Add(-48 * time.Hour), Location: "Transit Hub A", Status: "Departed Facility"},
			{Time: now.Add(-24 * time.Hour), Location: "Transit Hub B", Status: "Arrived at Facility"},
		},
	}

	return []domain.Shipment{shipment}, nil
}

// OpenLiveChannel always reports no endpoint; demo mode polls only.
func (t *MockTransport) OpenLiveChannel(_ context.Context, _ string) (ports.LiveChannel, error) {
	return nil, domain.ErrNoLiveEndpoint
}
