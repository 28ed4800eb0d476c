package ports

import (
	"context"

	"shipment-tracker/internal/features/tracking/domain"
)

// TransportClient defines the interface for shipment data transports. It knows
// nothing about session state.
type TransportClient interface {
	// FetchShipments retrieves the shipments matching a tracking number.
	// A single-shipment backend response is normalized to a one-element slice.
	FetchShipments(ctx context.Context, trackingNumber string) ([]domain.Shipment, error)
	// OpenLiveChannel establishes a streaming connection for push updates,
	// subscribed to the given tracking number. Returns
	// domain.ErrNoLiveEndpoint when no streaming endpoint is configured.
	OpenLiveChannel(ctx context.Context, trackingNumber string) (LiveChannel, error)
}

// LiveChannel is a push-update stream for a single tracking number.
type LiveChannel interface {
	// Events delivers channel events in server order. The channel is closed
	// when the stream ends.
	Events() <-chan domain.ChannelEvent
	// Close tears down the underlying connection. Safe to call more than once.
	Close() error
}

// UpdateSink receives state mutations from the update manager. Implemented by
// the session state store.
type UpdateSink interface {
	// MergeShipment applies a partial or full live update to the collection.
	MergeShipment(update domain.Shipment)
	// ReplaceShipments swaps the collection wholesale (poll results).
	ReplaceShipments(shipments []domain.Shipment)
	// RecordNotification appends an entry to the notification log.
	RecordNotification(title, message string)
}
