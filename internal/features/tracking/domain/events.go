package domain

// EventKind discriminates the messages arriving on a live channel.
type EventKind string

const (
	// EventShipmentUpdate carries a partial or full shipment payload.
	EventShipmentUpdate EventKind = "shipment_update"
	// EventNotification carries a free-text server message.
	EventNotification EventKind = "notification"
	// EventError signals a channel-level failure; the stream ends after it.
	EventError EventKind = "error"
)

// ChannelEvent is a single asynchronous message from a live channel. Events
// are delivered in the order the server sent them.
type ChannelEvent struct {
	// Kind identifies which payload field is populated.
	Kind EventKind
	// Shipment is set for EventShipmentUpdate.
	Shipment Shipment
	// Message is set for EventNotification.
	Message string
	// Err is set for EventError.
	Err error
}
