package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// subscribeMessage is sent once on open to bind the channel to a tracking number.
type subscribeMessage struct {
	Action         string `json:"action"`
	TrackingNumber string `json:"trackingNumber"`
}

// liveMessage is the wire shape of streaming frames.
type liveMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OpenLiveChannel dials the streaming endpoint with the tracking number as a
// query parameter and sends a subscribe message once the connection is up.
func (t *HTTPTransport) OpenLiveChannel(ctx context.Context, trackingNumber string) (ports.LiveChannel, error) {
	if t.wsURL == "" {
		return nil, domain.ErrNoLiveEndpoint
	}

	separator := "?"
	if strings.Contains(t.wsURL, "?") {
		separator = "&"
	}
	endpoint := t.wsURL + separator + "tn=" + url.QueryEscape(trackingNumber)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open live channel: %w", err)
	}

	subscribe := subscribeMessage{Action: "subscribe", TrackingNumber: trackingNumber}
	if err := conn.WriteJSON(subscribe); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to live updates: %w", err)
	}

	channel := &wsChannel{
		conn:   conn,
		events: make(chan domain.ChannelEvent, 16),
		logger: t.logger,
	}
	go channel.readLoop()

	return channel, nil
}

// wsChannel adapts a websocket connection to the LiveChannel port.
type wsChannel struct {
	conn      *websocket.Conn
	events    chan domain.ChannelEvent
	closeOnce sync.Once
	logger    *zap.Logger
}

// Events delivers decoded frames in arrival order.
func (c *wsChannel) Events() <-chan domain.ChannelEvent {
	return c.events
}

// Close tears down the connection, ending the read loop.
func (c *wsChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// readLoop decodes frames until the connection ends. A read failure other
// than a clean shutdown emits a single error event before the stream closes.
func (c *wsChannel) readLoop() {
	defer close(c.events)

	for {
		var msg liveMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, net.ErrClosed) {
				return
			}
			c.events <- domain.ChannelEvent{Kind: domain.EventError, Err: err}
			return
		}

		switch msg.Type {
		case string(domain.EventShipmentUpdate):
			var shipment domain.Shipment
			if err := json.Unmarshal(msg.Payload, &shipment); err != nil {
				c.logger.Warn("Skipping undecodable shipment update", zap.Error(err))
				continue
			}
			c.events <- domain.ChannelEvent{Kind: domain.EventShipmentUpdate, Shipment: shipment}
		case string(domain.EventNotification):
			c.events <- domain.ChannelEvent{Kind: domain.EventNotification, Message: msg.Message}
		default:
			c.logger.Debug("Ignoring unknown live message type", zap.String("type", msg.Type))
		}
	}
}
