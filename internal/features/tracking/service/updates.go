package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// UpdateState identifies the update manager's position in its lifecycle.
type UpdateState string

const (
	// UpdateStateIdle means no query is being watched.
	UpdateStateIdle UpdateState = "IDLE"
	// UpdateStateStarting means a channel is being established.
	UpdateStateStarting UpdateState = "STARTING"
	// UpdateStateStreaming means a push channel is active.
	UpdateStateStreaming UpdateState = "STREAMING"
	// UpdateStatePolling means an interval poll is active.
	UpdateStatePolling UpdateState = "POLLING"
)

// UpdateManager owns the live-update channel for the current query: a
// streaming connection when one can be established, otherwise a poll ticker.
// At most one of the two is active at any time. Every Start supersedes the
// previous instance by bumping a generation counter; callbacks belonging to a
// superseded generation are no-ops.
type UpdateManager struct {
	transport ports.TransportClient
	sink      ports.UpdateSink
	interval  time.Duration
	logger    *zap.Logger

	mu         sync.Mutex
	gen        uint64
	state      UpdateState
	channel    ports.LiveChannel
	cancelPoll context.CancelFunc
}

// NewUpdateManager creates an UpdateManager polling at the given interval.
func NewUpdateManager(transport ports.TransportClient, sink ports.UpdateSink, interval time.Duration) *UpdateManager {
	return &UpdateManager{
		transport: transport,
		sink:      sink,
		interval:  interval,
		logger:    logger.Get(),
		state:     UpdateStateIdle,
	}
}

// Start switches live updates to the given tracking number, unconditionally
// tearing down any previously active channel first. A streaming channel is
// preferred; when no live endpoint is configured or the dial fails, polling
// starts instead. Safe to call at any time, including when nothing is active.
func (m *UpdateManager) Start(trackingNumber string) {
	m.mu.Lock()
	m.teardownLocked()
	m.gen++
	gen := m.gen
	m.state = UpdateStateStarting
	m.mu.Unlock()

	channel, err := m.transport.OpenLiveChannel(context.Background(), trackingNumber)
	if err != nil {
		if !errors.Is(err, domain.ErrNoLiveEndpoint) {
			m.logger.Warn("Live channel unavailable, using polling",
				zap.String("tracking_number", trackingNumber),
				zap.Error(err),
			)
		}
		m.startPolling(gen, trackingNumber)
		return
	}

	m.mu.Lock()
	if gen != m.gen {
		// Superseded while dialing.
		m.mu.Unlock()
		channel.Close()
		return
	}
	m.channel = channel
	m.state = UpdateStateStreaming
	m.mu.Unlock()

	go m.consume(gen, trackingNumber, channel)
}

// Stop unconditionally tears down whichever channel is active and returns to
// idle. Must be called on session teardown so no socket or ticker leaks.
func (m *UpdateManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
	m.gen++
	m.state = UpdateStateIdle
}

// State reports the current lifecycle state.
func (m *UpdateManager) State() UpdateState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// teardownLocked closes the active channel and cancels the poll ticker.
// Idempotent. Callers hold m.mu.
func (m *UpdateManager) teardownLocked() {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	if m.cancelPoll != nil {
		m.cancelPoll()
		m.cancelPoll = nil
	}
}

// current reports whether gen still identifies the active instance.
func (m *UpdateManager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}

// consume applies streaming events until the channel ends. A channel-level
// error records one fallback notification and degrades to polling for the
// same tracking number; polling never re-attempts streaming.
func (m *UpdateManager) consume(gen uint64, trackingNumber string, channel ports.LiveChannel) {
	for event := range channel.Events() {
		if !m.current(gen) {
			// Drain a superseded channel without touching state.
			continue
		}

		switch event.Kind {
		case domain.EventShipmentUpdate:
			m.sink.MergeShipment(event.Shipment)
			message := event.Shipment.Status
			if message == "" {
				message = "Status updated"
			}
			m.sink.RecordNotification("Shipment update", message)

		case domain.EventNotification:
			m.sink.RecordNotification("Update", event.Message)

		case domain.EventError:
			m.logger.Warn("Live channel failed, falling back to polling",
				zap.String("tracking_number", trackingNumber),
				zap.Error(event.Err),
			)
			m.sink.RecordNotification("Live updates error", "WebSocket error; falling back to polling.")

			m.mu.Lock()
			if gen != m.gen {
				m.mu.Unlock()
				return
			}
			if m.channel != nil {
				m.channel.Close()
				m.channel = nil
			}
			m.mu.Unlock()

			m.startPolling(gen, trackingNumber)
			return
		}
	}
}

// startPolling arms the poll ticker for the instance identified by gen. A
// no-op when the instance has been superseded in the meantime.
func (m *UpdateManager) startPolling(gen uint64, trackingNumber string) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelPoll = cancel
	m.state = UpdateStatePolling
	m.mu.Unlock()

	go m.poll(ctx, gen, trackingNumber)
}

// poll re-fetches on a fixed interval and replaces the collection wholesale.
// Failed attempts are swallowed and retried on the next tick; polling only
// ends when the instance is cancelled or superseded.
func (m *UpdateManager) poll(ctx context.Context, gen uint64, trackingNumber string) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			shipments, err := m.transport.FetchShipments(ctx, trackingNumber)
			if err != nil {
				m.logger.Debug("Poll attempt failed",
					zap.String("tracking_number", trackingNumber),
					zap.Error(err),
				)
				continue
			}
			if !m.current(gen) {
				return
			}
			m.sink.ReplaceShipments(shipments)
		}
	}
}
