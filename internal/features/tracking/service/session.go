package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MsgEmptyTrackingNumber is surfaced when a search is attempted with a blank
// tracking number.
const MsgEmptyTrackingNumber = "Please enter a tracking number."

// MsgNoAPIConfigured is the persistent advisory shown while running on mock
// data because no backend is configured.
const MsgNoAPIConfigured = "No API base URL configured. Set API_BASE_URL to enable live data."

// Session is the application state store for one tracking session: the
// current query, shipment collection, selection, loading/error flags and the
// notification log. All mutation funnels through its methods. The update
// manager feeds merges and notifications back in through the UpdateSink
// entry points.
type Session struct {
	transport ports.TransportClient
	updates   *UpdateManager
	logger    *zap.Logger

	mu             sync.RWMutex
	trackingNumber string
	shipments      []domain.Shipment
	selected       *domain.Shipment
	loading        bool
	errMsg         string
	configNotice   string
	notifications  []domain.Notification
}

// Snapshot is an immutable view of the session state for the presentation layer.
type Snapshot struct {
	TrackingNumber string                `json:"trackingNumber"`
	Shipments      []domain.Shipment     `json:"shipments"`
	Selected       *domain.Shipment      `json:"selected,omitempty"`
	Notifications  []domain.Notification `json:"notifications"`
	Loading        bool                  `json:"loading"`
	Error          string                `json:"error,omitempty"`
	ConfigNotice   string                `json:"configNotice,omitempty"`
	UpdateState    UpdateState           `json:"updateState"`
}

// NewSession creates a Session wired to the given transport. Configuration is
// evaluated once here: when no backend API is configured the advisory notice
// is set for the lifetime of the session. The mock fallback still lets
// searches work in that mode.
func NewSession(transport ports.TransportClient, pollInterval time.Duration, apiConfigured bool) *Session {
	s := &Session{
		transport: transport,
		logger:    logger.Get(),
	}
	s.updates = NewUpdateManager(transport, s, pollInterval)
	if !apiConfigured {
		s.configNotice = MsgNoAPIConfigured
	}
	return s
}

// Search runs a fresh query. A blank tracking number sets the validation
// message and returns domain.ErrEmptyTrackingNumber without touching the
// collection or the network. On success the results replace the collection,
// the first result becomes the selection, and live updates start for the
// query. On failure the collection and selection are cleared, the error
// message is recorded, and live updates are not started. The loading flag is
// cleared on every exit path.
func (s *Session) Search(ctx context.Context, trackingNumber string) error {
	query := strings.TrimSpace(trackingNumber)
	if query == "" {
		s.mu.Lock()
		s.errMsg = MsgEmptyTrackingNumber
		s.mu.Unlock()
		return domain.ErrEmptyTrackingNumber
	}

	s.mu.Lock()
	s.trackingNumber = query
	s.errMsg = ""
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	shipments, err := s.transport.FetchShipments(ctx, query)
	if err != nil {
		s.mu.Lock()
		s.shipments = nil
		s.selected = nil
		s.errMsg = err.Error()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.shipments = shipments
	if len(shipments) > 0 {
		selected := shipments[0]
		s.selected = &selected
	} else {
		s.selected = nil
	}
	s.mu.Unlock()

	s.updates.Start(query)
	return nil
}

// Select sets the shipment shown in the detail view to the entry matching the
// given identity, or clears the selection when trackingNumber is empty.
// Returns false when no entry matches. Pure state mutation, no side effects.
func (s *Session) Select(trackingNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trackingNumber == "" {
		s.selected = nil
		return true
	}
	for _, shipment := range s.shipments {
		if shipment.Identity() == trackingNumber {
			selected := shipment
			s.selected = &selected
			return true
		}
	}
	return false
}

// RecordNotification prepends an entry to the notification log, newest first,
// capped at domain.NotificationCap.
func (s *Session) RecordNotification(title, message string) {
	note := domain.Notification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Time:    time.Now(),
	}

	s.mu.Lock()
	s.notifications = domain.PushNotification(s.notifications, note)
	s.mu.Unlock()
}

// MergeShipment applies a live update to the collection. When the merged
// entry is the current selection, the selection follows the new value.
func (s *Session) MergeShipment(update domain.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shipments = domain.MergeShipment(s.shipments, update)
	if s.selected == nil || s.selected.Identity() != update.Identity() {
		return
	}
	for _, shipment := range s.shipments {
		if shipment.Identity() == update.Identity() {
			selected := shipment
			s.selected = &selected
			return
		}
	}
}

// ReplaceShipments swaps the collection wholesale. Poll results are applied
// this way rather than merged. The selection is left alone; it is a detached
// copy.
func (s *Session) ReplaceShipments(shipments []domain.Shipment) {
	s.mu.Lock()
	s.shipments = shipments
	s.mu.Unlock()
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	updateState := s.updates.State()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TrackingNumber: s.trackingNumber,
		Shipments:      make([]domain.Shipment, len(s.shipments)),
		Notifications:  make([]domain.Notification, len(s.notifications)),
		Loading:        s.loading,
		Error:          s.errMsg,
		ConfigNotice:   s.configNotice,
		UpdateState:    updateState,
	}
	copy(snap.Shipments, s.shipments)
	copy(snap.Notifications, s.notifications)
	if s.selected != nil {
		selected := *s.selected
		snap.Selected = &selected
	}
	return snap
}

// Updates exposes the channel manager, mainly for state inspection.
func (s *Session) Updates() *UpdateManager {
	return s.updates
}

// Close stops live updates. Must be called on session teardown.
func (s *Session) Close() {
	s.updates.Stop()
}
