package domain

import (
	"encoding/json"
	"time"
)

// ShipmentCap bounds the collection when it grows through live-update merges.
const ShipmentCap = 20

// Shipment represents the tracked state of a single parcel.
type Shipment struct {
	// TrackingNumber identifies the shipment within a result set.
	TrackingNumber string `json:"trackingNumber"`
	// ID is an alternate identifier some backends send instead of a tracking number.
	ID string `json:"id,omitempty"`
	// Carrier is the courier handling the shipment.
	Carrier string `json:"carrier,omitempty"`
	// Status is a free-form short label. See BucketForStatus for UI grouping.
	Status string `json:"status,omitempty"`
	// ETA is kept as a display string; backends send timestamps or prose.
	ETA string `json:"eta,omitempty"`
	// Location is the last reported position of the parcel.
	Location string `json:"location,omitempty"`
	// Service is the shipping service level (e.g. Ground, Express).
	Service string `json:"service,omitempty"`
	// Weight is the declared parcel weight as a display string.
	Weight string `json:"weight,omitempty"`
	// History contains the chronological events for the shipment,
	// append-only from the server's perspective.
	History []HistoryEvent `json:"history,omitempty"`
}

// HistoryEvent is a single entry in a shipment's tracking history.
// Immutable once received.
type HistoryEvent struct {
	// Time is the timestamp when the event occurred.
	Time time.Time `json:"time"`
	// Location is where the event occurred.
	Location string `json:"location"`
	// Status is the description of the event.
	Status string `json:"status"`
}

// MarshalJSON adds the derived status bucket so consumers of the JSON surface
// do not re-implement the classification.
func (s Shipment) MarshalJSON() ([]byte, error) {
	type shipmentAlias Shipment
	return json.Marshal(struct {
		shipmentAlias
		StatusBucket StatusBucket `json:"statusBucket"`
	}{shipmentAlias(s), BucketForStatus(s.Status)})
}

// Identity returns the merge key for the shipment: the tracking number when
// present, otherwise the alternate ID.
func (s Shipment) Identity() string {
	if s.TrackingNumber != "" {
		return s.TrackingNumber
	}
	return s.ID
}

// Overlay returns a copy of s with the non-empty fields of update applied.
// Live updates may be partial, so empty fields in the payload keep the
// existing value. History is replaced only when the update carries one.
func (s Shipment) Overlay(update Shipment) Shipment {
	merged := s
	if update.TrackingNumber != "" {
		merged.TrackingNumber = update.TrackingNumber
	}
	if update.ID != "" {
		merged.ID = update.ID
	}
	if update.Carrier != "" {
		merged.Carrier = update.Carrier
	}
	if update.Status != "" {
		merged.Status = update.Status
	}
	if update.ETA != "" {
		merged.ETA = update.ETA
	}
	if update.Location != "" {
		merged.Location = update.Location
	}
	if update.Service != "" {
		merged.Service = update.Service
	}
	if update.Weight != "" {
		merged.Weight = update.Weight
	}
	if len(update.History) > 0 {
		merged.History = update.History
	}
	return merged
}

// MergeShipment applies a live update to the collection: the entry with a
// matching identity is replaced by its overlay, otherwise the update is
// prepended. The result never exceeds ShipmentCap entries. The input slice is
// not mutated.
func MergeShipment(shipments []Shipment, update Shipment) []Shipment {
	id := update.Identity()
	for i, s := range shipments {
		if s.Identity() == id {
			merged := make([]Shipment, len(shipments))
			copy(merged, shipments)
			merged[i] = s.Overlay(update)
			return merged
		}
	}

	merged := make([]Shipment, 0, len(shipments)+1)
	merged = append(merged, update)
	merged = append(merged, shipments...)
	if len(merged) > ShipmentCap {
		merged = merged[:ShipmentCap]
	}
	return merged
}
