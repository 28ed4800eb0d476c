package domain

import "time"

// NotificationCap bounds the notification log. Oldest entries are evicted
// silently once the cap is reached.
const NotificationCap = 50

// Notification is a single entry in the session's notification log.
type Notification struct {
	// ID uniquely identifies the notification, assigned at creation time.
	ID string `json:"id"`
	// Title is the short heading (e.g. "Shipment update").
	Title string `json:"title"`
	// Message is the notification body.
	Message string `json:"message"`
	// Time is when the notification was recorded.
	Time time.Time `json:"time"`
}

// PushNotification prepends note to the log, keeping it newest-first and
// capped at NotificationCap entries. The input slice is not mutated.
func PushNotification(log []Notification, note Notification) []Notification {
	merged := make([]Notification, 0, len(log)+1)
	merged = append(merged, note)
	merged = append(merged, log...)
	if len(merged) > NotificationCap {
		merged = merged[:NotificationCap]
	}
	return merged
}
