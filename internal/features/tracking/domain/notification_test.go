package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPushNotification_NewestFirst verifies insertion order.
func TestPushNotification_NewestFirst(t *testing.T) {
	var log []Notification
	log = PushNotification(log, Notification{ID: "1", Message: "first"})
	log = PushNotification(log, Notification{ID: "2", Message: "second"})

	require.Len(t, log, 2)
	assert.Equal(t, "second", log[0].Message)
	assert.Equal(t, "first", log[1].Message)
}

// TestPushNotification_Cap verifies that inserting past the cap silently
// evicts the oldest entries.
func TestPushNotification_Cap(t *testing.T) {
	var log []Notification
	for i := 0; i < 60; i++ {
		log = PushNotification(log, Notification{ID: fmt.Sprintf("%d", i)})
	}

	require.Len(t, log, NotificationCap)
	assert.Equal(t, "59", log[0].ID)
	assert.Equal(t, "10", log[NotificationCap-1].ID)
}
