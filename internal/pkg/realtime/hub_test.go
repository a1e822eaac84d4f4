package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(engagementID, userID int64, buffer int) *Client {
	return &Client{
		send:         make(chan []byte, buffer),
		userID:       userID,
		engagementID: engagementID,
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// No Run loop is draining the broadcast channel; well past its capacity
	// every extra notification must be dropped, not block the caller
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Notify(&Notification{Action: ActionUpdated, EngagementID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a saturated hub")
	}
}

func TestNotifySetsTimestamp(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	n := &Notification{Action: ActionCreated, EngagementID: 1}
	hub.Notify(n)
	assert.False(t, n.Timestamp.IsZero())
}

func TestBroadcastReachesEngagementSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	subscriber := testClient(1, 10, 4)
	other := testClient(2, 11, 4)
	hub.clients[1] = map[*Client]bool{subscriber: true}
	hub.clients[2] = map[*Client]bool{other: true}

	hub.broadcastNotification(&Notification{
		Action:       ActionAssigned,
		EngagementID: 1,
		EventIDs:     []int64{5, 6},
		ActorID:      99,
		Timestamp:    time.Now(),
	})

	select {
	case raw := <-subscriber.send:
		var got Notification
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, ActionAssigned, got.Action)
		assert.Equal(t, int64(1), got.EngagementID)
		assert.Equal(t, []int64{5, 6}, got.EventIDs)
		assert.Equal(t, int64(99), got.ActorID)
	default:
		t.Fatal("subscriber did not receive the notification")
	}

	assert.Empty(t, other.send, "other engagement's subscriber must not be notified")
}

func TestBroadcastDropsForSlowClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	slow := testClient(1, 10, 1)
	slow.send <- []byte("backlog")
	hub.clients[1] = map[*Client]bool{slow: true}

	done := make(chan struct{})
	go func() {
		hub.broadcastNotification(&Notification{Action: ActionDeleted, EngagementID: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
	assert.Len(t, slow.send, 1)
}

func TestSubscriberCount(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	assert.Zero(t, hub.SubscriberCount(1))

	a := testClient(1, 10, 1)
	b := testClient(1, 11, 1)
	hub.clients[1] = map[*Client]bool{a: true, b: true}
	assert.Equal(t, 2, hub.SubscriberCount(1))

	hub.unregisterClient(a)
	assert.Equal(t, 1, hub.SubscriberCount(1))

	hub.unregisterClient(b)
	assert.Zero(t, hub.SubscriberCount(1))
	assert.NotContains(t, hub.clients, int64(1))
}
