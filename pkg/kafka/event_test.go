package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registeredPayload struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func TestNewEvent_Fields(t *testing.T) {
	data := registeredPayload{UserID: 7, Username: "alice"}

	event, err := NewEvent("user.registered", "7", "user", "store-auth", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "user.registered", event.EventType)
	assert.Equal(t, "7", event.AggregateID)
	assert.Equal(t, "user", event.AggregateType)
	assert.Equal(t, "store-auth", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got registeredPayload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_UnserializablePayload(t *testing.T) {
	_, err := NewEvent("user.registered", "1", "user", "store-auth", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user.registered")
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a, err := NewEvent("x", "1", "user", "svc", nil)
	require.NoError(t, err)
	b, err := NewEvent("x", "1", "user", "svc", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestEvent_Chaining(t *testing.T) {
	event := &Event{EventID: "id"}

	got := event.WithCorrelationID("corr-1").WithMetadata("k1", "v1").WithMetadata("k2", "v2")

	assert.Same(t, event, got)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, event.Metadata)
}

func TestUnmarshalEvent(t *testing.T) {
	original, err := NewEvent("user.registered", "3", "user", "store-auth", registeredPayload{UserID: 3})
	require.NoError(t, err)
	original.WithCorrelationID("corr-abc")

	b, err := json.Marshal(original)
	require.NoError(t, err)

	restored, err := UnmarshalEvent(b)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.JSONEq(t, string(original.Data), string(restored.Data))

	_, err = UnmarshalEvent([]byte(`{broken`))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "ecommerce.user.registered", Topic("user", "registered"))
	assert.Equal(t, "ecommerce.user.logged-out", Topic("user", "logged-out"))
}
