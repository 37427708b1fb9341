package capacity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFrame(t *testing.T) {
	ev := Event{AppointmentID: 42, CurrentParticipants: 10, MaxCapacity: 10, EventType: BookingCreated, Timestamp: 1700000000000}

	f, err := EventFrame(TopicAll, ev)
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"event","topic":"/topic/appointments","payload":{"appointmentId":42,"currentParticipants":10,"maxCapacity":10,"eventType":"BOOKING_CREATED","timestamp":1700000000000}}`, string(data))
}

func TestTopicFor(t *testing.T) {
	assert.Equal(t, "/topic/appointments/42", TopicFor(42))
}
