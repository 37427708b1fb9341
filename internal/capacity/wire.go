package capacity

import (
	"encoding/json"
	"strconv"
)

// Topics carried by the capacity feed.
const (
	TopicAll = "/topic/appointments"
)

// TopicFor is the per-appointment topic.
func TopicFor(appointmentID int64) string {
	return TopicAll + "/" + strconv.FormatInt(appointmentID, 10)
}

type FrameType string

const (
	FrameSubscribe   FrameType = "subscribe"
	FrameUnsubscribe FrameType = "unsubscribe"
	FrameEvent       FrameType = "event"
)

// Frame is the JSON envelope exchanged on the websocket.
type Frame struct {
	Type    FrameType       `json:"type"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventFrame wraps ev for delivery on topic.
func EventFrame(topic string, ev Event) (Frame, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: FrameEvent, Topic: topic, Payload: payload}, nil
}
