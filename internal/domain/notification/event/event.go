package event

import "encoding/json"

// Topic is the broadcast topic every raffle lifecycle event is published to.
const Topic = "raffle-events"

type Event interface {
	Op() string
}

type EventRequest struct {
	Op   string `json:"o"`
	Data any    `json:"d"`
}

func New(ev Event) *EventRequest {
	return &EventRequest{
		Op:   ev.Op(),
		Data: ev,
	}
}

func (req *EventRequest) Marshal() ([]byte, error) {
	return json.Marshal(req)
}
