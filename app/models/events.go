package models

import "encoding/json"

// Websocket event names.
const (
	EventMessageNew     = "message:new"
	EventMessageDeleted = "message:deleted"
	EventMessageError   = "message:error"
	EventSyncRequest    = "sync:request"
	EventSyncResponse   = "sync:response"
	EventSyncError      = "sync:error"
)

// Event is the websocket frame envelope. Data is kept raw on the way in and
// decoded once the event name is known.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent encodes data into an envelope.
func NewEvent(name string, data interface{}) (Event, error) {
	if data == nil {
		return Event{Event: name}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: raw}, nil
}

type DeletedPayload struct {
	ID string `json:"id"`
}

type SyncPayload struct {
	Messages []JsonMessage `json:"messages"`
}
