package store

import (
	"encoding/json"

	"github.com/zjrosen/clientbook/internal/client"
)

// Encode serializes the collection as a JSON array, preserving order.
func Encode(clients []client.Client) ([]byte, error) {
	if clients == nil {
		clients = []client.Client{}
	}
	return json.Marshal(clients)
}

// Decode parses a persisted collection. Malformed content yields ok=false so
// callers can treat it as an empty collection.
func Decode(data []byte) (clients []client.Client, ok bool) {
	if len(data) == 0 {
		return []client.Client{}, true
	}
	if err := json.Unmarshal(data, &clients); err != nil {
		return []client.Client{}, false
	}
	if clients == nil {
		// JSON null
		clients = []client.Client{}
	}
	return clients, true
}
