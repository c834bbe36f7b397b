// Package flash implements the one-shot flash message: written by any flow
// that needs to show a message after a redirect, consumed exactly once by
// the next view that checks for it.
package flash

import (
	"encoding/json"

	"github.com/akhaled-dev/restodesk/internal/kvstore"
)

// Type classifies a flash message for display.
type Type string

const (
	Info    Type = "info"
	Success Type = "success"
	Warning Type = "warning"
	Error   Type = "error"
)

// storageKey is the session-scope key holding the pending payload.
const storageKey = "app_flash_message"

// Payload is the persisted flash shape.
type Payload struct {
	Message string `json:"message"`
	Type    Type   `json:"type"`
}

// Service stores and consumes one-shot messages in a session-scope store.
type Service struct {
	store kvstore.Store
}

// New returns a flash service backed by the given session-scope store.
func New(store kvstore.Store) *Service {
	return &Service{store: store}
}

// Set stores a pending message, replacing any previous one.
func (s *Service) Set(message string, t Type) {
	data, err := json.Marshal(Payload{Message: message, Type: t})
	if err != nil {
		return
	}
	s.store.Set(storageKey, string(data))
}

// Consume reads and clears the pending message so it shows only once.
// Returns nil when nothing is pending or the payload cannot be decoded.
func (s *Service) Consume() *Payload {
	raw, ok := s.store.Get(storageKey)
	if !ok {
		return nil
	}
	s.store.Remove(storageKey)
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

// Clear drops any pending message without returning it.
func (s *Service) Clear() {
	s.store.Remove(storageKey)
}
