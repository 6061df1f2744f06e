package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSavedMessage announces that a user's tracker document reached the
// remote store. It carries only the user id and revision; the worker reads
// the full document from the store itself.
type LedgerSavedMessage struct {
	UserID   string    `json:"user_id"`
	Revision int64     `json:"revision"`
	SavedAt  time.Time `json:"saved_at"`
}

func NewLedgerSavedMessage(userID string, revision int64) *LedgerSavedMessage {
	return &LedgerSavedMessage{
		UserID:   userID,
		Revision: revision,
		SavedAt:  time.Now().UTC(),
	}
}

func (m *LedgerSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSavedMessageFromJSON(data []byte) (*LedgerSavedMessage, error) {
	var msg LedgerSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
