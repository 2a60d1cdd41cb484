package events

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// TransactionAddedMessage is the event emitted after a transaction is
// durably appended to the ledger. Consumers fetch nothing further; the
// payload carries the full entry.
type TransactionAddedMessage struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Amount    float64     `json:"amount"`
	Type      core.TxType `json:"type"`
	Category  string      `json:"category"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewTransactionAddedMessage(tx core.Transaction) *TransactionAddedMessage {
	return &TransactionAddedMessage{
		ID:        tx.ID,
		UserID:    tx.UserID,
		Amount:    tx.Amount,
		Type:      tx.Type,
		Category:  tx.Category,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionAddedMessageFromJSON creates a message from JSON bytes
func TransactionAddedMessageFromJSON(data []byte) (*TransactionAddedMessage, error) {
	var msg TransactionAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
