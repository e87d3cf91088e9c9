package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Transaction change operations.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// TransactionChangedMessage announces that a user's month changed. It carries
// no amounts; the worker recomputes the month from the ledger.
type TransactionChangedMessage struct {
	UserID    int64     `json:"user_id"`
	Month     string    `json:"month"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(userID int64, month, operation string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		UserID:    userID,
		Month:     month,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedMessageFromJSON decodes a message, rejecting ones without a user or month.
func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == 0 || msg.Month == "" {
		return nil, errors.New("message missing user_id or month")
	}
	return &msg, nil
}
