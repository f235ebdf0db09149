package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// ExpenseCreatedMessage announces a newly stored expense record.
type ExpenseCreatedMessage struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseCreatedMessage builds a message from a stored record.
func NewExpenseCreatedMessage(e core.Expense) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		Date:        e.Date,
		Timestamp:   time.Now(),
	}
}

// Expense converts the message back to a domain record.
func (m *ExpenseCreatedMessage) Expense() core.Expense {
	return core.Expense{
		ID:       m.ID,
		Amount:   core.Money{Cents: m.AmountCents},
		Category: m.Category,
		Date:     m.Date,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseCreatedMessageFromJSON creates a message from JSON bytes
func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
