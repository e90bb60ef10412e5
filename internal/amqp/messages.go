package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReceiptCreatedMessage announces a stored receipt. It carries only the id;
// the consumer loads the receipt from the database.
type ReceiptCreatedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReceiptCreatedMessage(id int64) *ReceiptCreatedMessage {
	return &ReceiptCreatedMessage{ID: id, Timestamp: time.Now()}
}

func (m *ReceiptCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReceiptCreatedMessageFromJSON decodes a message and rejects ids below 1.
func ReceiptCreatedMessageFromJSON(data []byte) (*ReceiptCreatedMessage, error) {
	var msg ReceiptCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID < 1 {
		return nil, fmt.Errorf("invalid receipt id %d", msg.ID)
	}
	return &msg, nil
}
