package amqp

import (
	"encoding/json"
	"time"
)

// UnpaidAlertMessage notifies downstream consumers that a fixed monthly
// subcategory went unpaid in a closed month. Carries the full alert so
// consumers need no database access.
type UnpaidAlertMessage struct {
	AlertID         string    `json:"alertId"`
	SubCategoryID   string    `json:"subCategoryId"`
	SubCategoryName string    `json:"subCategoryName"`
	CategoryName    string    `json:"categoryName"`
	Amount          float64   `json:"amount"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Timestamp       time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *UnpaidAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// UnpaidAlertMessageFromJSON creates a message from JSON bytes
func UnpaidAlertMessageFromJSON(data []byte) (*UnpaidAlertMessage, error) {
	var msg UnpaidAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
