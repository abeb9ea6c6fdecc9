package smslog

import (
	"database/sql/driver"
	"time"
)

// DeliveryStatus is the delivery outcome of an SMS send attempt.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// SMSLog records one SMS delivery attempt.
type SMSLog struct {
	ID      int64          `json:"id"`
	OrderID int64          `json:"orderId"`
	Phone   string         `json:"phone"`
	Message string         `json:"message"`
	Status  DeliveryStatus `json:"status"`
	SentAt  time.Time      `json:"sentAt"`
}
