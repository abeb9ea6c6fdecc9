package ismslogrepo

import (
	"context"

	"github.com/dineeasy/order-svc/internal/service/models/smslog"
)

// ISMSLogRepository is an interface for SMS log postgres repository.
type ISMSLogRepository interface {
	Insert(ctx context.Context, log smslog.SMSLog) (smslog.SMSLog, error)
	UpdateStatus(ctx context.Context, id int64, status smslog.DeliveryStatus) error
}
