package events

import (
	"context"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// PaymentEventPublisher announces committed payments to downstream consumers.
type PaymentEventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) error
}
