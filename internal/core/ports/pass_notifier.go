package ports

import (
	"context"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
)

// PassIssuedEvent tells the delivery channel (SMS, e-mail) which code to send.
type PassIssuedEvent struct {
	ParcelID         kernel.UUID
	TrackingNumber   string
	RecipientContact string
	LockerNumber     string
	Code             string
	ExpiresAt        time.Time
}

// PassNotifier hands issued codes to the delivery channel. It is called after
// the issuing transaction committed; a failure does not invalidate the pass.
type PassNotifier interface {
	NotifyPassIssued(ctx context.Context, event PassIssuedEvent) error
}
