package notifier

import (
	"context"

	"parcellocker/internal/core/ports"

	"go.uber.org/zap"
)

// LogPassNotifier logs pass codes instead of sending them. Use it only where
// the log is as private as the recipient's phone, e.g. local development.
type LogPassNotifier struct {
	logger *zap.Logger
}

func NewLogPassNotifier(logger *zap.Logger) *LogPassNotifier {
	return &LogPassNotifier{logger: logger}
}

func (n *LogPassNotifier) NotifyPassIssued(_ context.Context, event ports.PassIssuedEvent) error {
	n.logger.Info("pass issued",
		zap.String("parcel_id", event.ParcelID.String()),
		zap.String("tracking_number", event.TrackingNumber),
		zap.String("recipient", event.RecipientContact),
		zap.String("locker", event.LockerNumber),
		zap.String("code", event.Code),
		zap.Time("expires_at", event.ExpiresAt),
	)
	return nil
}

func (n *LogPassNotifier) Close() error {
	return nil
}
