// Package notification holds delivery-side implementations of the
// engine's Notifier interface. The engine itself stays transport-blind.
package notification

import (
	"context"

	"hearthbutler/entity"
	"hearthbutler/logger"

	"go.uber.org/zap"
)

// LogNotifier records payloads to the application log. It stands in for a
// real channel (email, push) until one is wired by the application layer.
type LogNotifier struct{}

// NewLogNotifier creates and returns a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the payload.
func (n *LogNotifier) Send(_ context.Context, payload entity.NotificationPayload) error {
	logger.Info("notification",
		zap.Uint("owner_id", payload.OwnerID),
		zap.String("kind", payload.Kind),
		zap.String("title", payload.Title),
		zap.String("message", payload.Message))
	return nil
}
