package verification

import (
	"context"

	"go.uber.org/zap"

	applog "github.com/janisto/loveconnect/internal/platform/logging"
)

// LogNotifier writes issued codes to the log instead of sending them.
// The code itself is only visible at debug level.
type LogNotifier struct{}

func (LogNotifier) Deliver(ctx context.Context, r Recipient, code string) error {
	logger := applog.LoggerFromContext(ctx)
	logger.Info("verification code issued",
		zap.String("user_id", r.UserID),
		zap.String("channel", r.Channel()),
	)
	logger.Debug("verification code", zap.String("user_id", r.UserID), zap.String("code", code))
	return nil
}

// Compile-time interface check
var _ Notifier = LogNotifier{}
