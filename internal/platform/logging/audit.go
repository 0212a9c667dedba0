package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// LogAuditEvent logs a structured audit event for a session state change.
//
// Args:
//   - action: the operation performed (e.g., "login", "register", "verify")
//   - userID: the account the operation acted on, empty when none
//   - resourceType: the kind of state touched (e.g., "session", "theme")
//   - result: ResultSuccess or ResultFailure
//   - details: optional additional details
func LogAuditEvent(
	ctx context.Context,
	action, userID, resourceType, result string,
	details map[string]any,
) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", action),
		zap.String("audit.user_id", userID),
		zap.String("audit.resource_type", resourceType),
		zap.String("audit.result", result),
		zap.Any("audit.details", details),
	)
}
