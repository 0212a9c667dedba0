package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogAuditEvent(t *testing.T) {
	payload := captureLogOutput(t, func(*zap.Logger) {
		LogAuditEvent(context.Background(), "register", "user-123", "session", ResultSuccess, nil)
	})

	if payload["message"] != "Audit event" {
		t.Errorf("expected message 'Audit event', got %v", payload["message"])
	}
	if payload["audit.action"] != "register" {
		t.Errorf("expected audit.action 'register', got %v", payload["audit.action"])
	}
	if payload["audit.user_id"] != "user-123" {
		t.Errorf("expected audit.user_id 'user-123', got %v", payload["audit.user_id"])
	}
	if payload["audit.resource_type"] != "session" {
		t.Errorf("expected audit.resource_type 'session', got %v", payload["audit.resource_type"])
	}
	if payload["audit.result"] != "success" {
		t.Errorf("expected audit.result 'success', got %v", payload["audit.result"])
	}
}

func TestLogAuditEventWithDetails(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogAuditEvent(ctx, "update", "user-456", "session", ResultFailure, map[string]any{"error": "store_error"})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["audit.result"] != "failure" {
		t.Errorf("expected audit.result 'failure', got %v", fields["audit.result"])
	}
	details, ok := fields["audit.details"].(map[string]any)
	if !ok {
		t.Fatalf("expected audit.details to be a map, got %T", fields["audit.details"])
	}
	if details["error"] != "store_error" {
		t.Errorf("expected error 'store_error', got %v", details["error"])
	}
}
