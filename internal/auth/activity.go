package auth

import (
	"context"
	"time"
)

// ActivityEventType identifies an auth lifecycle event.
type ActivityEventType string

const (
	ActivityEventRegister          ActivityEventType = "auth.register"
	ActivityEventActivationSuccess ActivityEventType = "auth.activation_success"
	ActivityEventActivationFailure ActivityEventType = "auth.activation_failure"
	ActivityEventLoginSuccess      ActivityEventType = "auth.login_success"
	ActivityEventLoginFailure      ActivityEventType = "auth.login_failure"
	ActivityEventResetRequested    ActivityEventType = "auth.password_reset_requested"
	ActivityEventResetSuccess      ActivityEventType = "auth.password_reset_success"
	ActivityEventResetFailure      ActivityEventType = "auth.password_reset_failure"
)

// ActivityEvent describes a single auth event for sinks (metrics, audit).
type ActivityEvent struct {
	EventType  ActivityEventType
	Email      string
	OccurredAt time.Time
}

// ActivitySink receives auth events. Sinks must be non blocking; the flow
// does not wait on them beyond the Record call itself.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error { return nil }

func normalizeActivitySink(sink ActivitySink) ActivitySink {
	if sink == nil {
		return noopActivitySink{}
	}
	return sink
}
