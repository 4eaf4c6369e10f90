package interfaces

import (
	"context"

	"go.uber.org/zap"

	"energy-billing/internal/billing/application"
	"energy-billing/internal/eventbus"
)

// EventLogger logs consumption lifecycle events.
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger constructs a logger. A nil logger discards output.
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogger{logger: logger}
}

// Register subscribes the logger to bus.
func (l *EventLogger) Register(bus *eventbus.Bus) {
	eventbus.On(bus, l.PeriodInitialized)
	eventbus.On(bus, l.PeriodReset)
}

// PeriodInitialized logs a grid (re)initialization.
func (l *EventLogger) PeriodInitialized(ctx context.Context, event application.PeriodInitialized) error {
	_ = ctx
	l.logger.Debug("period initialized",
		zap.String("client_id", event.Meter.ClientID),
		zap.String("meter_id", event.Meter.MeterID),
		zap.Stringer("period", event.Period),
		zap.String("cause", event.Cause),
	)
	return nil
}

// PeriodReset logs discarded consumption.
func (l *EventLogger) PeriodReset(ctx context.Context, event application.PeriodReset) error {
	_ = ctx
	l.logger.Warn("consumption period reset",
		zap.String("client_id", event.Meter.ClientID),
		zap.String("meter_id", event.Meter.MeterID),
		zap.Stringer("previous", event.Previous),
		zap.Stringer("period", event.Period),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
