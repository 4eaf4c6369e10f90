package interfaces

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"energy-billing/internal/billing/application"
	billing "energy-billing/internal/billing/domain"
	"energy-billing/internal/eventbus"
)

func TestEventLogger_LogsReset(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bus := eventbus.New()
	NewEventLogger(zap.New(core)).Register(bus)

	ref := billing.MeterRef{ClientID: "c1", MeterID: "m1"}
	require.NoError(t, bus.Publish(context.Background(), application.PeriodInitialized{Meter: ref, Period: billing.Period{Year: 2025, Month: 2}, Cause: application.CauseRecord}))
	require.NoError(t, bus.Publish(context.Background(), &application.PeriodReset{Meter: ref, Previous: billing.Period{Year: 2025, Month: 1}, Period: billing.Period{Year: 2025, Month: 2}}))

	require.Equal(t, 2, logs.Len())
	reset := logs.FilterMessage("consumption period reset").All()
	require.Len(t, reset, 1)
	assert.Equal(t, zapcore.WarnLevel, reset[0].Level)
	assert.Equal(t, "01/2025", reset[0].ContextMap()["previous"])
}
