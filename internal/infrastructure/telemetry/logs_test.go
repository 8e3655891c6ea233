package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type captureExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *captureExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *captureExporter) Shutdown(context.Context) error   { return nil }
func (e *captureExporter) ForceFlush(context.Context) error { return nil }

func (e *captureExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, lp.Enabled())
	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, "flockbooks", zapcore.InfoLevel))
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestLoggerProvider_BridgeTeesAboveThreshold(t *testing.T) {
	ctx := context.Background()
	exp := &captureExporter{}
	lp := newLoggerProvider(&LoggerProvider{logger: zap.NewNop()}, sdklog.NewSimpleProcessor(exp), nil)
	t.Cleanup(func() { _ = lp.Shutdown(ctx) })

	core, logs := observer.New(zapcore.DebugLevel)
	bridged := lp.Bridge(zap.New(core), "flockbooks", zapcore.WarnLevel)

	bridged.Debug("replaying ledger")
	bridged.With(zap.String("account_id", "a1")).Warn("outstanding corrected")
	bridged.Error("reconcile failed")
	require.NoError(t, lp.ForceFlush(ctx))

	assert.Equal(t, 3, logs.Len(), "base core still sees every entry")
	assert.Equal(t, []string{"outstanding corrected", "reconcile failed"}, exp.bodies())

	exp.mu.Lock()
	defer exp.mu.Unlock()
	assert.Equal(t, log.SeverityWarn, exp.records[0].Severity())
	var found bool
	exp.records[0].WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "account_id" {
			found = kv.Value.AsString() == "a1"
			return false
		}
		return true
	})
	assert.True(t, found)
}
