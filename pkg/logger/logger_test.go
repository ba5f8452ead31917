package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{zap.New(core)}, logs
}

func TestContextLoggerCarriesFields(t *testing.T) {
	base, logs := observed()
	ctx := NewContext(context.Background(), base.With(StringField("run_id", "01ABC")))

	base.InfoContext(ctx, "sweep completed", IntField("grid_size", 18), FloatField("best", 125))
	base.WarnContext(context.Background(), "no context logger")

	entries := logs.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"run_id": "01ABC", "grid_size": int64(18), "best": 125.0}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestFromContext(t *testing.T) {
	base, _ := observed()
	child := base.With(BoolField("child", true))

	assert.Same(t, base, base.FromContext(nil))
	assert.Same(t, base, base.FromContext(context.Background()))
	assert.Same(t, child, base.FromContext(NewContext(context.Background(), child)))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		wantErr  bool
	}{
		{name: "console", level: "debug", encoding: "console"},
		{name: "json", level: "warn", encoding: "json"},
		{name: "bad level", level: "loud", encoding: "json", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log.Logger)
		})
	}
}
