package log

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withWriter(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := defaultLogger
	t.Cleanup(func() { defaultLogger = prev })

	var buf bytes.Buffer
	InitWriter(&buf)
	return &buf
}

func TestLog_FormatsFields(t *testing.T) {
	buf := withWriter(t)

	Info(CatRegistry, "base dimension inserted", "name", "length", "symbol", "L")

	out := buf.String()
	require.Contains(t, out, "[INFO] [registry] base dimension inserted")
	require.Contains(t, out, "name=length")
	require.Contains(t, out, "symbol=L")
}

func TestLog_OddFieldCount(t *testing.T) {
	buf := withWriter(t)

	Debug(CatCatalog, "entry", "orphan")

	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestLog_ErrorErrAppendsError(t *testing.T) {
	buf := withWriter(t)

	ErrorErr(CatStore, "save failed", context.Canceled)
	ErrorErr(CatStore, "save failed", nil)

	out := buf.String()
	require.Contains(t, out, "error=context canceled")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelFilters(t *testing.T) {
	buf := withWriter(t)
	SetMinLevel(LevelWarn)

	Debug(CatCLI, "hidden")
	Warn(CatCLI, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	buf := withWriter(t)
	SetEnabled(false)

	Error(CatCLI, "nope")

	require.Empty(t, buf.String())
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	prev := defaultLogger
	defaultLogger = nil
	t.Cleanup(func() { defaultLogger = prev })

	require.NotPanics(t, func() { Info(CatCLI, "nothing") })
	require.Nil(t, Subscribe(context.Background()))
}

func TestLog_SubscribeReceivesEntries(t *testing.T) {
	_ = withWriter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := Subscribe(ctx)
	require.NotNil(t, ch)

	Info(CatWatcher, "catalog changed")

	select {
	case ev := <-ch:
		require.Contains(t, ev.Payload, "catalog changed")
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for log event")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
