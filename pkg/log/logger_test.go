package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologProvider_FieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelInfo)

	logger := p.GetLoggerWithName("walkthrough.adaboost").With(ModelNameKey, "DecisionTreeClassifier")
	logger.Debug("hidden")
	logger.Info("round fitted", RoundKey, 1, MisclassifiedKey, 21, AccuracyKey, 0.94)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "info", e["level"])
	assert.Equal(t, "round fitted", e["message"])
	assert.Equal(t, "walkthrough.adaboost", e[ComponentKey])
	assert.Equal(t, "DecisionTreeClassifier", e[ModelNameKey])
	assert.Equal(t, 1.0, e[RoundKey])
	assert.Equal(t, 0.94, e[AccuracyKey])

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.True(t, logger.Enabled(ctx, LevelWarn))

	p.SetLevel(LevelDebug)
	assert.True(t, p.GetLogger().Enabled(ctx, LevelDebug))
}

func TestZerologProvider_ErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologProvider(&buf, LevelDebug).GetLogger()

	err := errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	logger.Error("predict failed", err, OperationKey, OperationPredict)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "error", e["level"])
	assert.Contains(t, e[ErrAttrKey], "not fitted")
	assert.Equal(t, OperationPredict, e[OperationKey])

	detail, ok := e[ErrDetailAttrKey].(map[string]interface{})
	require.True(t, ok, "typed errors carry their zerolog object")
	assert.Equal(t, "NotFittedError", detail["type"])
}

func TestSetupLogger(t *testing.T) {
	defer SetProvider(NewZerologProvider(os.Stderr, LevelInfo))
	defer errors.SetZerologWarnFunc(nil)

	assert.Error(t, SetupLogger("verbose", &bytes.Buffer{}, false))

	var buf bytes.Buffer
	require.NoError(t, SetupLogger("warn", &buf, false))

	GetLogger().Info("dropped")
	errors.Warn(errors.NewEarlyStopWarning("SAMME", 1, "perfect fit"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "warnings", entries[0][ComponentKey])
	assert.Contains(t, entries[0]["message"], "stopped early at round 1")
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestLogger(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelInfo)
	logger := provider.GetLoggerWithName("dataset")

	logger.Debug("skipped")
	logger.Info("loaded", SamplesKey, 342, DataPathKey, "penguins.csv")
	logger.Error("failed", errors.New("boom"), OperationKey, OperationLoad)

	tl := provider.GetLogger().(*TestLogger)
	assert.False(t, tl.ContainsMessage("skipped"))
	assert.True(t, tl.ContainsField(SamplesKey, 342.0))
	assert.True(t, tl.ContainsField(ComponentKey, "dataset"))
	assert.True(t, tl.ContainsField(ErrAttrKey, "boom"))

	entries, err := tl.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	tl.Clear()
	assert.False(t, tl.ContainsMessage("loaded"))
}
