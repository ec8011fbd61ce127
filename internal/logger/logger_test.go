package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	testCases := []struct {
		name     string
		debug    string
		level    string
		expected logrus.Level
	}{
		{name: "default", expected: logrus.InfoLevel},
		{name: "debug flag", debug: "true", level: "error", expected: logrus.DebugLevel},
		{name: "explicit level", level: "warn", expected: logrus.WarnLevel},
		{name: "garbage level", level: "loud", expected: logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DEBUG", tc.debug)
			t.Setenv("LOG_LEVEL", tc.level)
			require.Equal(t, tc.expected, levelFromEnv())
		})
	}
}

func TestComponentWritesJSON(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "")
	Init()

	var buf bytes.Buffer
	SetOutput(&buf)

	Component("gateway").Info("started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "started", line["message"])
	require.Equal(t, "gateway", line["component"])
	require.Equal(t, "info", line["level"])
	require.Contains(t, line, "timestamp")
}
