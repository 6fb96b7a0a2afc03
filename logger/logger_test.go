package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"cotizaciones/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	l.Debug("oculto")
	l.Info("gasto creado", "id", 7)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gasto creado", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "debug"}, &buf)

	l.Debug("consulta", "tabla", "gastos")
	assert.Contains(t, buf.String(), "msg=consulta")
	assert.Contains(t, buf.String(), "tabla=gastos")
}
