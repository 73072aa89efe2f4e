package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "farmacia-pos", Out: &buf})

	c := l.Component("sales")
	c.Info().Str("sale_id", "abc").Msg("venta registrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "farmacia-pos", entry["service"])
	assert.Equal(t, "sales", entry["component"])
	assert.Equal(t, "abc", entry["sale_id"])
	assert.Equal(t, "venta registrada", entry["message"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Out: &buf})
	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("aparece")
	assert.NotZero(t, buf.Len())
}
