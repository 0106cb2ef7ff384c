// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for logger construction

package tests

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/peptide-runner/internal/logging"
)

func TestNewWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, false)

	log.WithField("peptide", "AACDEFGHI").Info("Prepared")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Prepared", entry["msg"])
	assert.Equal(t, "AACDEFGHI", entry["peptide"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, logrus.InfoLevel, logging.New(&buf, false).GetLevel())
	assert.Equal(t, logrus.DebugLevel, logging.New(&buf, true).GetLevel())

	logging.New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestDiscard(t *testing.T) {
	log := logging.Discard()
	assert.NotPanics(t, func() { log.Error("dropped") })
}
