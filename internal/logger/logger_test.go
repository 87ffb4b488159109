package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugOnlyInDev(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "prod").Debug("hidden")
	assert.Zero(t, buf.Len())

	NewWithWriter(&buf, "dev").Debug("shown", "tier", "Suite")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "Suite", rec["tier"])
}
