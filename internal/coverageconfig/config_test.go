package coverageconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanridge/coverage-engine/internal/coverageconfig"
)

func TestEmptyConfigUsesDocumentedDefaults(t *testing.T) {
	c := coverageconfig.Empty()
	assert.Equal(t, time.Duration(0), c.GetMaxTimeGap())
	assert.True(t, c.GetInterpolationAllowed())
	assert.Equal(t, "coverage-events.db", c.GetEventLogPath())
	assert.Equal(t, "", c.GetDebugListenAddr())
}

func TestLoad_PartialConfigKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"interpolation_allowed": false}`), 0o600))

	c, err := coverageconfig.Load(path)
	require.NoError(t, err)
	assert.False(t, c.GetInterpolationAllowed())
	assert.Equal(t, time.Duration(0), c.GetMaxTimeGap())
}

func TestLoad_RejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := coverageconfig.Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsNegativeMaxTimeGap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_time_gap_nanos": -5}`), 0o600))

	_, err := coverageconfig.Load(path)
	assert.Error(t, err)
}
