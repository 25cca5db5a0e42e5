package eventlog

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *EventLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	el, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { el.Close() })
	return el
}

func TestOpen_MigratesSchema(t *testing.T) {
	el := openTestLog(t)

	migrations, err := fs.Sub(migrationsFS, "migrations")
	require.NoError(t, err)

	version, dirty, err := el.MigrateVersion(migrations)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestRecordLoad_AndRecent(t *testing.T) {
	el := openTestLog(t)

	require.NoError(t, el.RecordLoadErr("seek.hit.exact", []string{"frame-1"}, nil))
	require.NoError(t, el.RecordLoadErr("seek.miss.gap", []string{"frame-2", "frame-3"}, assertError("gap too large")))

	events, err := el.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "seek.miss.gap", events[0].EventCode)
	assert.Equal(t, []string{"frame-2", "frame-3"}, events[0].DescriptorIDs)
	assert.Equal(t, "gap too large", events[0].Cause)

	assert.Equal(t, "seek.hit.exact", events[1].EventCode)
	assert.Empty(t, events[1].Cause)
}

func TestRecordLoad_NeverReturnsError(t *testing.T) {
	el := openTestLog(t)
	el.RecordLoad("seek.hit.bracket", []string{"frame-1", "frame-2"}, nil)

	events, err := el.Recent(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "seek.hit.bracket", events[0].EventCode)
}

func TestLatencySummaryOverRecent_TooFewEvents(t *testing.T) {
	el := openTestLog(t)

	summary, err := el.LatencySummaryOverRecent(100)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)

	el.RecordLoad("seek.hit.exact", []string{"frame-1"}, nil)
	summary, err = el.LatencySummaryOverRecent(100)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
}

func TestLatencySummaryOverRecent_ComputesQuantiles(t *testing.T) {
	el := openTestLog(t)

	for i := 0; i < 5; i++ {
		el.RecordLoad("seek.hit.exact", []string{"frame-1"}, nil)
	}

	summary, err := el.LatencySummaryOverRecent(100)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.GreaterOrEqual(t, summary.P98Nanos, summary.P85Nanos)
	assert.GreaterOrEqual(t, summary.P85Nanos, summary.P50Nanos)
}

type assertError string

func (e assertError) Error() string { return string(e) }
