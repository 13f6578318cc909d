package quality

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	r := &Report{
		RawLines:                  10,
		IngestGood:                7,
		IngestBad:                 2,
		TransformInvalidEventType: 1,
		LoadedRows:                6,
	}
	r.Finalize()

	assert.Equal(t, 3, r.RejectedTotal)
	assert.InDelta(t, 0.3, r.RejectRate, 1e-9)
}

func TestFinalizeZeroRawLines(t *testing.T) {
	r := &Report{IngestBad: 2}
	r.Finalize()

	assert.Equal(t, 2, r.RejectedTotal)
	assert.Zero(t, r.RejectRate)
}

func TestNewReportStampsRun(t *testing.T) {
	r := NewReport()

	assert.NotEmpty(t, r.RunID)
	assert.NotEmpty(t, r.RunUTC)
	other := NewReport()
	assert.NotEqual(t, r.RunID, other.RunID)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "dq_report.json")

	r := NewReport()
	r.RawLines = 5
	r.IngestGood = 5
	r.Finalize()
	require.NoError(t, r.Write(path))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, r.RunID, got.RunID)
	assert.Equal(t, 5, got.RawLines)
	assert.Zero(t, got.RejectRate)
}
