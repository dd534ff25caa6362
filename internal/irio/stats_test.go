package irio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/llopt/internal/ssaopt"
)

func TestWriteStats_ShapeAndCounts(t *testing.T) {
	stats := &ssaopt.Stats{}
	stats.Inc(&stats.Functions)
	stats.Inc(&stats.CSEElim)
	stats.Inc(&stats.CSEElim)

	path := filepath.Join(t.TempDir(), "out.ll.stats")
	require.NoError(t, WriteStats(path, stats))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 10) // one row per counter, no header

	byName := make(map[string]string)
	for _, row := range rows {
		require.Len(t, row, 2)
		byName[row[0]] = row[1]
	}
	assert.Equal(t, "1", byName["Functions"])
	assert.Equal(t, "2", byName["CSEElim"])
	assert.Equal(t, "0", byName["CSEDead"])
}
