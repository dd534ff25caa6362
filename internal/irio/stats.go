package irio

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/dshills/llopt/internal/ssaopt"
)

// WriteStats writes the ten-counter sidecar the original project calls
// `print_csv_file`: one `name,value` row per counter, no header row, to
// path (conventionally `<output>.stats`, spec.md §6.3).
func WriteStats(path string, stats *ssaopt.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range stats.Rows() {
		if err := w.Write(row[:]); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return nil
}
