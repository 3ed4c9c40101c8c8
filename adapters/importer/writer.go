package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"lottolab/domain/core"
	"lottolab/domain/draw"
)

// WriteCSV writes the history in canonical column order. The file is
// written to a temporary sibling and renamed into place so readers never
// see a partial file.
func WriteCSV(path string, h draw.History) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "lotto_*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, d := range h {
		record := []string{strconv.Itoa(d.No), d.Date.Format(core.DrawDateLayout)}
		for _, n := range d.Numbers {
			record = append(record, strconv.Itoa(n))
		}
		record = append(record, strconv.Itoa(d.Bonus))
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write draw %d: %w", d.No, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
