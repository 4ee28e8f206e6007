package collect

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// csvHeader is the fixed column order for exported download results.
var csvHeader = []string{"url", "success", "status_code", "duration_ms", "error", "content"}

// WriteCSV streams results to w as a gzip-compressed CSV with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	gz := gzip.NewWriter(w)

	cw := csv.NewWriter(gz)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.URL,
			strconv.FormatBool(r.Success),
			strconv.Itoa(r.StatusCode),
			strconv.FormatInt(r.DurationMs, 10),
			r.Error,
			r.Content,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	return gz.Close()
}

// ExportFile writes results to path as a gzip-compressed CSV.
func ExportFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
