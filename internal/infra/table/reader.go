// Package table reads round files into plain [][]string cells. It
// understands the three shapes the forms export shows up in: plain CSV,
// a zip archive wrapping a single CSV, and an XLSX workbook.
package table

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV reads all rows from a CSV stream. Field counts are not
// enforced here; the scoring core validates row widths itself.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// ReadXLSX reads the first sheet of an XLSX workbook. Excel drops
// trailing empty cells, so every row is padded back to the header's
// width.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// ReadZippedCSV reads a ".csv.zip" archive: a zip wrapping the CSV it
// was compressed from. The first ".csv" entry wins.
func ReadZippedCSV(path string) ([][]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if !strings.HasSuffix(entry.Name, ".csv") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", entry.Name, path, err)
		}
		rows, err := ReadCSV(rc)
		rc.Close()
		return rows, err
	}
	return nil, fmt.Errorf("%s: no csv entry in archive", path)
}

// ReadFile reads a round file, dispatching on its extension.
func ReadFile(path string) ([][]string, error) {
	switch {
	case strings.HasSuffix(path, ".csv.zip"):
		return ReadZippedCSV(path)
	case strings.HasSuffix(path, ".csv"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case strings.HasSuffix(path, ".xlsx"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("%s: unsupported round file type", filepath.Base(path))
	}
}
