// Package source loads leaderboard input tables.
//
// A table is read from comma-separated text or an XLSX workbook, or taken
// from the built-in [Demo] dataset. [Table.Entries] resolves the three
// required columns (name, value, image) and returns raw
// [leaderboard.Entry] rows; any extra columns are ignored.
//
// Two error kinds stop a render here, before ranking:
//   - INGESTION: the source cannot be parsed at all
//   - SCHEMA: required columns are missing (the message names them)
//
// Row-level problems are not detected here; they are dropped by
// [leaderboard.Rank].
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/leaderboard"
)

// Format identifies an input encoding.
type Format string

// Supported input formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Canonical column names. These match the headers of the original
// call-center export and are used when reporting missing columns.
const (
	ColumnName  = "이름"
	ColumnValue = "값"
	ColumnImage = "사진URL"
)

// RequiredColumns lists the canonical required columns in reporting order.
var RequiredColumns = []string{ColumnName, ColumnValue, ColumnImage}

// columnAliases maps a normalized header to its canonical column.
var columnAliases = map[string]string{
	"이름":        ColumnName,
	"name":      ColumnName,
	"값":         ColumnValue,
	"value":     ColumnValue,
	"metric":    ColumnValue,
	"사진url":     ColumnImage,
	"image":     ColumnImage,
	"image_url": ColumnImage,
	"imageurl":  ColumnImage,
	"photo":     ColumnImage,
	"photo_url": ColumnImage,
	"avatar":    ColumnImage,
}

// Table is a parsed input source: a header row and data rows.
// Rows may be shorter than Columns; missing cells read as empty.
type Table struct {
	Columns []string
	Rows    [][]string
}

// FormatFromFilename infers the input format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input %q (must be .csv or .xlsx)", filepath.Base(name))
	}
}

// Read decodes a table from r in the given format.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// ReadBytes decodes a table from data, inferring the format from filename.
// It is used for uploads, where only the client filename is known.
func ReadBytes(data []byte, filename string) (*Table, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), format)
}

// Load reads the table at path, inferring the format from its extension.
//
// A missing file is reported as FILE_NOT_FOUND; a file that exists but
// cannot be parsed is reported as INGESTION.
func Load(path string) (*Table, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIngestion, err, "open %s", path)
	}
	defer f.Close()

	t, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Resolve maps each canonical column to its index in the header.
// It returns a SCHEMA error naming every required column that is absent.
func (t *Table) Resolve() (map[string]int, error) {
	idx := make(map[string]int, len(RequiredColumns))
	for i, col := range t.Columns {
		canon, ok := columnAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, dup := idx[canon]; !dup {
			idx[canon] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.MissingColumns(missing...)
	}
	return idx, nil
}

// Entries validates the schema and returns one raw entry per data row.
// Completely empty rows are skipped.
func (t *Table) Entries() ([]leaderboard.Entry, error) {
	idx, err := t.Resolve()
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboard.Entry, 0, len(t.Rows))
	for _, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		entries = append(entries, leaderboard.Entry{
			Name:     cell(row, idx[ColumnName]),
			RawValue: cell(row, idx[ColumnValue]),
			ImageRef: cell(row, idx[ColumnImage]),
		})
	}
	return entries, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
