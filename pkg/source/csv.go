package source

import (
	"encoding/csv"
	"io"

	"github.com/matzehuels/skijump/pkg/errors"
)

// readCSV decodes comma-separated text. The first record is the header.
// Rows may have any number of fields.
func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIngestion, err, "parse csv")
	}
	return tableFromRecords(records)
}

// tableFromRecords splits a header row off raw records.
func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeIngestion, "input has no header row")
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}
