package source

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/skijump/pkg/errors"
)

// readXLSX decodes the first worksheet of an XLSX workbook. Numeric cells
// are read as their stored value, ignoring number formats, and coerced later
// like CSV values.
func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIngestion, err, "open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeIngestion, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIngestion, err, "read sheet %q", sheets[0])
	}
	return tableFromRecords(rows)
}
