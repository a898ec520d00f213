package table

import (
	"encoding/csv"
	"io"
)

// WriteCSV encodes the table as CSV with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Cols); err != nil {
		return err
	}
	record := make([]string, len(t.Cols))
	for _, row := range t.Rows {
		for i, c := range t.Cols {
			record[i] = CellString(row[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
