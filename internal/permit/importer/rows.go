package importer

import (
	"encoding/csv"
	"encoding/json"
	"io"

	dErrors "sipeka/pkg/domain-errors"
)

// ParseCSV reads a CSV source with a header row into loosely-typed rows.
// The header supplies the natural-language column names the alias table
// resolves against. A source that cannot be read as CSV at all surfaces
// an import-parse error and nothing is imported.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, dErrors.New(dErrors.CodeImportParse, "source is not readable as tabular data")
	}
	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeImportParse, "source has no header row")
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseJSON reads a JSON array of objects into rows. Numeric cells stay
// numbers; the normalizer stringifies them.
func ParseJSON(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, dErrors.New(dErrors.CodeImportParse, "source is not a JSON array of row objects")
	}
	return rows, nil
}
