package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
)

var headers = struct {
	identifier map[string]bool
	hash       map[string]bool
}{
	identifier: map[string]bool{"identifier": true, "dni": true, "id": true},
	hash:       map[string]bool{"hash": true, "huella": true, "fingerprint": true},
}

// WriteTSV writes the roster rows to a TSV file with an 'Identifier  Hash' header. A header row
// in the worksheet is not repeated and rows with fewer than two cells are skipped.
func WriteTSV(f io.Writer, rows [][]any) error {
	if len(rows) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	records := [][]string{}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		identifier := clean(cell(row[0]))
		hash := clean(cell(row[1]))

		if i == 0 && isHeader(identifier, hash) {
			continue
		}

		records = append(records, []string{identifier, hash})
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write([]string{"Identifier", "Hash"})
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

// ReadTSV reads an 'Identifier  Hash' TSV file into (identifier, hash) rows for the roster range.
// Blank and duplicated hashes are rejected so that every hash in the uploaded roster is unique.
func ReadTSV(f io.Reader) ([][]any, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	header := records[0]
	if len(header) < 1 || !headers.identifier[normalise(header[0])] {
		return nil, fmt.Errorf("Missing 'identifier' column")
	}

	if len(header) < 2 || !headers.hash[normalise(header[1])] {
		return nil, fmt.Errorf("Missing 'hash' column")
	}

	rows := [][]any{}
	hashes := map[string]int{}

	for i, record := range records[1:] {
		line := i + 2
		if len(record) < 2 {
			return nil, fmt.Errorf("line %v: expected identifier and hash", line)
		}

		identifier := clean(record[0])
		hash := clean(record[1])

		if identifier == "" || hash == "" {
			return nil, fmt.Errorf("line %v: blank identifier or hash", line)
		}

		if previous, ok := hashes[hash]; ok {
			return nil, fmt.Errorf("line %v: duplicate hash (also on line %v)", line, previous)
		}

		hashes[hash] = line
		rows = append(rows, []any{identifier, hash})
	}

	return rows, nil
}

func isHeader(identifier, hash string) bool {
	return headers.identifier[normalise(identifier)] && headers.hash[normalise(hash)]
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return cases.Fold().String(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}
