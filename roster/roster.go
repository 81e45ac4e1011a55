package roster

import (
	"context"
	"fmt"
	"strconv"

	"github.com/uhppoted/uhppoted-lib/log"
)

const LOG_TAG = "roster"

// Values is the spreadsheet read capability used to retrieve the roster.
type Values interface {
	Get(ctx context.Context, area string) ([][]any, error)
}

// Fetcher retrieves the hash → identifier roster from a fixed spreadsheet range.
type Fetcher struct {
	sheet Values
	area  string
	debug bool
}

func NewFetcher(sheet Values, area string, debug bool) *Fetcher {
	return &Fetcher{
		sheet: sheet,
		area:  area,
		debug: debug,
	}
}

// Fetch reads the roster range and returns the hash → identifier mapping. A failed read is
// logged and returns an empty mapping, so every lookup against it misses.
func (f *Fetcher) Fetch(ctx context.Context) map[string]string {
	rows, err := f.sheet.Get(ctx, f.area)
	if err != nil {
		errorf("error retrieving roster from %v (%v)", f.area, err)
		return map[string]string{}
	}

	roster := MakeRoster(rows)

	if f.debug {
		debugf("retrieved %v roster entries from %v", len(roster), f.area)
	}

	return roster
}

// MakeRoster converts (identifier, hash) rows into a hash → identifier mapping. Rows with fewer
// than two cells are skipped and a duplicated hash resolves to the last row in sheet order.
func MakeRoster(rows [][]any) map[string]string {
	roster := map[string]string{}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		roster[cell(row[1])] = cell(row[0])
	}

	return roster
}

func cell(v any) string {
	switch s := v.(type) {
	case string:
		return s

	case nil:
		return ""

	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)

	default:
		return fmt.Sprintf("%v", v)
	}
}

func debugf(format string, args ...any) {
	log.Debugf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func errorf(format string, args ...any) {
	log.Errorf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}
