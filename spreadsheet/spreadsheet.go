package spreadsheet

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	SHEETS          = "https://www.googleapis.com/auth/spreadsheets"
	SHEETS_READONLY = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

var urlRegex = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)
var rangeRegex = regexp.MustCompile(`^(.+?)!.*$`)

// Spreadsheet wraps the Google Sheets values API for a single spreadsheet.
type Spreadsheet struct {
	google  *sheets.Service
	id      string
	timeout time.Duration
}

// NewSpreadsheet creates a Sheets client for the spreadsheet using an already authorised HTTP client.
// Additional client options (e.g. an alternative endpoint) are passed through to the Sheets service.
func NewSpreadsheet(ctx context.Context, client *http.Client, id string, timeout time.Duration, opts ...option.ClientOption) (*Spreadsheet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing spreadsheet ID")
	}

	options := append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	google, err := sheets.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Spreadsheet{
		google:  google,
		id:      id,
		timeout: timeout,
	}, nil
}

func (s *Spreadsheet) ID() string {
	return s.id
}

// Get returns the rows in the range.
func (s *Spreadsheet) Get(ctx context.Context, area string) ([][]any, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	response, err := s.google.Spreadsheets.Values.Get(s.id, area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return response.Values, nil
}

// Append adds the rows after the last row of the table found in the range. Values are stored
// as is (RAW) and existing cells are overwritten rather than shifted, so columns outside the
// range are left untouched.
func (s *Spreadsheet) Append(ctx context.Context, area string, rows [][]any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	values := sheets.ValueRange{
		Values: rows,
	}

	if _, err := s.google.Spreadsheets.Values.Append(s.id, area, &values).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("error appending to Google Sheets range %v (%w)", area, err)
	}

	return nil
}

// Update writes the value ranges unparsed, so identifiers such as 01234567 keep their leading zeros.
func (s *Spreadsheet) Update(ctx context.Context, ranges ...*sheets.ValueRange) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             ranges,
	}

	if _, err := s.google.Spreadsheets.Values.BatchUpdate(s.id, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error updating Google Sheets (%w)", err)
	}

	return nil
}

func (s *Spreadsheet) Clear(ctx context.Context, ranges ...string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := s.google.Spreadsheets.Values.BatchClear(s.id, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error clearing Google Sheets ranges %v (%w)", ranges, err)
	}

	return nil
}

// Probe fetches the spreadsheet metadata to confirm the API client is usable.
func (s *Spreadsheet) Probe(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	spreadsheet, err := s.google.Spreadsheets.Get(s.id).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	if spreadsheet.SpreadsheetId != s.id {
		return fmt.Errorf("spreadsheet ID mismatch - expected %v, got %v", s.id, spreadsheet.SpreadsheetId)
	}

	return nil
}

func (s *Spreadsheet) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}

	return context.WithCancel(ctx)
}

// ParseID accepts either a bare spreadsheet ID or a spreadsheet URL and returns the spreadsheet ID.
func ParseID(v string) (string, error) {
	v = strings.TrimSpace(v)

	if strings.HasPrefix(v, "https://") {
		match := urlRegex.FindStringSubmatch(v)
		if len(match) < 2 || match[1] == "" {
			return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
		}

		return match[1], nil
	}

	if v == "" || strings.ContainsAny(v, "/ ") {
		return "", fmt.Errorf("invalid spreadsheet ID '%v'", v)
	}

	return v, nil
}

// ValidateRange checks that the range is qualified with a worksheet name e.g. 'RegistroHuella!A:B'.
func ValidateRange(area string) error {
	if match := rangeRegex.FindStringSubmatch(strings.TrimSpace(area)); len(match) < 2 {
		return fmt.Errorf("invalid range '%s' - expected something like 'RegistroHuella!A:B'", area)
	}

	return nil
}
