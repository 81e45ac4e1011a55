package roster

import (
	"bytes"
	"context"
	"fmt"
	syslog "log"
	"reflect"
	"strings"
	"testing"

	"github.com/uhppoted/uhppoted-lib/log"
)

type values struct {
	rows [][]any
	err  error
}

func (v *values) Get(ctx context.Context, area string) ([][]any, error) {
	return v.rows, v.err
}

func TestMakeRoster(t *testing.T) {
	expected := map[string]string{
		"abc123": "12345678",
		"def456": "23456789",
	}

	rows := [][]any{
		[]any{"12345678", "abc123"},
		[]any{"23456789", "def456"},
	}

	roster := MakeRoster(rows)

	if !reflect.DeepEqual(roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, roster)
	}
}

func TestMakeRosterWithShortRows(t *testing.T) {
	expected := map[string]string{
		"abc123": "12345678",
	}

	rows := [][]any{
		[]any{},
		[]any{"87654321"},
		[]any{"12345678", "abc123"},
	}

	roster := MakeRoster(rows)

	if !reflect.DeepEqual(roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, roster)
	}
}

func TestMakeRosterWithDuplicateHash(t *testing.T) {
	rows := [][]any{
		[]any{"12345678", "abc123"},
		[]any{"87654321", "abc123"},
	}

	roster := MakeRoster(rows)

	if len(roster) != 1 {
		t.Fatalf("Expected 1 roster entry, got %v", len(roster))
	}

	if roster["abc123"] != "87654321" {
		t.Errorf("Expected last row to win for duplicate hash, got %v", roster["abc123"])
	}
}

func TestMakeRosterWithExtraColumns(t *testing.T) {
	expected := map[string]string{
		"abc123": "12345678",
	}

	rows := [][]any{
		[]any{"12345678", "abc123", "12345678", "16/10/2026", "12:30:05", "Almuerzo"},
	}

	roster := MakeRoster(rows)

	if !reflect.DeepEqual(roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, roster)
	}
}

func TestMakeRosterWithNonStringCells(t *testing.T) {
	expected := map[string]string{
		"123456": "12345678",
	}

	rows := [][]any{
		[]any{float64(12345678), float64(123456)},
	}

	roster := MakeRoster(rows)

	if !reflect.DeepEqual(roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, roster)
	}
}

func TestFetch(t *testing.T) {
	expected := map[string]string{
		"abc123": "12345678",
	}

	fetcher := NewFetcher(&values{rows: [][]any{[]any{"12345678", "abc123"}}}, "RegistroHuella!A:B", true)

	roster := fetcher.Fetch(context.Background())

	if !reflect.DeepEqual(roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, roster)
	}
}

func TestFetchWithAPIError(t *testing.T) {
	fetcher := NewFetcher(&values{err: fmt.Errorf("unavailable")}, "RegistroHuella!A:B", false)

	roster := fetcher.Fetch(context.Background())

	if roster == nil {
		t.Fatalf("Expected empty roster, got %v", roster)
	}

	if len(roster) != 0 {
		t.Errorf("Expected empty roster, got %v", roster)
	}
}

func TestFetchWithAPIErrorLogsError(t *testing.T) {
	var buffer bytes.Buffer

	log.SetLogger(syslog.New(&buffer, "", 0))
	t.Cleanup(func() { log.SetLogger(syslog.Default()) })

	fetcher := NewFetcher(&values{err: fmt.Errorf("403 forbidden")}, "RegistroHuella!A:B", false)
	fetcher.Fetch(context.Background())

	expected := "ERROR  roster   error retrieving roster from RegistroHuella!A:B (403 forbidden)"
	if logged := strings.TrimSpace(buffer.String()); logged != expected {
		t.Errorf("Incorrect log message\n   expected:%q\n   got:     %q", expected, logged)
	}
}
