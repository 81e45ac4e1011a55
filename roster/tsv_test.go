package roster

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestWriteTSV(t *testing.T) {
	var b bytes.Buffer

	rows := [][]any{
		[]any{"DNI", "Huella"},
		[]any{"12345678", "abc123"},
		[]any{"87654321"},
		[]any{" 23456789 ", " def456 "},
		[]any{"34567890", "0f1e2d3c4b5a"},
	}

	if err := WriteTSV(&b, rows); err != nil {
		t.Fatalf("Unexpected error returned from WriteTSV (%v)", err)
	}

	g := goldie.New(t)
	g.Assert(t, "roster", b.Bytes())
}

func TestWriteTSVWithoutHeader(t *testing.T) {
	expected := "Identifier\tHash\n12345678\tabc123\n"

	var f strings.Builder
	rows := [][]any{
		[]any{"12345678", "abc123"},
	}

	if err := WriteTSV(&f, rows); err != nil {
		t.Fatalf("Unexpected error returned from WriteTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestWriteTSVWithEmptySheet(t *testing.T) {
	var f strings.Builder

	if err := WriteTSV(&f, [][]any{}); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestReadTSV(t *testing.T) {
	expected := [][]any{
		[]any{"12345678", "abc123"},
		[]any{"23456789", "def456"},
	}

	tsv := "Identifier\tHash\n12345678\tabc123\n23456789\tdef456\n"

	rows, err := ReadTSV(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("Unexpected error returned from ReadTSV (%v)", err)
	}

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestReadTSVWithSpanishHeader(t *testing.T) {
	expected := [][]any{
		[]any{"12345678", "abc123"},
	}

	tsv := "DNI\tHUELLA\n12345678\tabc123\n"

	rows, err := ReadTSV(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("Unexpected error returned from ReadTSV (%v)", err)
	}

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestReadTSVWithEmptyFile(t *testing.T) {
	if _, err := ReadTSV(strings.NewReader("")); err == nil {
		t.Fatalf("Expected error return for empty file, got %v", err)
	}
}

func TestReadTSVWithMissingIdentifier(t *testing.T) {
	if _, err := ReadTSV(strings.NewReader("Card Number\tHash\n")); err == nil {
		t.Fatalf("Expected error return for missing 'identifier' column, got %v", err)
	}
}

func TestReadTSVWithMissingHash(t *testing.T) {
	if _, err := ReadTSV(strings.NewReader("Identifier\n")); err == nil {
		t.Fatalf("Expected error return for missing 'hash' column, got %v", err)
	}
}

func TestReadTSVWithBlankHash(t *testing.T) {
	if _, err := ReadTSV(strings.NewReader("Identifier\tHash\n12345678\t \n")); err == nil {
		t.Fatalf("Expected error return for blank hash, got %v", err)
	}
}

func TestReadTSVWithDuplicateHash(t *testing.T) {
	tsv := "Identifier\tHash\n12345678\tabc123\n87654321\tabc123\n"

	if _, err := ReadTSV(strings.NewReader(tsv)); err == nil {
		t.Fatalf("Expected error return for duplicate hash, got %v", err)
	}
}
