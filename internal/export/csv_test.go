package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maraichr/joingraph/pkg/models"
)

func TestWriteCSV(t *testing.T) {
	rows := []models.LineageRow{
		{
			Source:    "a.sql",
			JoinType:  models.JoinTypeInner,
			Condition: "orders.customer_id = customers.id",
		},
		{
			Source:   "a.sql",
			JoinType: models.JoinTypeLeft,
			RawRef:   "totals",
			Tables:   []string{"items"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "table1;table2;join_type;condition;source" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "orders;customers;INNER;orders.customer_id = customers.id;a.sql" {
		t.Errorf("unexpected first record: %q", lines[1])
	}
	if lines[2] != "<unknown>;items;LEFT;;a.sql" {
		t.Errorf("unexpected second record: %q", lines[2])
	}
}

func TestWriteCSVDeduplicates(t *testing.T) {
	row := models.LineageRow{
		Source:    "a.sql",
		JoinType:  models.JoinTypeInner,
		Condition: "a.id = b.id",
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []models.LineageRow{row, row}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("expected header plus 1 deduplicated record, got %d lines", len(lines))
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "table1;table2;join_type;condition;source" {
		t.Errorf("expected bare header, got %q", got)
	}
}
