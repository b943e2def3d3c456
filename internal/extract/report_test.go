package extract

import (
	"strings"
	"testing"

	"github.com/maraichr/joingraph/pkg/models"
)

func TestReportTotals(t *testing.T) {
	r := NewReport()
	r.Add(&models.UnitResult{Source: "a.sql", ParsedJoinCount: 3, RegexJoinCount: 4})
	r.Add(&models.UnitResult{Source: "b.sql", ParsedJoinCount: 2, RegexJoinCount: 2})

	if r.TotalParsed != 5 {
		t.Errorf("expected 5 parsed, got %d", r.TotalParsed)
	}
	if r.TotalRegex != 6 {
		t.Errorf("expected 6 baseline, got %d", r.TotalRegex)
	}

	pct, ok := r.Coverage()
	if !ok {
		t.Fatal("expected coverage to be defined")
	}
	if pct < 83.33 || pct > 83.34 {
		t.Errorf("expected ~83.33, got %f", pct)
	}
}

func TestReportCoverageOverHundred(t *testing.T) {
	// The structural count can legitimately exceed the baseline; coverage is
	// reported as-is, never clamped.
	r := NewReport()
	r.Add(&models.UnitResult{ParsedJoinCount: 5, RegexJoinCount: 4})

	pct, ok := r.Coverage()
	if !ok {
		t.Fatal("expected coverage to be defined")
	}
	if pct != 125 {
		t.Errorf("expected 125, got %f", pct)
	}
	if !strings.Contains(r.RenderStats(), "Coverage percentage: 125.00%") {
		t.Errorf("stats block missing unclamped percentage:\n%s", r.RenderStats())
	}
}

func TestReportCoverageUndefined(t *testing.T) {
	r := NewReport()
	r.Add(&models.UnitResult{ParsedJoinCount: 0, RegexJoinCount: 0})

	if _, ok := r.Coverage(); ok {
		t.Error("expected coverage to be undefined with zero baseline")
	}
	if !strings.Contains(r.RenderStats(), "Coverage percentage: N/A (no joins found by baseline scan)") {
		t.Errorf("stats block missing N/A line:\n%s", r.RenderStats())
	}
}

func TestRenderStatsShape(t *testing.T) {
	r := NewReport()
	r.Add(&models.UnitResult{ParsedJoinCount: 2, RegexJoinCount: 2})

	stats := r.RenderStats()
	lines := strings.Split(strings.TrimRight(stats, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), stats)
	}
	rule := strings.Repeat("=", 60)
	for _, i := range []int{0, 2, 6} {
		if lines[i] != rule {
			t.Errorf("line %d: expected rule, got %q", i, lines[i])
		}
	}
	if lines[1] != "STATISTICS:" {
		t.Errorf("expected STATISTICS: header, got %q", lines[1])
	}
	if lines[3] != "Joins found by baseline scan: 2" {
		t.Errorf("unexpected baseline line: %q", lines[3])
	}
	if lines[4] != "Joins processed structurally: 2" {
		t.Errorf("unexpected structural line: %q", lines[4])
	}
	if lines[5] != "Coverage percentage: 100.00%" {
		t.Errorf("unexpected coverage line: %q", lines[5])
	}
}

func TestReportRowsConcatenation(t *testing.T) {
	r := NewReport()
	r.Add(&models.UnitResult{Source: "a.sql", Rows: []models.LineageRow{{Source: "a.sql", RawRef: "x"}}})
	r.Add(&models.UnitResult{Source: "b.sql", Rows: []models.LineageRow{{Source: "b.sql", RawRef: "y"}}})

	rows := r.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Source != "a.sql" || rows[1].Source != "b.sql" {
		t.Errorf("rows out of batch order: %v", rows)
	}
}
