package extract

import (
	"fmt"
	"strings"

	"github.com/maraichr/joingraph/pkg/models"
)

// Report aggregates unit results across a batch. The two totals come from
// counting strategies that never consult each other; this is the only place
// they meet.
type Report struct {
	Units       []models.UnitResult
	TotalParsed int
	TotalRegex  int
}

func NewReport() *Report {
	return &Report{}
}

// Add folds one unit result into the report.
func (r *Report) Add(unit *models.UnitResult) {
	r.Units = append(r.Units, *unit)
	r.TotalParsed += unit.ParsedJoinCount
	r.TotalRegex += unit.RegexJoinCount
}

// Rows returns the concatenation of all unit rows in batch order.
func (r *Report) Rows() []models.LineageRow {
	var rows []models.LineageRow
	for _, unit := range r.Units {
		rows = append(rows, unit.Rows...)
	}
	return rows
}

// Coverage returns the structural/baseline ratio as a percentage. The second
// return is false when the baseline found no joins, in which case coverage is
// undefined. Values above 100 are legitimate (they flag a baseline
// undercount) and are never clamped.
func (r *Report) Coverage() (float64, bool) {
	if r.TotalRegex == 0 {
		return 0, false
	}
	return float64(r.TotalParsed) / float64(r.TotalRegex) * 100, true
}

const statsRule = "============================================================"

// RenderStats renders the fixed statistics block consumed by the presentation
// layer.
func (r *Report) RenderStats() string {
	var b strings.Builder
	b.WriteString(statsRule + "\n")
	b.WriteString("STATISTICS:\n")
	b.WriteString(statsRule + "\n")
	fmt.Fprintf(&b, "Joins found by baseline scan: %d\n", r.TotalRegex)
	fmt.Fprintf(&b, "Joins processed structurally: %d\n", r.TotalParsed)
	if pct, ok := r.Coverage(); ok {
		fmt.Fprintf(&b, "Coverage percentage: %.2f%%\n", pct)
	} else {
		b.WriteString("Coverage percentage: N/A (no joins found by baseline scan)\n")
	}
	b.WriteString(statsRule + "\n")
	return b.String()
}
