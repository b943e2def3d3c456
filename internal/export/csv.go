package export

import (
	"encoding/csv"
	"io"

	"github.com/maraichr/joingraph/pkg/models"
)

// csvHeader is the fixed column set of the flat join-pair export.
var csvHeader = []string{"table1", "table2", "join_type", "condition", "source"}

// WriteCSV renders lineage rows as semicolon-separated join pairs,
// deduplicated on the full tuple in first-seen order.
func WriteCSV(w io.Writer, rows []models.LineageRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	seen := make(map[[5]string]struct{})
	for _, row := range rows {
		for _, pair := range models.JoinPairs(row) {
			record := [5]string{pair.Left, pair.Right, string(pair.JoinType), pair.Condition, pair.Source}
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}
			if err := cw.Write(record[:]); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
