package models

import "strings"

// UnknownRelation marks a join side that could not be attributed to a
// relation (no recognizable equality in the ON clause).
const UnknownRelation = "<unknown>"

// JoinPair is one flat table-to-table join relationship derived from a
// lineage row, the shape exported to CSV and the join graph.
type JoinPair struct {
	Left      string
	Right     string
	JoinType  JoinType
	Condition string
	Source    string
}

// JoinPairs flattens a lineage row into table pairs. Each equality in the
// row's condition yields one pair; rows without a recognizable condition
// degrade to pairs against the resolved table set with an unknown left side.
func JoinPairs(row LineageRow) []JoinPair {
	var pairs []JoinPair
	for _, part := range strings.Split(row.Condition, " AND ") {
		left, right, ok := splitEquality(part)
		if !ok {
			continue
		}
		pairs = append(pairs, JoinPair{
			Left:      left,
			Right:     right,
			JoinType:  row.JoinType,
			Condition: part,
			Source:    row.Source,
		})
	}
	if len(pairs) > 0 {
		return pairs
	}

	for _, table := range row.Tables {
		pairs = append(pairs, JoinPair{
			Left:     UnknownRelation,
			Right:    table,
			JoinType: row.JoinType,
			Source:   row.Source,
		})
	}
	if len(pairs) == 0 && row.RawRef != "" {
		pairs = append(pairs, JoinPair{
			Left:     UnknownRelation,
			Right:    row.RawRef,
			JoinType: row.JoinType,
			Source:   row.Source,
		})
	}
	return pairs
}

// splitEquality splits "a.x = b.y" into its table sides.
func splitEquality(condition string) (left, right string, ok bool) {
	sides := strings.SplitN(condition, "=", 2)
	if len(sides) != 2 {
		return "", "", false
	}
	left = tableOf(strings.TrimSpace(sides[0]))
	right = tableOf(strings.TrimSpace(sides[1]))
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// tableOf returns the relation part of a qualified column reference.
func tableOf(column string) string {
	idx := strings.LastIndex(column, ".")
	if idx <= 0 {
		return ""
	}
	return column[:idx]
}
