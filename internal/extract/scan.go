package extract

import "regexp"

// scan.go is the textual side of the extractor: a join counter that never
// consults the parser. Its count is compared against the structural count at
// the report layer to measure how much of the input the parser covered.

// joinPattern matches the join keywords structurally counted by the
// extractor: bare/INNER JOIN, LEFT/RIGHT/FULL with optional OUTER. It knows
// nothing about comments or string literals; it is a cross-check bound, not a
// semantic count.
var joinPattern = regexp.MustCompile(
	`(?i)\b(?:INNER\s+)?JOIN\b|\bLEFT\s+(?:OUTER\s+)?JOIN\b|\bRIGHT\s+(?:OUTER\s+)?JOIN\b|\bFULL\s+(?:OUTER\s+)?JOIN\b`)

// CountJoins returns the number of join keywords present in the raw SQL text.
func CountJoins(sqlText string) int {
	return len(joinPattern.FindAllStringIndex(sqlText, -1))
}

// placeholderPattern matches {name} template placeholders left in SQL by
// config-driven scripts.
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// StripPlaceholders rewrites {table_name} to table_name so templated SQL
// still parses. Both the parser and the baseline counter see the stripped
// text.
func StripPlaceholders(sqlText string) string {
	return placeholderPattern.ReplaceAllString(sqlText, "$1")
}

// ctePattern finds CTE definition heads ("name AS (") in raw text. Used only
// to patch scripts that consist of CTE definitions with no final SELECT.
var ctePattern = regexp.MustCompile(`(?i)\b([A-Za-z0-9_]+)\s+AS\s*\(`)

// patchCTEOnly appends a trailing "select * from <last-cte>" to a script that
// looks like a bare WITH chain. Returns "" when the text has no CTE heads to
// anchor on.
func patchCTEOnly(sqlText string) string {
	matches := ctePattern.FindAllStringSubmatch(sqlText, -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1][1]
	return sqlText + "\nselect * from " + last
}
