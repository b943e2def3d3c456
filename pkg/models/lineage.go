package models

// JoinType is the normalized kind of a join clause.
type JoinType string

const (
	JoinTypeInner JoinType = "INNER"
	JoinTypeLeft  JoinType = "LEFT"
	JoinTypeRight JoinType = "RIGHT"
	JoinTypeFull  JoinType = "FULL"
)

// LineageRow is one resolved join arm: the SELECT it appeared in, the join
// kind, the raw right-hand relation reference, and the set of physical base
// tables that reference ultimately reads from.
type LineageRow struct {
	Source    string   `json:"source"`
	SelectID  int      `json:"select_id"`
	JoinType  JoinType `json:"join_type"`
	RawRef    string   `json:"raw_ref,omitempty"`
	Tables    []string `json:"tables"`
	Condition string   `json:"condition,omitempty"`
}

// UnitResult is the outcome of extracting one input unit (one SQL script).
type UnitResult struct {
	Source          string       `json:"source"`
	Rows            []LineageRow `json:"rows"`
	ParsedJoinCount int          `json:"parsed_join_count"`
	RegexJoinCount  int          `json:"regex_join_count"`
}
