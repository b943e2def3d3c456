package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtractionRun is a persisted extraction batch.
type ExtractionRun struct {
	ID          uuid.UUID `json:"id"`
	UnitCount   int       `json:"unit_count"`
	TotalParsed int       `json:"total_parsed"`
	TotalRegex  int       `json:"total_regex"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoredLineageRow is a LineageRow as persisted, tied to its run.
type StoredLineageRow struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Source    string    `json:"source"`
	SelectID  int       `json:"select_id"`
	JoinType  JoinType  `json:"join_type"`
	RawRef    string    `json:"raw_ref,omitempty"`
	Tables    []string  `json:"tables"`
	Condition string    `json:"condition,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
