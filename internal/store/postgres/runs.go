package postgres

// runs.go contains the hand-written queries for extraction runs and their
// lineage rows. Schema lives in schema.sql.

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maraichr/joingraph/pkg/models"
)

type Queries struct {
	db queryExecer
}

// queryExecer is the subset of pgx used by Queries; both *pgxpool.Pool and
// pgx.Tx satisfy it.
type queryExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(db queryExecer) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// CreateRunParams holds the aggregate numbers of a finished extraction batch.
type CreateRunParams struct {
	UnitCount   int
	TotalParsed int
	TotalRegex  int
}

// CreateRun inserts an extraction run and returns it.
func (q *Queries) CreateRun(ctx context.Context, params CreateRunParams) (models.ExtractionRun, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO extraction_runs (id, unit_count, total_parsed, total_regex)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, unit_count, total_parsed, total_regex, created_at`,
		uuid.New(), params.UnitCount, params.TotalParsed, params.TotalRegex)

	var run models.ExtractionRun
	err := row.Scan(&run.ID, &run.UnitCount, &run.TotalParsed, &run.TotalRegex, &run.CreatedAt)
	return run, err
}

// InsertLineageRows persists the rows of a run.
func (q *Queries) InsertLineageRows(ctx context.Context, runID uuid.UUID, rows []models.LineageRow) error {
	for _, r := range rows {
		_, err := q.db.Exec(ctx,
			`INSERT INTO lineage_rows (id, run_id, source, select_id, join_type, raw_ref, tables, condition)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), runID, r.Source, r.SelectID, string(r.JoinType), r.RawRef, r.Tables, r.Condition)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetRun returns one run by id.
func (q *Queries) GetRun(ctx context.Context, id uuid.UUID) (models.ExtractionRun, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, unit_count, total_parsed, total_regex, created_at
		 FROM extraction_runs
		 WHERE id = $1`, id)

	var run models.ExtractionRun
	err := row.Scan(&run.ID, &run.UnitCount, &run.TotalParsed, &run.TotalRegex, &run.CreatedAt)
	return run, err
}

// ListRuns returns runs newest first.
func (q *Queries) ListRuns(ctx context.Context, limit, offset int32) ([]models.ExtractionRun, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, unit_count, total_parsed, total_regex, created_at
		 FROM extraction_runs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ExtractionRun
	for rows.Next() {
		var run models.ExtractionRun
		if err := rows.Scan(&run.ID, &run.UnitCount, &run.TotalParsed, &run.TotalRegex, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListRowsByRun returns the lineage rows of a run in insertion order.
func (q *Queries) ListRowsByRun(ctx context.Context, runID uuid.UUID) ([]models.StoredLineageRow, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, run_id, source, select_id, join_type, raw_ref, tables, condition, created_at
		 FROM lineage_rows
		 WHERE run_id = $1
		 ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.StoredLineageRow
	for rows.Next() {
		var item models.StoredLineageRow
		var joinType string
		if err := rows.Scan(
			&item.ID, &item.RunID, &item.Source, &item.SelectID,
			&joinType, &item.RawRef, &item.Tables, &item.Condition, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.JoinType = models.JoinType(joinType)
		items = append(items, item)
	}
	return items, rows.Err()
}
