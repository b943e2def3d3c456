package extract

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/maraichr/joingraph/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runExtract(t *testing.T, sqlText string) *models.UnitResult {
	t.Helper()
	return New("test.sql", sqlText, testLogger()).Extract()
}

func TestExtractSimpleJoin(t *testing.T) {
	result := runExtract(t, `SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id`)

	if result.ParsedJoinCount != 1 {
		t.Errorf("expected 1 parsed join, got %d", result.ParsedJoinCount)
	}
	if result.RegexJoinCount != 1 {
		t.Errorf("expected 1 baseline join, got %d", result.RegexJoinCount)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}

	row := result.Rows[0]
	if row.JoinType != models.JoinTypeInner {
		t.Errorf("expected INNER, got %s", row.JoinType)
	}
	if row.RawRef != "customers" {
		t.Errorf("expected raw ref customers, got %s", row.RawRef)
	}
	if !reflect.DeepEqual(row.Tables, []string{"customers"}) {
		t.Errorf("expected tables [customers], got %v", row.Tables)
	}
	if row.Condition != "orders.customer_id = customers.id" {
		t.Errorf("unexpected condition: %s", row.Condition)
	}
}

func TestExtractJoinTypes(t *testing.T) {
	result := runExtract(t, `
SELECT *
FROM a
LEFT JOIN b ON a.id = b.id
RIGHT JOIN c ON a.id = c.id
FULL OUTER JOIN d ON a.id = d.id
`)

	if len(result.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(result.Rows))
	}
	want := []models.JoinType{models.JoinTypeLeft, models.JoinTypeRight, models.JoinTypeFull}
	for i, row := range result.Rows {
		if row.JoinType != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], row.JoinType)
		}
	}
	if result.ParsedJoinCount != 3 || result.RegexJoinCount != 3 {
		t.Errorf("expected 3/3 counts, got %d/%d", result.ParsedJoinCount, result.RegexJoinCount)
	}
}

func TestExtractResolvesCTEChain(t *testing.T) {
	result := runExtract(t, `
WITH r2_ac_fin AS (
    SELECT a.acc_id, t.type_name
    FROM z_r2_acc a
    JOIN r2_type_acc t ON a.type_id = t.id
),
t AS (
    SELECT *
    FROM business_dt d
    JOIN r2_ac_fin f ON d.dt = f.acc_id
)
SELECT * FROM t
`)

	if result.ParsedJoinCount != 2 {
		t.Fatalf("expected 2 parsed joins, got %d", result.ParsedJoinCount)
	}

	var cteRow *models.LineageRow
	for i := range result.Rows {
		if result.Rows[i].RawRef == "r2_ac_fin" {
			cteRow = &result.Rows[i]
		}
	}
	if cteRow == nil {
		t.Fatal("expected a join arm targeting r2_ac_fin")
	}
	want := []string{"r2_type_acc", "z_r2_acc"}
	if !reflect.DeepEqual(cteRow.Tables, want) {
		t.Errorf("expected %v, got %v", want, cteRow.Tables)
	}
}

func TestExtractCyclicCTETerminates(t *testing.T) {
	// The parser accepts forward and mutual CTE references; resolution must
	// terminate instead of chasing the cycle.
	result := runExtract(t, `
WITH a AS (SELECT * FROM b),
b AS (SELECT * FROM a)
SELECT * FROM x JOIN b ON x.id = b.id
`)

	if result.ParsedJoinCount != 1 {
		t.Fatalf("expected 1 parsed join, got %d", result.ParsedJoinCount)
	}
	row := result.Rows[0]
	if row.RawRef != "b" {
		t.Errorf("expected raw ref b, got %s", row.RawRef)
	}
	if len(row.Tables) == 0 {
		t.Error("expected a non-empty terminal table set")
	}
}

func TestExtractDistinctSelectsGetDistinctIDs(t *testing.T) {
	// Two textually identical statements are two distinct SELECT nodes and
	// each contributes its own row.
	result := runExtract(t, `
SELECT * FROM a JOIN b ON a.id = b.id;
SELECT * FROM a JOIN b ON a.id = b.id;
`)

	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0].SelectID == result.Rows[1].SelectID {
		t.Errorf("expected distinct select ids, both got %d", result.Rows[0].SelectID)
	}
	if result.ParsedJoinCount != 2 {
		t.Errorf("expected 2 parsed joins, got %d", result.ParsedJoinCount)
	}
}

func TestExtractSubqueryJoin(t *testing.T) {
	result := runExtract(t, `
SELECT *
FROM a
JOIN (SELECT * FROM b JOIN c ON b.id = c.id) s ON a.id = s.id
`)

	if result.ParsedJoinCount != 2 {
		t.Fatalf("expected 2 parsed joins, got %d", result.ParsedJoinCount)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	outer := result.Rows[0]
	if outer.RawRef != "s" {
		t.Errorf("expected subquery alias s, got %s", outer.RawRef)
	}
	if !reflect.DeepEqual(outer.Tables, []string{"b", "c"}) {
		t.Errorf("expected subquery to resolve to [b c], got %v", outer.Tables)
	}

	inner := result.Rows[1]
	if inner.RawRef != "c" {
		t.Errorf("expected inner join target c, got %s", inner.RawRef)
	}
	if outer.SelectID == inner.SelectID {
		t.Error("expected the subquery to be a distinct SELECT")
	}
}

func TestExtractSkipsUnparseableStatement(t *testing.T) {
	result := runExtract(t, `
SELECT * FROM a JOIN b ON a.id = b.id;
this is not sql at all;
`)

	if result.ParsedJoinCount != 1 {
		t.Errorf("expected 1 parsed join, got %d", result.ParsedJoinCount)
	}
	if result.RegexJoinCount != 1 {
		t.Errorf("expected 1 baseline join, got %d", result.RegexJoinCount)
	}
	if len(result.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(result.Rows))
	}
}

func TestExtractCTEOnlyScript(t *testing.T) {
	// A bare WITH chain with no final SELECT still yields the CTE body's
	// joins via the patched parse.
	result := runExtract(t, `
WITH totals AS (
    SELECT o.id, i.qty
    FROM orders o
    JOIN items i ON o.id = i.order_id
)
`)

	if result.ParsedJoinCount != 1 {
		t.Fatalf("expected 1 parsed join, got %d", result.ParsedJoinCount)
	}
	if result.Rows[0].RawRef != "items" {
		t.Errorf("expected items, got %s", result.Rows[0].RawRef)
	}
}

func TestExtractStripsPlaceholders(t *testing.T) {
	result := runExtract(t, `SELECT * FROM items i JOIN {orders_table} o ON i.id = o.item_id`)

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].RawRef != "orders_table" {
		t.Errorf("expected orders_table, got %s", result.Rows[0].RawRef)
	}
}

func TestExtractAliasCanonicalization(t *testing.T) {
	result := runExtract(t, `
SELECT *
FROM orders o
LEFT JOIN customers c ON o.customer_id = c.id AND o.region = c.region
`)

	want := "orders.customer_id = customers.id AND orders.region = customers.region"
	if result.Rows[0].Condition != want {
		t.Errorf("expected %q, got %q", want, result.Rows[0].Condition)
	}
}

func TestExtractNoJoins(t *testing.T) {
	result := runExtract(t, `SELECT 1`)

	if result.ParsedJoinCount != 0 || result.RegexJoinCount != 0 {
		t.Errorf("expected 0/0 counts, got %d/%d", result.ParsedJoinCount, result.RegexJoinCount)
	}
	if len(result.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(result.Rows))
	}
}

func TestExtractUnitsAreIsolated(t *testing.T) {
	// The same CTE name means different things in different units.
	first := runExtract(t, `
WITH base AS (SELECT * FROM alpha)
SELECT * FROM x JOIN base ON x.id = base.id
`)
	second := runExtract(t, `
WITH base AS (SELECT * FROM beta)
SELECT * FROM x JOIN base ON x.id = base.id
`)

	if !reflect.DeepEqual(first.Rows[0].Tables, []string{"alpha"}) {
		t.Errorf("first unit: expected [alpha], got %v", first.Rows[0].Tables)
	}
	if !reflect.DeepEqual(second.Rows[0].Tables, []string{"beta"}) {
		t.Errorf("second unit: expected [beta], got %v", second.Rows[0].Tables)
	}
}
