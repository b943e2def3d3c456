package models

import (
	"reflect"
	"testing"
)

func TestJoinPairsFromCondition(t *testing.T) {
	row := LineageRow{
		Source:    "q.sql",
		JoinType:  JoinTypeLeft,
		Condition: "orders.customer_id = customers.id AND orders.region = customers.region",
	}

	pairs := JoinPairs(row)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	want := JoinPair{
		Left:      "orders",
		Right:     "customers",
		JoinType:  JoinTypeLeft,
		Condition: "orders.customer_id = customers.id",
		Source:    "q.sql",
	}
	if !reflect.DeepEqual(pairs[0], want) {
		t.Errorf("got %+v, want %+v", pairs[0], want)
	}
	if pairs[1].Condition != "orders.region = customers.region" {
		t.Errorf("unexpected second condition: %s", pairs[1].Condition)
	}
}

func TestJoinPairsFallbackToTables(t *testing.T) {
	row := LineageRow{
		Source:   "q.sql",
		JoinType: JoinTypeInner,
		RawRef:   "cte_name",
		Tables:   []string{"base_a", "base_b"},
	}

	pairs := JoinPairs(row)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	for i, pair := range pairs {
		if pair.Left != UnknownRelation {
			t.Errorf("pair %d: expected unknown left side, got %s", i, pair.Left)
		}
	}
	if pairs[0].Right != "base_a" || pairs[1].Right != "base_b" {
		t.Errorf("unexpected right sides: %+v", pairs)
	}
}

func TestJoinPairsFallbackToRawRef(t *testing.T) {
	row := LineageRow{JoinType: JoinTypeInner, RawRef: "sub"}

	pairs := JoinPairs(row)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Left != UnknownRelation || pairs[0].Right != "sub" {
		t.Errorf("unexpected pair: %+v", pairs[0])
	}
}

func TestJoinPairsEmptyRow(t *testing.T) {
	if pairs := JoinPairs(LineageRow{}); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %+v", pairs)
	}
}

func TestJoinPairsUnqualifiedColumnsIgnored(t *testing.T) {
	// "id = other_id" names no relations; the row degrades to the table-set
	// fallback.
	row := LineageRow{
		JoinType:  JoinTypeInner,
		Condition: "id = other_id",
		Tables:    []string{"b"},
	}

	pairs := JoinPairs(row)
	if len(pairs) != 1 || pairs[0].Left != UnknownRelation || pairs[0].Right != "b" {
		t.Errorf("unexpected pairs: %+v", pairs)
	}
}
