package extract

import "testing"

func TestCountJoins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"bare join", "select * from a join b on a.id = b.id", 1},
		{"inner join", "select * from a INNER JOIN b on a.id = b.id", 1},
		{"left join", "select * from a LEFT JOIN b on a.id = b.id", 1},
		{"left outer join", "select * from a left outer join b on a.id = b.id", 1},
		{"right join", "select * from a Right Join b on a.id = b.id", 1},
		{"full outer join", "select * from a FULL OUTER JOIN b on a.id = b.id", 1},
		{"mixed casing", "select * from a JoIn b on a.id = b.id", 1},
		{"multiple", "a join b left join c right outer join d", 3},
		{"no joins", "select 1", 0},
		{"word boundary", "select joined, rejoin from adjoining", 0},
		{"join in comment still counts", "-- join\nselect 1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountJoins(tt.input); got != tt.want {
				t.Errorf("CountJoins(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripPlaceholders(t *testing.T) {
	got := StripPlaceholders("select * from {schema_orders} o join {schema_items} i on o.id = i.id")
	want := "select * from schema_orders o join schema_items i on o.id = i.id"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripPlaceholdersNoop(t *testing.T) {
	input := "select * from orders"
	if got := StripPlaceholders(input); got != input {
		t.Errorf("got %q, want unchanged input", got)
	}
}

func TestPatchCTEOnly(t *testing.T) {
	input := "WITH a AS (select 1), b AS (select 2)"
	got := patchCTEOnly(input)
	want := input + "\nselect * from b"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPatchCTEOnlyNoCTE(t *testing.T) {
	if got := patchCTEOnly("select 1"); got != "" {
		t.Errorf("expected empty patch, got %q", got)
	}
}
