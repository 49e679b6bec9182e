package calendar

import (
	"testing"
	"time"
)

func occ(id string, startHour, startMin, endHour, endMin int) Occurrence {
	day := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	return Occurrence{
		ID:    id,
		Date:  day,
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestLayout_Disjoint(t *testing.T) {
	slots := Layout([]Occurrence{
		occ("a", 9, 0, 10, 0),
		occ("b", 10, 0, 11, 0),
	})

	for _, id := range []string{"a", "b"} {
		s, ok := slots[id]
		if !ok {
			t.Fatalf("no slot for %q", id)
		}
		if s.Column != 0 || s.Columns != 1 {
			t.Errorf("%q: got column %d/%d, want 0/1", id, s.Column, s.Columns)
		}
	}
}

func TestLayout_Overlapping(t *testing.T) {
	slots := Layout([]Occurrence{
		occ("a", 9, 0, 11, 0),
		occ("b", 10, 0, 12, 0),
	})

	a, b := slots["a"], slots["b"]
	if a.Column == b.Column {
		t.Errorf("overlapping occurrences share column %d", a.Column)
	}
	if a.Columns != 2 || b.Columns != 2 {
		t.Errorf("got column counts %d and %d, want 2", a.Columns, b.Columns)
	}
}

func TestLayout_ColumnReuse(t *testing.T) {
	// "c" starts after "a" ends, so it reuses column 0 even though "b"
	// is still open in column 1.
	slots := Layout([]Occurrence{
		occ("a", 9, 0, 11, 0),
		occ("b", 10, 0, 12, 0),
		occ("c", 11, 30, 13, 0),
	})

	if slots["a"].Column != 0 || slots["c"].Column != 0 {
		t.Errorf("expected a and c in column 0, got %d and %d", slots["a"].Column, slots["c"].Column)
	}
	if slots["b"].Column != 1 {
		t.Errorf("expected b in column 1, got %d", slots["b"].Column)
	}
	if slots["c"].Columns != 2 {
		t.Errorf("got %d columns, want 2", slots["c"].Columns)
	}
}

func TestLayout_DayWideColumnCount(t *testing.T) {
	// A lone morning event shares the day-wide denominator with the
	// afternoon cluster; the count is not minimized per cluster.
	slots := Layout([]Occurrence{
		occ("lone", 8, 0, 9, 0),
		occ("x", 14, 0, 16, 0),
		occ("y", 15, 0, 17, 0),
	})

	if slots["lone"].Columns != 2 {
		t.Errorf("lone event got %d columns, want day-wide 2", slots["lone"].Columns)
	}
}

func TestLayout_TieBreakKeepsInputOrder(t *testing.T) {
	slots := Layout([]Occurrence{
		occ("first", 9, 0, 10, 0),
		occ("second", 9, 0, 10, 0),
	})

	if slots["first"].Column != 0 {
		t.Errorf("first input should take column 0, got %d", slots["first"].Column)
	}
	if slots["second"].Column != 1 {
		t.Errorf("second input should take column 1, got %d", slots["second"].Column)
	}
}

func TestLayout_Empty(t *testing.T) {
	if slots := Layout(nil); len(slots) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(slots))
	}
}

func TestLayout_SkipsMissingInstants(t *testing.T) {
	missing := Occurrence{ID: "m", Date: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)}
	slots := Layout([]Occurrence{missing, occ("a", 9, 0, 10, 0)})

	if _, ok := slots["m"]; ok {
		t.Error("occurrence without instants should not be placed")
	}
	if s := slots["a"]; s.Column != 0 || s.Columns != 1 {
		t.Errorf("got %d/%d for a, want 0/1", s.Column, s.Columns)
	}
}
