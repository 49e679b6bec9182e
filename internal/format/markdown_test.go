package format

import "testing"

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"日曆", 2},
		{"📅", 2}, // surrogate pair
		{"a📅b", 4},
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.in); got != tt.want {
			t.Errorf("UTF16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseMarkdown(t *testing.T) {
	t.Run("bold", func(t *testing.T) {
		res := ParseMarkdown("a **bold** word")
		if res.Text != "a bold word" {
			t.Errorf("got text %q", res.Text)
		}
		if len(res.Entities) != 1 {
			t.Fatalf("got %d entities, want 1", len(res.Entities))
		}
		e := res.Entities[0]
		if e.Type != "bold" || e.Offset != 2 || e.Length != 4 {
			t.Errorf("got entity %+v", e)
		}
	})

	t.Run("header becomes bold", func(t *testing.T) {
		res := ParseMarkdown("# Agenda\nbody")
		if res.Text != "Agenda\nbody" {
			t.Errorf("got text %q", res.Text)
		}
		if len(res.Entities) != 1 || res.Entities[0].Type != "bold" {
			t.Fatalf("got entities %+v", res.Entities)
		}
	})

	t.Run("code span", func(t *testing.T) {
		res := ParseMarkdown("run `go test` now")
		if res.Text != "run go test now" {
			t.Errorf("got text %q", res.Text)
		}
		if len(res.Entities) != 1 || res.Entities[0].Type != "code" {
			t.Fatalf("got entities %+v", res.Entities)
		}
	})

	t.Run("offsets count utf16 units", func(t *testing.T) {
		res := ParseMarkdown("📅 **today**")
		if len(res.Entities) != 1 {
			t.Fatalf("got %d entities, want 1", len(res.Entities))
		}
		// calendar emoji is two UTF-16 units plus the space
		if res.Entities[0].Offset != 3 {
			t.Errorf("got offset %d, want 3", res.Entities[0].Offset)
		}
	})

	t.Run("entities sorted by offset", func(t *testing.T) {
		res := ParseMarkdown("*a* then **b**")
		if len(res.Entities) != 2 {
			t.Fatalf("got %d entities, want 2", len(res.Entities))
		}
		if res.Entities[0].Offset > res.Entities[1].Offset {
			t.Error("entities not sorted by offset")
		}
	})

	t.Run("plain text untouched", func(t *testing.T) {
		res := ParseMarkdown("no markup here")
		if res.Text != "no markup here" || len(res.Entities) != 0 {
			t.Errorf("got %q with %d entities", res.Text, len(res.Entities))
		}
	})
}
