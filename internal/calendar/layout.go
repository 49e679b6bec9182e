package calendar

import "sort"

// Slot is the column assignment for one occurrence within a day view.
// Columns is the day-wide column count shared by every slot that day; the
// renderer divides the day's width uniformly by it.
type Slot struct {
	Column  int
	Columns int
}

// Layout assigns each of one day's occurrences a column so that overlapping
// time ranges render side by side. Greedy first-fit over start-sorted
// occurrences: an occurrence joins the first column none of whose members
// overlap it in time, or opens a new column. The sort is stable, so
// occurrences starting at the same instant keep their input order.
//
// Occurrences missing either instant are skipped rather than placed; they
// get no slot and the renderer falls back to full width for them.
func Layout(occs []Occurrence) map[string]Slot {
	slots := make(map[string]Slot, len(occs))
	if len(occs) == 0 {
		return slots
	}

	sorted := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		if o.Start.IsZero() || o.End.IsZero() {
			continue
		}
		sorted = append(sorted, o)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var columns [][]Occurrence
	for _, occ := range sorted {
		placed := false
		for i := range columns {
			if fitsColumn(columns[i], occ) {
				columns[i] = append(columns[i], occ)
				slots[occ.ID] = Slot{Column: i}
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []Occurrence{occ})
			slots[occ.ID] = Slot{Column: len(columns) - 1}
		}
	}

	// The column count is uniform for the whole day, not minimized per
	// overlap cluster.
	total := len(columns)
	for id, s := range slots {
		s.Columns = total
		slots[id] = s
	}
	return slots
}

func fitsColumn(column []Occurrence, occ Occurrence) bool {
	for _, member := range column {
		if occ.Start.Before(member.End) && member.Start.Before(occ.End) {
			return false
		}
	}
	return true
}
