// Package seating turns a room capacity into a seat layout and combines it
// with sold tickets and an operator's selection into a seat map.
package seating

import (
	"strconv"
	"strings"
)

// RowLabels is the fixed, ordered set of row labels used by every room.
var RowLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Presets are the room sizes offered when registering a room.
var Presets = []int{40, 64, 80, 96, 112, 128, 160}

// Row is one populated row of a layout.
type Row struct {
	Label string   `json:"label"`
	Seats []string `json:"seats"`
}

// Layout is the ordered seat codes of a room partitioned into rows.
type Layout struct {
	Capacity    int   `json:"capacity"`
	SeatsPerRow int   `json:"seats_per_row"`
	Rows        []Row `json:"rows"`
}

// Generate builds the layout for a room capacity.  Seats per row is
// ceil(capacity/len(RowLabels)); rows are filled in order and the last
// populated row is cut short once capacity seats have been emitted.  The
// result depends only on capacity.  Non-positive capacities yield an empty
// layout.
func Generate(capacity int) Layout {
	if capacity <= 0 {
		return Layout{Rows: []Row{}}
	}
	perRow := (capacity + len(RowLabels) - 1) / len(RowLabels)
	out := Layout{Capacity: capacity, SeatsPerRow: perRow, Rows: make([]Row, 0, len(RowLabels))}
	emitted := 0
	for _, label := range RowLabels {
		if emitted >= capacity {
			break
		}
		row := Row{Label: label, Seats: make([]string, 0, perRow)}
		for col := 1; col <= perRow && emitted < capacity; col++ {
			row.Seats = append(row.Seats, label+strconv.Itoa(col))
			emitted++
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Codes flattens the layout into its seat codes in row order.
func (l Layout) Codes() []string {
	codes := make([]string, 0, l.Capacity)
	for _, r := range l.Rows {
		codes = append(codes, r.Seats...)
	}
	return codes
}

// Contains reports whether code names a seat of this layout.
func (l Layout) Contains(code string) bool {
	label, col, ok := ParseCode(code)
	if !ok {
		return false
	}
	for _, r := range l.Rows {
		if r.Label == label {
			return col <= len(r.Seats)
		}
	}
	return false
}

// NormalizeCode trims and upper-cases a seat code: " c4" becomes "C4".
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseCode splits a normalised seat code into its row label and 1-based
// column.  It rejects anything that is not a single known row letter
// followed by a positive number.
func ParseCode(code string) (string, int, bool) {
	code = NormalizeCode(code)
	if len(code) < 2 {
		return "", 0, false
	}
	label := code[:1]
	known := false
	for _, l := range RowLabels {
		if l == label {
			known = true
			break
		}
	}
	if !known {
		return "", 0, false
	}
	col, err := strconv.Atoi(code[1:])
	if err != nil || col < 1 || code[1] == '0' || code[1] == '+' {
		return "", 0, false
	}
	return label, col, true
}
