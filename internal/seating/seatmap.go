package seating

import (
	"encoding/json"
	"fmt"

	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
)

// State is what an operator sees for one seat.
type State int

const (
	Free State = iota
	Occupied
	Selected
)

func (s State) String() string {
	switch s {
	case Occupied:
		return "occupied"
	case Selected:
		return "selected"
	default:
		return "free"
	}
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON decodes a state name.
func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "free":
		*s = Free
	case "occupied":
		*s = Occupied
	case "selected":
		*s = Selected
	default:
		return fmt.Errorf("seating: unknown seat state %q", name)
	}
	return nil
}

// Selection answers which seats the operator currently holds in a cart.
type Selection interface {
	KindOf(code string) (pricing.Kind, bool)
}

// Cell is a single seat in a seat map.  Kind is only set when the seat is
// Selected.
type Cell struct {
	Code  string       `json:"code"`
	State State        `json:"state"`
	Kind  pricing.Kind `json:"kind,omitempty"`
}

// MapRow is a row of cells.
type MapRow struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// SeatMap is the per-seat state of a layout for one render.
type SeatMap struct {
	Rows     []MapRow `json:"rows"`
	Free     int      `json:"free"`
	Occupied int      `json:"occupied"`
	Selected int      `json:"selected"`
}

// BuildMap computes the state of every seat of the layout.  Occupied wins
// over Selected, so a seat sold after it was put in a cart never shows as
// selectable.  sel may be nil.
func BuildMap(layout Layout, occupied Occupancy, sel Selection) SeatMap {
	m := SeatMap{Rows: make([]MapRow, 0, len(layout.Rows))}
	for _, r := range layout.Rows {
		row := MapRow{Label: r.Label, Cells: make([]Cell, 0, len(r.Seats))}
		for _, code := range r.Seats {
			cell := Cell{Code: code}
			switch {
			case occupied.Has(code):
				cell.State = Occupied
				m.Occupied++
			case sel != nil:
				if kind, ok := sel.KindOf(code); ok {
					cell.State = Selected
					cell.Kind = kind
					m.Selected++
				} else {
					m.Free++
				}
			default:
				m.Free++
			}
			row.Cells = append(row.Cells, cell)
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// Lookup returns the cell for a seat code.
func (m SeatMap) Lookup(code string) (Cell, bool) {
	code = NormalizeCode(code)
	for _, r := range m.Rows {
		for _, c := range r.Cells {
			if c.Code == code {
				return c, true
			}
		}
	}
	return Cell{}, false
}
