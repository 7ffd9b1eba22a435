package seating

import "github.com/iliyamo/cineweb-backoffice/internal/model"

// Occupancy is the set of seat codes already sold for one session.
type Occupancy map[string]struct{}

// Resolve filters tickets down to sessionID and collects their seat codes.
// An unknown session or an empty ticket list yields an empty set.
func Resolve(sessionID uint64, tickets []model.Ticket) Occupancy {
	occ := make(Occupancy)
	for _, t := range tickets {
		if t.SessionID != sessionID {
			continue
		}
		occ[NormalizeCode(t.SeatCode)] = struct{}{}
	}
	return occ
}

// Has reports whether the seat is taken.
func (o Occupancy) Has(code string) bool {
	_, ok := o[NormalizeCode(code)]
	return ok
}

// Add marks extra seats as taken, e.g. seats held by another checkout.
func (o Occupancy) Add(codes ...string) {
	for _, c := range codes {
		o[NormalizeCode(c)] = struct{}{}
	}
}

// Clone returns an independent copy.
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}
