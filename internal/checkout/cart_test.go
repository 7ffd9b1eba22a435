package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cineweb-backoffice/internal/pricing"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

func newTestCart(occupied ...string) *Cart {
	occ := seating.Occupancy{}
	occ.Add(occupied...)
	return NewCart(seating.Generate(40), occ)
}

func TestCart_SelectToggles(t *testing.T) {
	c := newTestCart()

	assert.Equal(t, Added, c.Select("B3"))
	require.Equal(t, []Entry{{SeatCode: "B3", Kind: pricing.KindFull}}, c.Entries())

	assert.Equal(t, Removed, c.Select("b3"))
	assert.Empty(t, c.Entries())
	assert.Equal(t, pricing.Money(0), c.Total())
}

func TestCart_SelectRejects(t *testing.T) {
	c := newTestCart("A1")

	assert.Equal(t, Rejected, c.Select("A1"), "occupied")
	assert.Equal(t, Rejected, c.Select("Z9"), "unknown row")
	assert.Equal(t, Rejected, c.Select("A6"), "outside the 5 seats per row")
	assert.Equal(t, 0, c.Len())
}

func TestCart_SetKindChangesTotal(t *testing.T) {
	c := newTestCart()
	c.Select("A1")
	assert.Equal(t, "34.00", c.Total().String())

	assert.True(t, c.SetKind("A1", pricing.KindHalf))
	assert.Equal(t, "17.00", c.Total().String())

	assert.False(t, c.SetKind("A2", pricing.KindHalf), "not in cart")
	assert.False(t, c.SetKind("A1", pricing.Kind("student")), "unknown kind")
	kind, ok := c.KindOf("A1")
	require.True(t, ok)
	assert.Equal(t, pricing.KindHalf, kind)
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	c := newTestCart()
	c.Select("C2")
	c.Select("C3")

	assert.True(t, c.Remove("C2"))
	assert.False(t, c.Remove("C2"))
	assert.False(t, c.Remove("H5"))
	assert.Equal(t, []Entry{{SeatCode: "C3", Kind: pricing.KindFull}}, c.Entries())
}

func TestCart_EntriesKeepInsertionOrder(t *testing.T) {
	c := newTestCart()
	for _, code := range []string{"D4", "A1", "H5", "B2"} {
		require.Equal(t, Added, c.Select(code))
	}
	c.SetKind("A1", pricing.KindHalf)

	got := c.Entries()
	codes := make([]string, len(got))
	for i, e := range got {
		codes[i] = e.SeatCode
	}
	assert.Equal(t, []string{"D4", "A1", "H5", "B2"}, codes)
	assert.Equal(t, pricing.Money(3*3400+1700), c.Total())

	got[0].SeatCode = "mutated"
	assert.Equal(t, "D4", c.Entries()[0].SeatCode)
}

func TestCart_BlockDropsNewlyOccupied(t *testing.T) {
	c := newTestCart()
	c.Select("A1")
	c.Select("A2")
	c.Select("A3")

	occ := seating.Occupancy{}
	occ.Add("A2", "A3")
	assert.Equal(t, []string{"A2", "A3"}, c.Block(occ))
	assert.Equal(t, []Entry{{SeatCode: "A1", Kind: pricing.KindFull}}, c.Entries())
	assert.Equal(t, Rejected, c.Select("A2"))
}
