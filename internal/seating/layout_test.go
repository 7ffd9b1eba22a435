package seating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

func TestGenerate(t *testing.T) {
	t.Run("should emit exactly capacity unique seats for every preset", func(t *testing.T) {
		for _, capacity := range seating.Presets {
			codes := seating.Generate(capacity).Codes()
			require.Len(t, codes, capacity)

			seen := map[string]bool{}
			for _, c := range codes {
				assert.False(t, seen[c], "duplicate seat %s for capacity %d", c, capacity)
				seen[c] = true
			}
		}
	})

	t.Run("should lay out 40 seats as 8 rows of 5", func(t *testing.T) {
		layout := seating.Generate(40)

		require.Len(t, layout.Rows, 8)
		assert.Equal(t, 5, layout.SeatsPerRow)
		assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5"}, layout.Rows[0].Seats)
		for i, r := range layout.Rows {
			assert.Equal(t, seating.RowLabels[i], r.Label)
			assert.Len(t, r.Seats, 5)
		}
	})

	t.Run("should cut the last row short when capacity is not a multiple of 8", func(t *testing.T) {
		layout := seating.Generate(100)

		assert.Equal(t, 13, layout.SeatsPerRow)
		require.Len(t, layout.Rows, 8)
		for _, r := range layout.Rows[:7] {
			assert.Len(t, r.Seats, 13)
		}
		assert.Len(t, layout.Rows[7].Seats, 9)
		assert.Equal(t, "H9", layout.Rows[7].Seats[8])
		assert.Len(t, layout.Codes(), 100)
	})

	t.Run("should not emit rows that are not needed", func(t *testing.T) {
		layout := seating.Generate(10)

		// 2 seats per row, 5 rows
		require.Len(t, layout.Rows, 5)
		assert.Equal(t, "E", layout.Rows[4].Label)
		assert.Len(t, layout.Codes(), 10)
	})

	t.Run("should be deterministic", func(t *testing.T) {
		assert.Equal(t, seating.Generate(112), seating.Generate(112))
	})

	t.Run("should return an empty layout for non-positive capacity", func(t *testing.T) {
		assert.Empty(t, seating.Generate(0).Codes())
		assert.Empty(t, seating.Generate(-3).Rows)
	})
}

func TestLayout_Contains(t *testing.T) {
	layout := seating.Generate(100)

	assert.True(t, layout.Contains("A13"))
	assert.True(t, layout.Contains(" h9"))
	assert.False(t, layout.Contains("H10"))
	assert.False(t, layout.Contains("A14"))
	assert.False(t, layout.Contains("I1"))
	assert.False(t, layout.Contains("A0"))
	assert.False(t, layout.Contains("A01"))
	assert.False(t, layout.Contains("A+1"))
	assert.False(t, layout.Contains(""))
}
