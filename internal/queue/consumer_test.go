package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = TicketsSoldEvent{
	CheckoutID: "co-1",
	SessionID:  4,
	Seats: []SoldSeat{
		{TicketID: 1, SeatCode: "C4", Kind: "full", PriceCents: 3400},
		{TicketID: 2, SeatCode: "C5", Kind: "half", PriceCents: 1700},
	},
	Count:      2,
	TotalCents: 5100,
	SoldAt:     "2025-03-14T19:00:00Z",
}

func TestFormatSale(t *testing.T) {
	assert.Equal(t,
		"[2025-03-14T19:00:00Z] Tickets sold | session_id=4 | checkout=co-1 | count=2 | total=51.00 | seats=[C4/full,C5/half]\n",
		FormatSale(sample))
}

func TestSalesConsumer_HandleAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	s := SalesConsumer{Dir: dir}
	body, err := json.Marshal(sample)
	require.NoError(t, err)

	require.NoError(t, s.Handle(body))
	require.NoError(t, s.Handle(body))

	data, err := os.ReadFile(filepath.Join(dir, SalesLogName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "session_id=4")
}

func TestSalesConsumer_HandleRejectsGarbage(t *testing.T) {
	s := SalesConsumer{Dir: t.TempDir()}

	assert.ErrorContains(t, s.Handle([]byte("{")), "unmarshal")
}
