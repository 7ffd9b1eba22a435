package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/iliyamo/cineweb-backoffice/internal/apiclient"
	"github.com/iliyamo/cineweb-backoffice/internal/model"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

func renderLayout(w io.Writer, l seating.Layout) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("capacity %d, %d per row", l.Capacity, l.SeatsPerRow))
	header := table.Row{"Row"}
	for i := 1; i <= l.SeatsPerRow; i++ {
		header = append(header, i)
	}
	t.AppendHeader(header)
	for _, r := range l.Rows {
		row := table.Row{r.Label}
		for _, code := range r.Seats {
			row = append(row, code)
		}
		t.AppendRow(row)
	}
	t.Render()
}

// seatMark is the cell text for a seat: its code when free, XX when sold.
func seatMark(c seating.Cell) string {
	switch c.State {
	case seating.Occupied:
		return "XX"
	case seating.Selected:
		return "[" + c.Code + "]"
	}
	return c.Code
}

func renderSeatMap(w io.Writer, s apiclient.SessionSeats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("session %d", s.SessionID))
	for _, r := range s.SeatMap.Rows {
		row := table.Row{r.Label}
		for _, c := range r.Cells {
			row = append(row, seatMark(c))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("free %d", s.SeatMap.Free), fmt.Sprintf("sold %d", s.SeatMap.Occupied)})
	t.Style().Options.SeparateRows = true
	t.Render()
}

func renderSales(w io.Writer, tickets []model.TicketDetail, stats model.TicketStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Movie", "Room", "Date", "Time", "Seat", "Kind", "Price"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
		{Number: 8, Align: text.AlignRight},
	})
	for _, tk := range tickets {
		t.AppendRow(table.Row{tk.ID, tk.MovieTitle, tk.RoomNumber, tk.SessionDate, tk.SessionTime, tk.SeatCode, tk.Kind, tk.Price.String()})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tickets", stats.Total), "", "", "", fmt.Sprintf("full %d", stats.Full), fmt.Sprintf("half %d", stats.Half), stats.Revenue.String()})
	t.Render()
}
