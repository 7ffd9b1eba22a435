package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cineweb-backoffice/internal/apiclient"
	"github.com/iliyamo/cineweb-backoffice/internal/seating"
)

var version = "dev"

type options struct {
	api      string
	operator string
	timeout  time.Duration
}

func (o *options) client() *apiclient.Client {
	c := apiclient.New(o.api)
	c.Operator = o.operator
	c.HTTP.Timeout = o.timeout
	return c
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "cinectl",
		Short:         "CineWeb back-office CLI",
		Long:          `Inspect seat layouts, session seat maps and ticket sales from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	defaultAPI := os.Getenv("CINEWEB_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&opts.api, "api", defaultAPI, "base URL of the back-office API")
	root.PersistentFlags().StringVar(&opts.operator, "operator", os.Getenv("USER"), "operator name sent as X-Operator")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout")

	root.AddCommand(newLayoutCmd(), newSeatsCmd(opts), newSalesCmd(opts), newVersionCmd())
	return root
}

func newLayoutCmd() *cobra.Command {
	var capacity int
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the seat layout generated for a room capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if capacity <= 0 {
				return fmt.Errorf("--capacity must be positive")
			}
			renderLayout(cmd.OutOrStdout(), seating.Generate(capacity))
			return nil
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 0, "room capacity (40, 64, 80, 96, 112, 128 or 160)")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func newSeatsCmd(opts *options) *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Show which seats of a session are sold",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(session, 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid --session %q", session)
			}
			seats, err := opts.client().Seats(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderSeatMap(cmd.OutOrStdout(), seats)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "session id")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newSalesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sales",
		Short: "List sold tickets with totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			tickets, err := c.Tickets(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			renderSales(cmd.OutOrStdout(), tickets, stats)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of cinectl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cinectl %s\n", version)
		},
	}
}
