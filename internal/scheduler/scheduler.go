// Package scheduler runs the periodic housekeeping of the service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/gommon/log"
)

// Sweeper closes checkouts idle for longer than ttl and reports how many.
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) int
}

// StartSweeper sweeps every interval.  The caller owns the returned
// scheduler and must Shutdown it.
func StartSweeper(sw Sweeper, every, ttl time.Duration) (gocron.Scheduler, error) {
	if every <= 0 {
		return nil, fmt.Errorf("sweeper: interval must be positive, got %s", every)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if n := sw.Sweep(context.Background(), ttl); n > 0 {
				log.Infof("sweeper: closed %d idle checkouts", n)
			}
		}),
		gocron.WithName("checkout-sweeper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	return s, nil
}
