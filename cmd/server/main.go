package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/cineweb-backoffice/internal/checkout"
	"github.com/iliyamo/cineweb-backoffice/internal/config"
	"github.com/iliyamo/cineweb-backoffice/internal/database"
	"github.com/iliyamo/cineweb-backoffice/internal/handler"
	"github.com/iliyamo/cineweb-backoffice/internal/hold"
	"github.com/iliyamo/cineweb-backoffice/internal/middleware"
	"github.com/iliyamo/cineweb-backoffice/internal/queue"
	"github.com/iliyamo/cineweb-backoffice/internal/repository"
	"github.com/iliyamo/cineweb-backoffice/internal/router"
	"github.com/iliyamo/cineweb-backoffice/internal/scheduler"
	"github.com/iliyamo/cineweb-backoffice/internal/service"
)

func main() {
	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	holdCfg := config.LoadHoldConfig()
	queueCfg := config.LoadQueueConfig()

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("database: apply schema: %v", err)
		}
	}

	movies := repository.NewMovieRepo(db)
	rooms := repository.NewRoomRepo(db)
	sessions := repository.NewSessionRepo(db)
	snacks := repository.NewSnackRepo(db)
	tickets := repository.NewTicketRepo(db)

	// A nil client leaves holds, caching and rate limiting off.
	rdb := config.NewRedisClient()
	var holds checkout.Holder
	if rdb != nil && holdCfg.Enabled {
		holds = hold.NewRedis(rdb, holdCfg.Prefix, holdCfg.TTL)
	}

	var events checkout.SalePublisher
	if queueCfg.PublishEnabled {
		events = service.NewPublisher(queueCfg.URL)
	}

	registry := checkout.NewRegistry()
	sweeper, err := scheduler.StartSweeper(registry, cfg.SweepEvery, cfg.CheckoutTTL)
	if err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if queueCfg.ConsumerEnabled {
		consumer := queue.SalesConsumer{URL: queueCfg.URL, Dir: queueCfg.SalesLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("sales-consumer: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s operator=%s", v.Method, v.URI, v.Status, v.Latency, middleware.OperatorID(c))
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.Operator())
	e.Use(middleware.RateLimit(rlCfg, rdb))

	router.RegisterRoutes(e, db)
	router.RegisterCatalogue(e, router.Catalogue{
		Movies:   handler.NewMovieHandler(movies),
		Rooms:    handler.NewRoomHandler(rooms),
		Sessions: handler.NewSessionHandler(sessions, tickets),
		Snacks:   handler.NewSnackHandler(snacks),
		Tickets:  handler.NewTicketHandler(tickets),
	}, middleware.NewResponseCache(cacheCfg, rdb).Middleware())
	router.RegisterCheckout(e, &handler.CheckoutHandler{
		Sessions:  sessions,
		Tickets:   tickets,
		Holds:     holds,
		Registry:  registry,
		Tokens:    checkout.NewTokens(cfg.CheckoutSecret, cfg.CheckoutTTL),
		Committer: checkout.NewCommitter(tickets, events),
	})

	go func() {
		log.Infof("listening on %s (env=%s)", cfg.Addr(), cfg.Env)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if err := sweeper.Shutdown(); err != nil {
		log.Errorf("sweeper: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
