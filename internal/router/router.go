// Package router registers the HTTP routes of the back-office API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cineweb-backoffice/internal/handler"
)

// RegisterRoutes registers the routes that sit outside /v1.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// Catalogue bundles the CRUD handlers.
type Catalogue struct {
	Movies   *handler.MovieHandler
	Rooms    *handler.RoomHandler
	Sessions *handler.SessionHandler
	Snacks   *handler.SnackHandler
	Tickets  *handler.TicketHandler
}

// RegisterCatalogue registers movies, rooms, sessions, snacks and the
// ticket report under /v1.  cache wraps the resources whose reads may be
// served from Redis; seat maps and tickets are never cached.
func RegisterCatalogue(e *echo.Echo, h Catalogue, cache echo.MiddlewareFunc) {
	movies := e.Group("/v1/movies", cache)
	movies.GET("", h.Movies.List)
	movies.POST("", h.Movies.Create)
	movies.GET("/:id", h.Movies.Get)
	movies.PUT("/:id", h.Movies.Update)
	movies.DELETE("/:id", h.Movies.Delete)

	rooms := e.Group("/v1/rooms", cache)
	rooms.GET("", h.Rooms.List)
	rooms.POST("", h.Rooms.Create)
	rooms.GET("/:id", h.Rooms.Get)
	rooms.PUT("/:id", h.Rooms.Update)
	rooms.DELETE("/:id", h.Rooms.Delete)
	rooms.GET("/:id/layout", h.Rooms.Layout)

	snacks := e.Group("/v1/snacks", cache)
	snacks.GET("", h.Snacks.List)
	snacks.POST("", h.Snacks.Create)
	snacks.GET("/:id", h.Snacks.Get)
	snacks.PUT("/:id", h.Snacks.Update)
	snacks.DELETE("/:id", h.Snacks.Delete)

	sessions := e.Group("/v1/sessions")
	sessions.GET("", h.Sessions.List)
	sessions.POST("", h.Sessions.Create)
	sessions.GET("/:id", h.Sessions.Get)
	sessions.DELETE("/:id", h.Sessions.Delete)
	sessions.GET("/:id/seats", h.Sessions.Seats)

	tickets := e.Group("/v1/tickets")
	tickets.GET("", h.Tickets.List)
	tickets.GET("/stats", h.Tickets.Stats)
	tickets.DELETE("/:id", h.Tickets.Delete)
}

// RegisterCheckout registers the seat selection flow.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler) {
	e.POST("/v1/sessions/:id/checkouts", h.Open)

	g := e.Group("/v1/checkouts/:token")
	g.GET("", h.View)
	g.DELETE("", h.Close)
	g.POST("/refresh", h.Refresh)
	g.POST("/commit", h.Commit)
	g.POST("/seats/:code", h.Toggle)
	g.PUT("/seats/:code", h.SetKind)
	g.DELETE("/seats/:code", h.Remove)
}
