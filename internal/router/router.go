// Package router registers the HTTP routes of the bidding API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/hotel-bidding/internal/handler"
)

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterBids registers the bidding API under /v1.  Bid submission is rate
// limited; only the tier description is cached since every other response
// reflects live inventory.
func RegisterBids(e *echo.Echo, h *handler.BidHandler, rateLimit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.POST("/bids", h.PlaceBid, rateLimit)
	g.GET("/bids", h.ListBids)
	g.GET("/bids/:bid_id", h.GetBid)
	g.GET("/inventory", h.Inventory)
	g.GET("/tiers", h.Tiers, cache)
	g.GET("/report.xlsx", h.Report)
}
