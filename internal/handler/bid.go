// Package handler exposes the bidding API over HTTP.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/model"
	"github.com/iliyamo/hotel-bidding/internal/report"
	"github.com/iliyamo/hotel-bidding/internal/repository"
	"github.com/iliyamo/hotel-bidding/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// BidHandler serves bid submission and inventory views.
type BidHandler struct {
	svc *service.BidService
}

// NewBidHandler panics when svc is nil.
func NewBidHandler(svc *service.BidService) *BidHandler {
	if svc == nil {
		panic("nil service passed to NewBidHandler")
	}
	return &BidHandler{svc: svc}
}

// bidRequest accepts the price either as a JSON number or as a string such
// as "280.00".
type bidRequest struct {
	Price json.RawMessage `json:"price"`
}

// TierInventory is one row of the inventory response.
type TierInventory struct {
	Tier      string `json:"tier"`
	Initial   int    `json:"initial"`
	Remaining int    `json:"remaining"`
	Sold      int    `json:"sold"`
}

// PlaceBid handles POST /v1/bids.  Accepted bids answer 201, rejected bids
// 200 with the rejection message.
func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req bidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price", "message": invalidMessage()})
	}

	out, err := h.svc.Submit(c.Request().Context(), price)
	switch {
	case errors.Is(err, service.ErrInvalidPrice):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price", "message": invalidMessage()})
	case errors.Is(err, service.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "sold out", "message": allocation.SoldOutMessage})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	status := http.StatusOK
	if out.Accepted() {
		status = http.StatusCreated
	}
	return c.JSON(status, out)
}

// Inventory handles GET /v1/inventory.
func (h *BidHandler) Inventory(c echo.Context) error {
	inv := h.svc.Inventory()
	items := make([]TierInventory, 0, len(allocation.AllTiers))
	for _, t := range allocation.AllTiers {
		items = append(items, TierInventory{
			Tier:      t.String(),
			Initial:   inv.InitialOf(t),
			Remaining: inv.RemainingOf(t),
			Sold:      inv.InitialOf(t) - inv.RemainingOf(t),
		})
	}
	resp := echo.Map{
		"items":           items,
		"total_remaining": inv.TotalRemaining(),
		"sold_out":        inv.SoldOut(),
		"footer":          report.Footer(inv),
	}
	// bid counts come from the bid log; the counters above never depend on it
	if counts, err := h.svc.CountByStatus(c.Request().Context()); err == nil {
		resp["bids_by_status"] = counts
	}
	return c.JSON(http.StatusOK, resp)
}

// Tiers handles GET /v1/tiers.  The body only depends on configuration so
// it is safe to cache.
func (h *BidHandler) Tiers(c echo.Context) error {
	tiers := h.svc.Tiers()
	items := make([]echo.Map, 0, len(tiers))
	for _, t := range tiers {
		item := echo.Map{
			"tier":             t.Name,
			"rank":             t.Rank,
			"base_min":         t.BaseMin,
			"base_range":       t.BaseRange.String(),
			"initial_capacity": t.InitialCapacity,
			"overflow":         t.OverflowRule(),
		}
		if t.BaseMax != "" {
			item["base_max"] = t.BaseMax
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBids handles GET /v1/bids?limit=N, newest first.
func (h *BidHandler) ListBids(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = min(n, maxListLimit)
	}
	items, err := h.svc.Recent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.BidOutcome{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBid handles GET /v1/bids/:bid_id.
func (h *BidHandler) GetBid(c echo.Context) error {
	bidID := strings.TrimSpace(c.Param("bid_id"))
	if bidID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	out, err := h.svc.Get(c.Request().Context(), bidID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Report handles GET /v1/report.xlsx.
func (h *BidHandler) Report(c echo.Context) error {
	outcomes, err := h.svc.Recent(c.Request().Context(), maxListLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()
	var buf bytes.Buffer
	if err := report.Write(&buf, h.svc.Inventory(), h.svc.Tiers(), outcomes, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report generation failed"})
	}
	name := fmt.Sprintf("bids-%s.xlsx", now.Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

var errPrice = errors.New("price must be a number")

func parsePrice(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, errPrice
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, errPrice
		}
		s = strings.TrimSpace(str)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errPrice
	}
	return p, nil
}

func invalidMessage() string {
	return allocation.Outcome{Status: allocation.Invalid}.String()
}
