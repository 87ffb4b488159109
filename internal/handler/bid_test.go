package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/model"
	"github.com/iliyamo/hotel-bidding/internal/service"
)

func newHandler(t *testing.T, caps allocation.Capacities) *BidHandler {
	t.Helper()
	e, err := allocation.New(caps)
	require.NoError(t, err)
	return NewBidHandler(service.NewBidService(service.Deps{Engine: e}))
}

func do(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return doParam(t, h, method, target, body, "", "")
}

func doParam(t *testing.T, h echo.HandlerFunc, method, target, body, name, value string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if name != "" {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
	require.NoError(t, h(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestPlaceBidAccepted(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	rec := do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 300}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "ACCEPTED", body["status"])
	assert.Equal(t, "Suite", body["tier"])
	assert.Equal(t, float64(9), body["remaining"])
	assert.Equal(t, "ACCEPTED: Suite booked at $300.00. Remaining: 9", body["message"])
}

func TestPlaceBidStringPrice(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	rec := do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": " 280.00 "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Suite", decode(t, rec)["tier"])
}

func TestPlaceBidRejected(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	rec := do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 70}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "REJECTED", body["status"])
	assert.Equal(t, "REJECTED: No room type available for $70.00. Try another price.", body["message"])
}

func TestPlaceBidInvalid(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	for _, body := range []string{`{}`, `{"price": null}`, `{"price": "abc"}`, `{"price": -5}`, `{"price": 0}`, `{"price": "NaN"}`, `{"price": 1e17}`, `{"price": 1000000.01}`, `not json`} {
		rec := do(t, h.PlaceBid, http.MethodPost, "/v1/bids", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, 70, h.svc.Inventory().TotalRemaining())
}

func TestPlaceBidSoldOut(t *testing.T) {
	h := newHandler(t, allocation.Capacities{Standard: 1})
	rec := do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 100}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 100}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInventory(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 200}`)

	rec := do(t, h.Inventory, http.MethodGet, "/v1/inventory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(69), body["total_remaining"])
	assert.Equal(t, false, body["sold_out"])
	assert.Equal(t, "Rooms left: 69", body["footer"])

	items := body["items"].([]any)
	require.Len(t, items, 3)
	deluxe := items[1].(map[string]any)
	assert.Equal(t, "Deluxe", deluxe["tier"])
	assert.Equal(t, float64(14), deluxe["remaining"])
	assert.Equal(t, float64(1), deluxe["sold"])
}

func TestInventorySoldOutFooter(t *testing.T) {
	h := newHandler(t, allocation.Capacities{})
	body := decode(t, do(t, h.Inventory, http.MethodGet, "/v1/inventory", ""))
	assert.Equal(t, true, body["sold_out"])
	assert.Equal(t, "SOLD OUT — No more rooms available.", body["footer"])
}

func TestTiers(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	body := decode(t, do(t, h.Tiers, http.MethodGet, "/v1/tiers", ""))
	items := body["items"].([]any)
	require.Len(t, items, 3)

	suite := items[0].(map[string]any)
	assert.Equal(t, "Suite", suite["tier"])
	assert.Equal(t, "280.00", suite["base_min"])
	assert.NotContains(t, suite, "base_max")
	assert.Equal(t, "none", suite["overflow"])

	standard := items[2].(map[string]any)
	assert.Equal(t, "150.00", standard["base_max"])
	assert.Equal(t, float64(45), standard["initial_capacity"])
}

func TestListBids(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	for _, p := range []string{"300", "200", "90"} {
		do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": `+p+`}`)
	}

	body := decode(t, do(t, h.ListBids, http.MethodGet, "/v1/bids?limit=2", ""))
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Standard", items[0].(map[string]any)["tier"])

	rec := do(t, h.ListBids, http.MethodGet, "/v1/bids?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = decode(t, do(t, h.ListBids, http.MethodGet, "/v1/bids", ""))
	assert.Len(t, body["items"], 3)
}

func TestReport(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 300}`)

	rec := do(t, h.Report, http.MethodGet, "/v1/report.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"bids-")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := do(t, Health(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, Health(pinger{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, Health(pinger{err: errors.New("down")}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewBidHandlerPanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() { NewBidHandler(nil) })
}

func TestInventoryCountsBids(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 300}`)
	do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 20}`)

	body := decode(t, do(t, h.Inventory, http.MethodGet, "/v1/inventory", ""))
	assert.Equal(t, map[string]any{"ACCEPTED": float64(1), "REJECTED": float64(1)}, body["bids_by_status"])
}

func TestGetBid(t *testing.T) {
	h := newHandler(t, allocation.DefaultCapacities)
	placed := decode(t, do(t, h.PlaceBid, http.MethodPost, "/v1/bids", `{"price": 200}`))
	bidID := placed["bid_id"].(string)

	rec := doParam(t, h.GetBid, http.MethodGet, "/v1/bids/"+bidID, "", "bid_id", bidID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deluxe", decode(t, rec)["tier"])

	rec = doParam(t, h.GetBid, http.MethodGet, "/v1/bids/nope", "", "bid_id", "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doParam(t, h.GetBid, http.MethodGet, "/v1/bids/%20", "", "bid_id", " ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, *model.BidOutcome) error { return nil }
func (brokenStore) ListRecent(context.Context, int) ([]model.BidOutcome, error) {
	return nil, errors.New("db down")
}
func (brokenStore) GetByBidID(context.Context, string) (*model.BidOutcome, error) {
	return nil, errors.New("db down")
}
func (brokenStore) CountByStatus(context.Context) (map[string]int, error) {
	return nil, errors.New("db down")
}

func TestStoreFailures(t *testing.T) {
	e, err := allocation.New(allocation.DefaultCapacities)
	require.NoError(t, err)
	h := NewBidHandler(service.NewBidService(service.Deps{Engine: e, Store: brokenStore{}}))

	rec := doParam(t, h.GetBid, http.MethodGet, "/v1/bids/x", "", "bid_id", "x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, h.ListBids, http.MethodGet, "/v1/bids", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, h.Inventory, http.MethodGet, "/v1/inventory", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotContains(t, body, "bids_by_status")
	assert.Equal(t, float64(70), body["total_remaining"])
}
