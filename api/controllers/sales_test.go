package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/api/middleware"
	"github.com/hisobly/hisobly-backend/internal/sales"
	"github.com/hisobly/hisobly-backend/pkg/db/models"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
)

type stubSalesService struct {
	createdInput sales.CreateSaleInput
	createSale   *models.Sale
	createErr    error
	getSale      *models.Sale
	getErr       error
	list         []models.Sale
	listErr      error
	listParams   sales.ListSalesParams
	stats        sales.StatsResult
	statsErr     error
}

func (s *stubSalesService) Quote(items []sales.LineItem, payments []sales.Payment) sales.Totals {
	return sales.ComputeTotals(items, payments)
}

func (s *stubSalesService) CreateSale(_ context.Context, input sales.CreateSaleInput) (*models.Sale, error) {
	s.createdInput = input
	return s.createSale, s.createErr
}

func (s *stubSalesService) GetSale(_ context.Context, _ uuid.UUID) (*models.Sale, error) {
	return s.getSale, s.getErr
}

func (s *stubSalesService) ListSales(_ context.Context, params sales.ListSalesParams) ([]models.Sale, error) {
	s.listParams = params
	return s.list, s.listErr
}

func (s *stubSalesService) Stats(_ context.Context, _ uuid.UUID) (sales.StatsResult, error) {
	return s.stats, s.statsErr
}

func storeContext(r *http.Request, storeID uuid.UUID) *http.Request {
	return r.WithContext(middleware.WithStoreID(r.Context(), storeID.String()))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestSaleQuote(t *testing.T) {
	handler := SaleQuote(&stubSalesService{}, nil)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","qty":"3","price":"10000","discount":"1000","tax_rate":"12"}],"payments":[{"type":"cash","amount":"31000"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/quote", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var totals totalsResponse
	decodeData(t, rec, &totals)
	if !totals.GrandTotal.Equal(decimal.RequireFromString("30240")) {
		t.Fatalf("grand total = %s, want 30240", totals.GrandTotal)
	}
	if !totals.ChangeDue.Equal(decimal.RequireFromString("760")) {
		t.Fatalf("change due = %s, want 760", totals.ChangeDue)
	}
}

func TestSaleQuoteRejectsUnknownFields(t *testing.T) {
	handler := SaleQuote(&stubSalesService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/quote", bytes.NewBufferString(`{"surprise":true}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaleCreate(t *testing.T) {
	storeID := uuid.New()
	svc := &stubSalesService{
		createSale: &models.Sale{ID: uuid.New(), StoreID: storeID, Total: decimal.RequireFromString("30240")},
	}
	handler := SaleCreate(svc, nil)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","qty":"3","price":"10000","discount":"1000","tax_rate":"12"}]}`
	req := storeContext(httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(body)), storeID)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.createdInput.StoreID != storeID {
		t.Fatalf("store id = %s, want %s", svc.createdInput.StoreID, storeID)
	}
	if len(svc.createdInput.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(svc.createdInput.Items))
	}
}

func TestSaleCreateRequiresStoreContext(t *testing.T) {
	handler := SaleCreate(&stubSalesService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(`{"items":[]}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestSaleCreateRequiresItems(t *testing.T) {
	handler := SaleCreate(&stubSalesService{}, nil)

	req := storeContext(httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(`{"items":[]}`)), uuid.New())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaleCreateRejectsItemWithoutProduct(t *testing.T) {
	handler := SaleCreate(&stubSalesService{}, nil)

	body := `{"items":[{"qty":"1","price":"1000"}]}`
	req := storeContext(httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(body)), uuid.New())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaleCreatePropagatesServiceError(t *testing.T) {
	svc := &stubSalesService{createErr: pkgerrors.New(pkgerrors.CodeValidation, "payments do not cover the sale total")}
	handler := SaleCreate(svc, nil)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","qty":"1","price":"1000"}]}`
	req := storeContext(httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(body)), uuid.New())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSaleDetailScopedToStore(t *testing.T) {
	storeID := uuid.New()
	saleID := uuid.New()
	svc := &stubSalesService{
		getSale: &models.Sale{ID: saleID, StoreID: uuid.New()},
	}

	router := chi.NewRouter()
	router.Get("/api/v1/sales/{saleId}", SaleDetail(svc, nil))

	req := storeContext(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/sales/%s", saleID), nil), storeID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for another store's sale", rec.Code)
	}
}

func TestSaleDetailInvalidID(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/v1/sales/{saleId}", SaleDetail(&stubSalesService{}, nil))

	req := storeContext(httptest.NewRequest(http.MethodGet, "/api/v1/sales/not-a-uuid", nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalesListPassesPagination(t *testing.T) {
	storeID := uuid.New()
	svc := &stubSalesService{list: []models.Sale{{ID: uuid.New(), StoreID: storeID}}}
	handler := SalesList(svc, nil)

	req := storeContext(httptest.NewRequest(http.MethodGet, "/api/v1/sales?limit=5&offset=10", nil), storeID)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.listParams.Limit != 5 || svc.listParams.Offset != 10 {
		t.Fatalf("params = %+v", svc.listParams)
	}

	var list []saleResponse
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("list = %d entries, want 1", len(list))
	}
}

func TestSalesListRejectsBadLimit(t *testing.T) {
	handler := SalesList(&stubSalesService{}, nil)

	req := storeContext(httptest.NewRequest(http.MethodGet, "/api/v1/sales?limit=9999", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalesStats(t *testing.T) {
	svc := &stubSalesService{stats: sales.StatsResult{
		SaleCount:    2,
		TotalRevenue: decimal.RequireFromString("4000"),
		AverageSale:  decimal.RequireFromString("2000"),
	}}
	handler := SalesStats(svc, nil)

	req := storeContext(httptest.NewRequest(http.MethodGet, "/api/v1/sales/stats", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stats statsResponse
	decodeData(t, rec, &stats)
	if stats.SaleCount != 2 || !stats.AverageSale.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("stats = %+v", stats)
	}
}
