package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/api/middleware"
	"github.com/hisobly/hisobly-backend/api/responses"
	"github.com/hisobly/hisobly-backend/api/validators"
	"github.com/hisobly/hisobly-backend/internal/sales"
	"github.com/hisobly/hisobly-backend/pkg/db/models"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
	"github.com/hisobly/hisobly-backend/pkg/logger"
)

// SalesService is the surface the sale controllers depend on.
type SalesService interface {
	Quote(items []sales.LineItem, payments []sales.Payment) sales.Totals
	CreateSale(ctx context.Context, input sales.CreateSaleInput) (*models.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, params sales.ListSalesParams) ([]models.Sale, error)
	Stats(ctx context.Context, storeID uuid.UUID) (sales.StatsResult, error)
}

type saleItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

type salePaymentRequest struct {
	Type   enums.PaymentMethod `json:"type" validate:"required"`
	Amount decimal.Decimal     `json:"amount"`
}

type quoteSaleRequest struct {
	Items    []saleItemRequest    `json:"items"`
	Payments []salePaymentRequest `json:"payments"`
}

type createSaleRequest struct {
	WarehouseID *uuid.UUID           `json:"warehouse_id"`
	DiscountID  *uuid.UUID           `json:"discount_id"`
	Items       []saleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Payments    []salePaymentRequest `json:"payments"`
	Note        *string              `json:"note"`
}

type totalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	ChangeDue     decimal.Decimal `json:"change_due"`
}

type saleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Qty       decimal.Decimal `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

type salePaymentResponse struct {
	ID     uuid.UUID           `json:"id"`
	Type   enums.PaymentMethod `json:"type"`
	Amount decimal.Decimal     `json:"amount"`
}

type saleResponse struct {
	ID            uuid.UUID             `json:"id"`
	StoreID       uuid.UUID             `json:"store_id"`
	WarehouseID   *uuid.UUID            `json:"warehouse_id,omitempty"`
	DiscountID    *uuid.UUID            `json:"discount_id,omitempty"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	DiscountTotal decimal.Decimal       `json:"discount_total"`
	TaxTotal      decimal.Decimal       `json:"tax_total"`
	Total         decimal.Decimal       `json:"total"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	ChangeDue     decimal.Decimal       `json:"change_due"`
	Note          *string               `json:"note,omitempty"`
	Items         []saleItemResponse    `json:"items"`
	Payments      []salePaymentResponse `json:"payments"`
	CreatedAt     time.Time             `json:"created_at"`
}

type statsResponse struct {
	SaleCount    int64           `json:"sale_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AverageSale  decimal.Decimal `json:"average_sale"`
}

// SaleQuote previews the totals for an in-progress sale without recording it.
func SaleQuote(svc SalesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteSaleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals := svc.Quote(toLineItems(req.Items), toPayments(req.Payments))
		responses.WriteSuccess(w, toTotalsResponse(totals))
	}
}

// SaleCreate records a finalized sale for the active store.
func SaleCreate(svc SalesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createSaleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.CreateSale(r.Context(), sales.CreateSaleInput{
			StoreID:     storeID,
			WarehouseID: req.WarehouseID,
			DiscountID:  req.DiscountID,
			Items:       toLineItems(req.Items),
			Payments:    toPayments(req.Payments),
			Note:        req.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toSaleResponse(sale))
	}
}

// SalesList returns the active store's recorded sales, newest first.
func SalesList(svc SalesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListSales(r.Context(), sales.ListSalesParams{
			StoreID: storeID,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]saleResponse, 0, len(list))
		for i := range list {
			out = append(out, toSaleResponse(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// SaleDetail returns one recorded sale with its lines.
func SaleDetail(svc SalesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawSaleID := strings.TrimSpace(chi.URLParam(r, "saleId"))
		saleID, err := uuid.Parse(rawSaleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale id"))
			return
		}

		sale, err := svc.GetSale(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sale.StoreID != storeID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found"))
			return
		}

		responses.WriteSuccess(w, toSaleResponse(sale))
	}
}

// SalesStats aggregates the active store's sales for the dashboard.
func SalesStats(svc SalesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, statsResponse{
			SaleCount:    stats.SaleCount,
			TotalRevenue: stats.TotalRevenue,
			AverageSale:  stats.AverageSale,
		})
	}
}

func parseStoreID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "active store required")
	}
	storeID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid store context")
	}
	return storeID, nil
}

func toLineItems(items []saleItemRequest) []sales.LineItem {
	out := make([]sales.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, sales.LineItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
		})
	}
	return out
}

func toPayments(payments []salePaymentRequest) []sales.Payment {
	out := make([]sales.Payment, 0, len(payments))
	for _, payment := range payments {
		out = append(out, sales.Payment{
			Method: payment.Type,
			Amount: payment.Amount,
		})
	}
	return out
}

func toTotalsResponse(totals sales.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TaxTotal:      totals.TaxTotal,
		GrandTotal:    totals.GrandTotal,
		AmountPaid:    totals.AmountPaid,
		ChangeDue:     totals.ChangeDue,
	}
}

func toSaleResponse(sale *models.Sale) saleResponse {
	items := make([]saleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, saleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
		})
	}

	payments := make([]salePaymentResponse, 0, len(sale.Payments))
	for _, payment := range sale.Payments {
		payments = append(payments, salePaymentResponse{
			ID:     payment.ID,
			Type:   payment.Type,
			Amount: payment.Amount,
		})
	}

	return saleResponse{
		ID:            sale.ID,
		StoreID:       sale.StoreID,
		WarehouseID:   sale.WarehouseID,
		DiscountID:    sale.DiscountID,
		Subtotal:      sale.Subtotal,
		DiscountTotal: sale.DiscountTotal,
		TaxTotal:      sale.TaxTotal,
		Total:         sale.Total,
		AmountPaid:    sale.AmountPaid,
		ChangeDue:     sale.ChangeDue,
		Note:          sale.Note,
		Items:         items,
		Payments:      payments,
		CreatedAt:     sale.CreatedAt,
	}
}
