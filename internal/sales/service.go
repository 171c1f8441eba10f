package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/pkg/db/models"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
)

// Repository persists recorded sales.
type Repository interface {
	Create(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByStore(ctx context.Context, params ListSalesParams) ([]models.Sale, error)
	StatsByStore(ctx context.Context, storeID uuid.UUID) (StatsResult, error)
}

// ServiceParams groups dependencies for the sales service.
type ServiceParams struct {
	Repo Repository
}

// Service records finalized sales and answers listing/aggregate queries.
// Totals are always recomputed here from the submitted lines; client-side
// previews are advisory only.
type Service struct {
	repo Repository
}

// NewService builds a sales service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Quote computes a preview of the sale summary without recording anything.
func (s *Service) Quote(items []LineItem, payments []Payment) Totals {
	return ComputeTotals(items, payments)
}

// CreateSale validates the submission, recomputes totals server-side,
// applies the cash auto-fill convention when no payments were entered,
// and persists the sale with its lines.
func (s *Service) CreateSale(ctx context.Context, input CreateSaleInput) (*models.Sale, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
	}
	if err := ValidateItems(input.Items); err != nil {
		return nil, err
	}
	if err := ValidatePayments(input.Payments); err != nil {
		return nil, err
	}

	payments := FillCashPayment(input.Items, input.Payments)
	totals := ComputeTotals(input.Items, payments)

	if totals.AmountPaid.LessThan(totals.GrandTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payments do not cover the sale total").
			WithDetails(map[string]any{
				"grand_total": totals.GrandTotal.String(),
				"amount_paid": totals.AmountPaid.String(),
			})
	}

	sale := buildSale(input, payments, totals)
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist sale")
	}
	return sale, nil
}

// GetSale loads a recorded sale with its lines.
func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	if sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return sale, nil
}

// ListSales returns recorded sales for a store, newest first.
func (s *Service) ListSales(ctx context.Context, params ListSalesParams) ([]models.Sale, error) {
	if params.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	sales, err := s.repo.ListByStore(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return sales, nil
}

// Stats aggregates the store's recorded sales for the dashboard.
func (s *Service) Stats(ctx context.Context, storeID uuid.UUID) (StatsResult, error) {
	if storeID == uuid.Nil {
		return StatsResult{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	stats, err := s.repo.StatsByStore(ctx, storeID)
	if err != nil {
		return StatsResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales")
	}
	if stats.SaleCount > 0 {
		stats.AverageSale = stats.TotalRevenue.Div(decimal.NewFromInt(stats.SaleCount)).Round(2)
	} else {
		stats.AverageSale = decimal.Zero
	}
	return stats, nil
}

func buildSale(input CreateSaleInput, payments []Payment, totals Totals) *models.Sale {
	items := make([]models.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.SaleItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
		})
	}

	paymentRows := make([]models.SalePayment, 0, len(payments))
	for _, payment := range payments {
		paymentRows = append(paymentRows, models.SalePayment{
			ID:     uuid.New(),
			Type:   payment.Method,
			Amount: payment.Amount,
		})
	}

	return &models.Sale{
		ID:            uuid.New(),
		StoreID:       input.StoreID,
		WarehouseID:   input.WarehouseID,
		DiscountID:    input.DiscountID,
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.GrandTotal,
		AmountPaid:    totals.AmountPaid,
		ChangeDue:     totals.ChangeDue,
		Note:          input.Note,
		Items:         items,
		Payments:      paymentRows,
	}
}
