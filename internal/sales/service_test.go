package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/pkg/db/models"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
)

type stubRepo struct {
	created    *models.Sale
	createErr  error
	findSale   *models.Sale
	findErr    error
	listSales  []models.Sale
	listErr    error
	listParams ListSalesParams
	stats      StatsResult
	statsErr   error
}

func (s *stubRepo) Create(_ context.Context, sale *models.Sale) error {
	s.created = sale
	return s.createErr
}

func (s *stubRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Sale, error) {
	return s.findSale, s.findErr
}

func (s *stubRepo) ListByStore(_ context.Context, params ListSalesParams) ([]models.Sale, error) {
	s.listParams = params
	return s.listSales, s.listErr
}

func (s *stubRepo) StatsByStore(_ context.Context, _ uuid.UUID) (StatsResult, error) {
	return s.stats, s.statsErr
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func saleInput() CreateSaleInput {
	return CreateSaleInput{
		StoreID: uuid.New(),
		Items: []LineItem{
			{ProductID: uuid.New(), Qty: dec("3"), Price: dec("10000"), Discount: dec("1000"), TaxRate: dec("12")},
		},
	}
}

func TestCreateSaleFillsCashWhenNoPayments(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	sale, err := svc.CreateSale(context.Background(), saleInput())
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if len(sale.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(sale.Payments))
	}
	if sale.Payments[0].Type != enums.PaymentMethodCash {
		t.Fatalf("payment type = %s, want cash", sale.Payments[0].Type)
	}
	if !sale.Payments[0].Amount.Equal(dec("30240")) {
		t.Fatalf("payment amount = %s, want 30240", sale.Payments[0].Amount)
	}
	if !sale.Total.Equal(dec("30240")) {
		t.Fatalf("total = %s, want 30240", sale.Total)
	}
	if !sale.ChangeDue.Equal(decimal.Zero) {
		t.Fatalf("change due = %s, want 0", sale.ChangeDue)
	}
	if repo.created != sale {
		t.Fatal("sale was not persisted")
	}
}

func TestCreateSaleRecomputesTotalsAndChange(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	input := saleInput()
	input.Payments = []Payment{{Method: enums.PaymentMethodCash, Amount: dec("31000")}}

	sale, err := svc.CreateSale(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !sale.Subtotal.Equal(dec("30000")) {
		t.Fatalf("subtotal = %s, want 30000", sale.Subtotal)
	}
	if !sale.DiscountTotal.Equal(dec("3000")) {
		t.Fatalf("discount total = %s, want 3000", sale.DiscountTotal)
	}
	if !sale.TaxTotal.Equal(dec("3240")) {
		t.Fatalf("tax total = %s, want 3240", sale.TaxTotal)
	}
	if !sale.ChangeDue.Equal(dec("760")) {
		t.Fatalf("change due = %s, want 760", sale.ChangeDue)
	}
}

func TestCreateSaleRejectsUnderpayment(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	input := saleInput()
	input.Payments = []Payment{{Method: enums.PaymentMethodCard, Amount: dec("10000")}}

	_, err := svc.CreateSale(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	tests := []struct {
		name  string
		mutil func(*CreateSaleInput)
	}{
		{"missing store", func(in *CreateSaleInput) { in.StoreID = uuid.Nil }},
		{"no items", func(in *CreateSaleInput) { in.Items = nil }},
		{"bad item", func(in *CreateSaleInput) { in.Items[0].Qty = dec("0") }},
		{"bad payment", func(in *CreateSaleInput) {
			in.Payments = []Payment{{Method: "voucher", Amount: dec("1")}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := saleInput()
			tt.mutil(&input)
			_, err := svc.CreateSale(context.Background(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSaleWrapsRepoError(t *testing.T) {
	repo := &stubRepo{createErr: errors.New("db down")}
	svc := newTestService(t, repo)

	_, err := svc.CreateSale(context.Background(), saleInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestGetSaleNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.GetSale(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListSalesAppliesLimitDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	storeID := uuid.New()
	if _, err := svc.ListSales(context.Background(), ListSalesParams{StoreID: storeID, Limit: 0, Offset: -3}); err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if repo.listParams.Limit != 50 {
		t.Fatalf("limit = %d, want 50", repo.listParams.Limit)
	}
	if repo.listParams.Offset != 0 {
		t.Fatalf("offset = %d, want 0", repo.listParams.Offset)
	}

	if _, err := svc.ListSales(context.Background(), ListSalesParams{StoreID: storeID, Limit: 1000}); err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if repo.listParams.Limit != 50 {
		t.Fatalf("limit = %d, want 50 after cap", repo.listParams.Limit)
	}

	if _, err := svc.ListSales(context.Background(), ListSalesParams{}); err == nil {
		t.Fatal("expected error for missing store id")
	}
}

func TestStatsComputesAverage(t *testing.T) {
	repo := &stubRepo{stats: StatsResult{SaleCount: 3, TotalRevenue: dec("100")}}
	svc := newTestService(t, repo)

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !stats.AverageSale.Equal(dec("33.33")) {
		t.Fatalf("average = %s, want 33.33", stats.AverageSale)
	}

	repo.stats = StatsResult{SaleCount: 0, TotalRevenue: decimal.Zero}
	stats, err = svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !stats.AverageSale.Equal(decimal.Zero) {
		t.Fatalf("average = %s, want 0 for empty store", stats.AverageSale)
	}
}
