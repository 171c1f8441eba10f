package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleInput carries a finalized sale into the recording service.
type CreateSaleInput struct {
	StoreID     uuid.UUID
	WarehouseID *uuid.UUID
	DiscountID  *uuid.UUID
	Items       []LineItem
	Payments    []Payment
	Note        *string
}

// ListSalesParams filters and pages the sale listing.
type ListSalesParams struct {
	StoreID uuid.UUID
	Limit   int
	Offset  int
}

// StatsResult is the aggregate view the dashboard renders.
type StatsResult struct {
	SaleCount    int64
	TotalRevenue decimal.Decimal
	AverageSale  decimal.Decimal
}
