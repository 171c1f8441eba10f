package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

// Sale is a finalized, recorded sale. Totals are denormalized at write
// time from the items and payments; the engine recomputes them before
// persisting, so stored values never drift from the line data.
type Sale struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	WarehouseID   *uuid.UUID      `gorm:"column:warehouse_id;type:uuid"`
	DiscountID    *uuid.UUID      `gorm:"column:discount_id;type:uuid"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(16,2);not null"`
	DiscountTotal decimal.Decimal `gorm:"column:discount_total;type:numeric(16,2);not null"`
	TaxTotal      decimal.Decimal `gorm:"column:tax_total;type:numeric(16,2);not null"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(16,2);not null"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:numeric(16,2);not null"`
	ChangeDue     decimal.Decimal `gorm:"column:change_due;type:numeric(16,2);not null"`
	Note          *string         `gorm:"column:note"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID"`
	Payments      []SalePayment   `gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleItem captures the priced snapshot of one product line within a sale.
// Qty is decimal because weighted goods sell in fractional quantities.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Qty       decimal.Decimal `gorm:"column:qty;type:numeric(12,3);not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(16,2);not null"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(16,2);not null;default:0"`
	TaxRate   decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// SalePayment records one settlement line against a sale.
type SalePayment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID    uuid.UUID           `gorm:"column:sale_id;type:uuid;not null;index"`
	Type      enums.PaymentMethod `gorm:"column:type;not null"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(16,2);not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
