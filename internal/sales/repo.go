package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hisobly/hisobly-backend/pkg/db"
	"github.com/hisobly/hisobly-backend/pkg/db/models"
)

type gormRepository struct {
	client *db.Client
}

// NewRepository builds the GORM-backed sales repository.
func NewRepository(client *db.Client) Repository {
	return &gormRepository{client: client}
}

// Create persists the sale with its items and payments atomically. The
// shared client disables gorm's default transaction, so the explicit one
// here is what keeps a failed association insert from leaving a partial
// sale behind.
func (r *gormRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(sale).Error
	})
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *gormRepository) ListByStore(ctx context.Context, params ListSalesParams) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("store_id = ?", params.StoreID).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *gormRepository) StatsByStore(ctx context.Context, storeID uuid.UUID) (StatsResult, error) {
	var row struct {
		SaleCount    int64
		TotalRevenue decimal.Decimal
	}
	err := r.client.DB().WithContext(ctx).
		Model(&models.Sale{}).
		Select("COUNT(*) AS sale_count, COALESCE(SUM(total), 0) AS total_revenue").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return StatsResult{}, err
	}
	return StatsResult{SaleCount: row.SaleCount, TotalRevenue: row.TotalRevenue}, nil
}
