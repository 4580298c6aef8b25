package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/shared"
)

// GormStockLogRepository implements StockLogRepository using GORM.
// Stock log rows are append-only; there is deliberately no update or delete.
type GormStockLogRepository struct {
	db *gorm.DB
}

// NewGormStockLogRepository creates a new GormStockLogRepository
func NewGormStockLogRepository(db *gorm.DB) *GormStockLogRepository {
	return &GormStockLogRepository{db: db}
}

var _ inventory.StockLogRepository = (*GormStockLogRepository)(nil)

// Create inserts a stock log entry
func (r *GormStockLogRepository) Create(ctx context.Context, entry *inventory.StockLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByProduct returns a product's entries, newest first
func (r *GormStockLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockLogEntry, error) {
	var entries []inventory.StockLogEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByOrder returns every entry attributed to an order
func (r *GormStockLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.StockLogEntry, error) {
	var entries []inventory.StockLogEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDateRange returns entries created within [from, to), newest first
func (r *GormStockLogRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]inventory.StockLogEntry, error) {
	var entries []inventory.StockLogEntry
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByProduct returns the number of entries for a product
func (r *GormStockLogRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLogEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
