package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/shared"
)

// GormCourierTokenRepository implements CourierTokenRepository using GORM
type GormCourierTokenRepository struct {
	db *gorm.DB
}

// NewGormCourierTokenRepository creates a new GormCourierTokenRepository
func NewGormCourierTokenRepository(db *gorm.DB) *GormCourierTokenRepository {
	return &GormCourierTokenRepository{db: db}
}

var _ courier.CourierTokenRepository = (*GormCourierTokenRepository)(nil)

// FindByCourier returns the cached token for a provider
func (r *GormCourierTokenRepository) FindByCourier(ctx context.Context, code courier.Code) (*courier.CourierToken, error) {
	var token courier.CourierToken
	if err := r.db.WithContext(ctx).First(&token, "courier = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Upsert inserts or replaces the provider's token row. The conflict target is
// the unique courier column, so concurrent writers converge on one row.
func (r *GormCourierTokenRepository) Upsert(ctx context.Context, token *courier.CourierToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
		}).
		Create(token).Error
}
