package courier

import (
	"context"
	"time"

	"github.com/dokanify/backend/internal/domain/shared"
)

// CourierToken caches a provider's access/refresh token pair. One row per
// provider; the token manager is its only writer and persists it with an
// upsert keyed by Courier so a provider never accumulates duplicate rows.
type CourierToken struct {
	shared.BaseEntity
	Courier      Code      `gorm:"type:varchar(30);not null;uniqueIndex"`
	AccessToken  string    `gorm:"type:text;not null"`
	RefreshToken string    `gorm:"type:text"`
	ExpiresAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CourierToken) TableName() string {
	return "courier_tokens"
}

// Valid reports whether the access token is still usable margin from now
func (t *CourierToken) Valid(margin time.Duration) bool {
	return t.AccessToken != "" && time.Now().Add(margin).Before(t.ExpiresAt)
}

// CourierTokenRepository persists cached provider tokens
type CourierTokenRepository interface {
	// FindByCourier returns the cached token for the provider, or
	// shared.ErrNotFound when none has been issued yet
	FindByCourier(ctx context.Context, courier Code) (*CourierToken, error)

	// Upsert inserts or replaces the provider's token row keyed by Courier
	Upsert(ctx context.Context, token *CourierToken) error
}
