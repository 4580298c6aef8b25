package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dokanify/backend/internal/domain/catalog"
	"github.com/dokanify/backend/internal/domain/shared"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type mockStockLogRepository struct {
	mock.Mock
}

func (m *mockStockLogRepository) Create(ctx context.Context, entry *StockLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockStockLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLogEntry, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockLogEntry), args.Error(1)
}

func (m *mockStockLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]StockLogEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockLogEntry), args.Error(1)
}

func (m *mockStockLogRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]StockLogEntry, error) {
	args := m.Called(ctx, from, to, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]StockLogEntry), args.Error(1)
}

func (m *mockStockLogRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}
