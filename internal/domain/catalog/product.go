package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dokanify/backend/internal/domain/shared"
)

// Product is the catalog aggregate root. The catalog subsystem owns every
// field except Stock; the stock ledger is the only writer of Stock.
// Invariant: Stock >= 0 at all times.
type Product struct {
	shared.BaseAggregateRoot
	Name  string          `gorm:"type:varchar(255);not null"`
	SKU   string          `gorm:"type:varchar(100);uniqueIndex"`
	Price decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	// Weight is the per-unit weight in kilograms. Zero means unset;
	// courier adapters substitute their default unit weight.
	Weight decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	Stock  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with the given starting stock
func NewProduct(name, sku string, price decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Price:             price,
		Stock:             stock,
	}, nil
}

// IncreaseStock adds quantity to the product's stock. There is no upper bound.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Stock += quantity
	p.touch()
	return nil
}

// DecreaseStock removes quantity from the product's stock and fails when
// the product cannot cover it. Order-driven reservations use this path so
// oversell is never silent.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

// DecreaseStockClamped removes quantity from the product's stock, flooring
// at zero. This is the administrative correction path; reservations must
// use DecreaseStock instead.
func (p *Product) DecreaseStockClamped(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Stock -= quantity
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.touch()
	return nil
}

// SetStock overwrites the stock level, flooring at zero
func (p *Product) SetStock(quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	p.Stock = quantity
	p.touch()
}

// CanFulfill returns true if available stock covers the requested quantity
func (p *Product) CanFulfill(quantity int) bool {
	return p.Stock >= quantity
}

// UnitWeightOr returns the per-unit weight, or fallback when unset
func (p *Product) UnitWeightOr(fallback decimal.Decimal) decimal.Decimal {
	if p.Weight.IsZero() {
		return fallback
	}
	return p.Weight
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
