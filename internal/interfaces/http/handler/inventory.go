package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/dokanify/backend/internal/application/inventory"
	"github.com/dokanify/backend/internal/domain/inventory"
	"github.com/dokanify/backend/internal/domain/shared"
)

// StockAdjuster applies administrative stock corrections and serves history
type StockAdjuster interface {
	Adjust(ctx context.Context, in appinv.AdjustInput) (*inventory.DeltaResult, error)
	History(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockLogEntry, error)
}

// InventoryHandler exposes manual stock corrections and the audit trail
type InventoryHandler struct {
	BaseHandler
	stock StockAdjuster
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stock StockAdjuster) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

type adjustStockRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	UserID    string `json:"user_id"`
}

// AdjustStock handles POST /api/v1/products/:id/stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	in := appinv.AdjustInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		Operation: inventory.StockOperation(req.Operation),
		Reason:    req.Reason,
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			h.BadRequest(c, "Invalid user ID")
			return
		}
		in.UserID = &userID
	}

	result, err := h.stock.Adjust(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, gin.H{
		"product_id":     result.ProductID,
		"previous_stock": result.PreviousStock,
		"new_stock":      result.NewStock,
	})
}

type stockLogResponse struct {
	ID            uuid.UUID  `json:"id"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	ChangeAmount  int        `json:"change_amount"`
	Operation     string     `json:"operation"`
	Reason        string     `json:"reason"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StockHistory handles GET /api/v1/products/:id/stock-logs
func (h *InventoryHandler) StockHistory(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	filter := shared.DefaultFilter()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 {
		filter.PageSize = pageSize
	}

	entries, err := h.stock.History(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	logs := make([]stockLogResponse, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, stockLogResponse{
			ID:            e.ID,
			PreviousStock: e.PreviousStock,
			NewStock:      e.NewStock,
			ChangeAmount:  e.ChangeAmount,
			Operation:     e.Operation.String(),
			Reason:        e.Reason,
			OrderID:       e.OrderID,
			UserID:        e.UserID,
			CreatedAt:     e.CreatedAt,
		})
	}
	h.Success(c, logs)
}
