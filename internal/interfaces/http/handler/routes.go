package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the order reservation and shipment endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/reserve", h.Reserve)
		orders.POST("/:id/release", h.Release)
		orders.POST("/:id/ship", h.Ship)
		orders.GET("/:id/track", h.Track)
		orders.POST("/:id/cancel-shipment", h.CancelShipment)
	}
}

// RegisterRoutes mounts the stock administration endpoints
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("/:id/stock", h.AdjustStock)
		products.GET("/:id/stock-logs", h.StockHistory)
	}
}
