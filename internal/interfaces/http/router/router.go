// Package router wires handlers onto the versioned API surface.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	health     HealthChecker
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, health HealthChecker) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
		health:     health,
	}
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	r.engine.GET("/health", r.healthHandler)

	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

func (r *Router) healthHandler(c *gin.Context) {
	if r.health != nil {
		if err := r.health.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
