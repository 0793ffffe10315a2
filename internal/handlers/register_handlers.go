package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/SscSPs/spend_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg.JWTSecret, services, time.Now)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	jwtSecret string,
	services *portssvc.ServiceContainer,
	now func() time.Time,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(jwtSecret))

	registerTransactionRoutes(v1, services.Ingestion, services.Parser)
	registerCategorizationRoutes(v1, services.Categorization)
	registerBudgetRoutes(v1, services.Budget, now)
	registerAnalyticsRoutes(v1, services.Analytics, now)
}
