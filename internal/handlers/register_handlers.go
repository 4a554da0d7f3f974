package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/middleware"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Identity is asserted by the upstream proxy; every v1 route requires an actor.
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerLedgerRoutes(v1, services.Ledger)
	registerVoucherRoutes(v1, services.Voucher)
	registerChequeRoutes(v1, services.Cheque)
	registerAccountRoutes(v1, services.Account, services.SystemAccount)
}
