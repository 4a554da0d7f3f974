package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egledger/treasury_backend/internal/core/domain"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/dto"
	"github.com/egledger/treasury_backend/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts and the
// system account role bindings.
type accountHandler struct {
	accountService       portssvc.AccountSvcFacade
	systemAccountService portssvc.SystemAccountSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade, systemAccountService portssvc.SystemAccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:       accountService,
		systemAccountService: systemAccountService,
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// treasury=true narrows the chart to cash/bank-eligible accounts.
	if c.Query("treasury") == "true" {
		accounts, err := h.accountService.ListTreasuryAccounts(c.Request.Context())
		if err != nil {
			respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
}

func (h *accountHandler) getSystemAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	role := domain.SystemAccountRole(c.Param("role"))

	account, err := h.systemAccountService.Resolve(c.Request.Context(), role)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SystemAccountResponse{
		Role:    string(role),
		Account: dto.ToAccountResponse(account),
	})
}

func (h *accountHandler) setSystemAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	role := domain.SystemAccountRole(c.Param("role"))

	var req dto.SetSystemAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.systemAccountService.SetMapping(c.Request.Context(), role, req.AccountID, userID); err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("System account mapping updated",
		slog.String("role", string(role)), slog.String("account_id", req.AccountID))
	c.JSON(http.StatusOK, gin.H{"role": string(role), "accountID": req.AccountID})
}

// registerAccountRoutes registers chart of accounts and system account routes.
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountSvcFacade, systemAccountService portssvc.SystemAccountSvcFacade) {
	h := newAccountHandler(accountService, systemAccountService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
	}

	systemAccounts := group.Group("/system-accounts")
	{
		systemAccounts.GET("/:role", h.getSystemAccount)
		systemAccounts.PUT("/:role", h.setSystemAccount)
	}
}
