package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/dto"
	"github.com/egledger/treasury_backend/internal/middleware"
)

// chequeHandler handles HTTP requests for cheque lifecycle management.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

func newChequeHandler(chequeService portssvc.ChequeSvcFacade) *chequeHandler {
	return &chequeHandler{chequeService: chequeService}
}

func (h *chequeHandler) createCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCheque", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cheque, failedAttachments, err := h.chequeService.CreateCheque(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	resp := dto.ToChequeResponse(cheque)
	resp.FailedAttachments = failedAttachments
	c.JSON(http.StatusCreated, resp)
}

func (h *chequeHandler) getCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID := c.Param("chequeID")

	cheque, err := h.chequeService.GetChequeByID(c.Request.Context(), chequeID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

func (h *chequeHandler) listCheques(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListChequesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.chequeService.ListCheques(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *chequeHandler) transitionCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID := c.Param("chequeID")

	var req dto.ChequeTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cheque, err := h.chequeService.TransitionCheque(c.Request.Context(), chequeID, req, userID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Cheque transitioned via API",
		slog.String("cheque_id", chequeID),
		slog.String("status", string(cheque.Status)))
	c.JSON(http.StatusOK, dto.ToChequeResponse(cheque))
}

// registerChequeRoutes registers cheque specific routes.
func registerChequeRoutes(group *gin.RouterGroup, chequeService portssvc.ChequeSvcFacade) {
	h := newChequeHandler(chequeService)

	cheques := group.Group("/cheques")
	{
		cheques.POST("", h.createCheque)
		cheques.GET("", h.listCheques)
		cheques.GET("/:chequeID", h.getCheque)
		cheques.POST("/:chequeID/transition", h.transitionCheque)
	}
}
