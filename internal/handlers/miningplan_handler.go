package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/novaminer/clicker-backend/internal/utils"
)

// MiningPlanHandler handles purchase creation and the admin confirmation flow
type MiningPlanHandler struct {
	purchaseService services.PurchaseService
	cfg             *config.Config
}

// NewMiningPlanHandler creates a new MiningPlanHandler
func NewMiningPlanHandler(purchaseService services.PurchaseService, cfg *config.Config) *MiningPlanHandler {
	return &MiningPlanHandler{
		purchaseService: purchaseService,
		cfg:             cfg,
	}
}

type purchaseRequest struct {
	InitData        string  `json:"initData"`
	PlanAmount      float64 `json:"planAmount"`
	TransactionHash string  `json:"transactionHash"`
}

// Purchase handles POST /mining-plans/purchase
func (h *MiningPlanHandler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: missing initData"})
		return
	}
	if req.PlanAmount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan amount. Valid amounts: 15, 25, 50, 100, 250, 500"})
		return
	}

	tgUser, err := utils.ValidateInitData(req.InitData, h.cfg.Telegram.BotToken)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Telegram data"})
		return
	}

	tx, err := h.purchaseService.CreatePurchase(c.Request.Context(), tgUser.TelegramID(), tgUser.DisplayName(), req.PlanAmount, req.TransactionHash)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPlanAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan amount. Valid amounts: 15, 25, 50, 100, 250, 500"})
		case errors.Is(err, services.ErrPendingTransaction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a pending transaction. Please wait for it to be confirmed."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"transactionId": tx.ID,
		"message":       "Transaction submitted successfully. Waiting for admin confirmation.",
	})
}

type confirmRequest struct {
	TransactionID string `json:"transactionId"`
	Action        string `json:"action"`
}

// Confirm handles POST /mining-plans/confirm (admin only)
func (h *MiningPlanHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == "" || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: missing transactionId or action"})
		return
	}

	result, err := h.purchaseService.Confirm(c.Request.Context(), req.TransactionID, req.Action)
	if err != nil {
		var alreadyProcessed *services.AlreadyProcessedError
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.As(err, &alreadyProcessed):
			c.JSON(http.StatusBadRequest, gin.H{"error": alreadyProcessed.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"transactionId":  result.TransactionID,
		"status":         result.Status,
		"creditedPoints": result.CreditedPoints,
		"message":        result.Message,
	})
}

// GetPending handles GET /mining-plans/pending (admin only)
func (h *MiningPlanHandler) GetPending(c *gin.Context) {
	txs, err := h.purchaseService.GetPendingTransactions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pending transactions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GetByUser handles GET /mining-plans/user/:telegramId (admin only)
func (h *MiningPlanHandler) GetByUser(c *gin.Context) {
	telegramID := c.Param("telegramId")
	txs, err := h.purchaseService.GetTransactionsByUser(c.Request.Context(), telegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transactions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}
