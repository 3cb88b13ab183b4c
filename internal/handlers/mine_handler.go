package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/novaminer/clicker-backend/internal/utils"
)

// MineHandler handles passive mining (accrual) requests
type MineHandler struct {
	miningService services.MiningService
	cfg           *config.Config
}

// NewMineHandler creates a new MineHandler
func NewMineHandler(miningService services.MiningService, cfg *config.Config) *MineHandler {
	return &MineHandler{
		miningService: miningService,
		cfg:           cfg,
	}
}

type mineRequest struct {
	InitData string `json:"initData"`
}

// Mine handles POST /mine
func (h *MineHandler) Mine(c *gin.Context) {
	var req mineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: missing initData"})
		return
	}

	tgUser, err := utils.ValidateInitData(req.InitData, h.cfg.Telegram.BotToken)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Telegram data"})
		return
	}
	telegramID := tgUser.TelegramID()

	result, err := h.miningService.Mine(c.Request.Context(), telegramID, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Covers ErrConcurrencyExhausted, which the client may safely retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process mine request: " + err.Error()})
		return
	}

	if !result.Applied {
		c.JSON(http.StatusOK, gin.H{
			"success":              true,
			"message":              "Mining in progress",
			"pointsAdded":          0,
			"updatedPoints":        result.Points,
			"updatedPointsBalance": result.PointsBalance,
			"timeRemaining":        result.TimeRemaining.Milliseconds(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              "Points mined successfully",
		"pointsAdded":          result.PointsAdded,
		"updatedPoints":        result.Points,
		"updatedPointsBalance": result.PointsBalance,
		"newLevelIndex":        result.LevelIndex,
	})
}
