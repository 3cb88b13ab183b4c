package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/game"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/novaminer/clicker-backend/internal/utils"
)

// UserHandler handles user bootstrap requests
type UserHandler struct {
	userService services.UserService
	cfg         *config.Config
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		cfg:         cfg,
	}
}

type userRequest struct {
	InitData string `json:"initData"`
}

// GetOrCreate handles POST /user
func (h *UserHandler) GetOrCreate(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: missing initData"})
		return
	}

	tgUser, err := utils.ValidateInitData(req.InitData, h.cfg.Telegram.BotToken)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Telegram data"})
		return
	}

	user, err := h.userService.GetOrCreateUser(c.Request.Context(), tgUser.TelegramID(), tgUser.DisplayName(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"levelIndex": game.LevelIndex(user.Points),
	})
}
