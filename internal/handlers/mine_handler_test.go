package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

type stubMiningService struct {
	result *services.MineResult
	err    error
}

func (s *stubMiningService) Mine(ctx context.Context, telegramID string, now time.Time) (*services.MineResult, error) {
	return s.result, s.err
}

func newMineHandler(svc services.MiningService) *MineHandler {
	return NewMineHandler(svc, &config.Config{
		Telegram: config.TelegramConfig{BotToken: "123:token"},
	})
}

func TestMineHandlerMissingInitData(t *testing.T) {
	h := newMineHandler(&stubMiningService{})

	w := postJSON(t, h.Mine, gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing initData")
}

func TestMineHandlerInvalidInitData(t *testing.T) {
	h := newMineHandler(&stubMiningService{})

	w := postJSON(t, h.Mine, gin.H{"initData": "user=whatever&hash=deadbeef"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Telegram data")
}
