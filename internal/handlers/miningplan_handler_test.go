package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPurchaseService implements services.PurchaseService with canned results.
type stubPurchaseService struct {
	confirmResult *services.ConfirmResult
	confirmErr    error
	pending       []*models.MiningPlanTransaction
}

func (s *stubPurchaseService) CreatePurchase(ctx context.Context, telegramID, userName string, planAmount float64, transactionHash string) (*models.MiningPlanTransaction, error) {
	return nil, nil
}

func (s *stubPurchaseService) Confirm(ctx context.Context, transactionID string, action string) (*services.ConfirmResult, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.confirmResult, nil
}

func (s *stubPurchaseService) GetTransactionsByUser(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error) {
	return nil, nil
}

func (s *stubPurchaseService) GetPendingTransactions(ctx context.Context) ([]*models.MiningPlanTransaction, error) {
	return s.pending, nil
}

func postJSON(t *testing.T, handler gin.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func newConfirmHandler(svc services.PurchaseService) *MiningPlanHandler {
	return NewMiningPlanHandler(svc, &config.Config{})
}

func TestConfirmHandlerSuccess(t *testing.T) {
	h := newConfirmHandler(&stubPurchaseService{
		confirmResult: &services.ConfirmResult{
			TransactionID:  "tx_1",
			Status:         models.StatusConfirmed,
			CreditedPoints: 110,
			Message:        "Transaction confirmed successfully.",
		},
	})

	w := postJSON(t, h.Confirm, gin.H{"transactionId": "tx_1", "action": "confirm"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "tx_1", resp["transactionId"])
	assert.Equal(t, float64(110), resp["creditedPoints"])
}

func TestConfirmHandlerMissingFields(t *testing.T) {
	h := newConfirmHandler(&stubPurchaseService{})

	w := postJSON(t, h.Confirm, gin.H{"transactionId": "tx_1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmHandlerNotFound(t *testing.T) {
	h := newConfirmHandler(&stubPurchaseService{confirmErr: services.ErrTransactionNotFound})

	w := postJSON(t, h.Confirm, gin.H{"transactionId": "tx_x", "action": "confirm"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmHandlerAlreadyProcessed(t *testing.T) {
	h := newConfirmHandler(&stubPurchaseService{
		confirmErr: &services.AlreadyProcessedError{Status: models.StatusConfirmed},
	})

	w := postJSON(t, h.Confirm, gin.H{"transactionId": "tx_1", "action": "confirm"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already confirmed")
}

func TestConfirmHandlerInvalidAction(t *testing.T) {
	h := newConfirmHandler(&stubPurchaseService{confirmErr: services.ErrInvalidAction})

	w := postJSON(t, h.Confirm, gin.H{"transactionId": "tx_1", "action": "approve"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
