package models

import (
	"time"
)

// TransactionStatus is the lifecycle state of a mining plan purchase.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusRejected  TransactionStatus = "rejected"
)

// MiningPlanTransaction represents a purchase intent awaiting admin review.
// Immutable after creation except for Status and ConfirmedAt, which change
// exactly once when the transaction reaches a terminal state.
type MiningPlanTransaction struct {
	ID              string            `bson:"_id" json:"id"`
	TelegramID      string            `bson:"telegramId" json:"telegramId"`
	UserName        string            `bson:"userName" json:"userName"`
	PlanAmount      float64           `bson:"planAmount" json:"planAmount"`
	PointsToReceive float64           `bson:"pointsToReceive" json:"pointsToReceive"`
	TransactionHash string            `bson:"transactionHash,omitempty" json:"transactionHash,omitempty"`
	Status          TransactionStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	ConfirmedAt     *time.Time        `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
}

// IsTerminal reports whether the transaction has been processed.
func (t *MiningPlanTransaction) IsTerminal() bool {
	return t.Status == StatusConfirmed || t.Status == StatusRejected
}
