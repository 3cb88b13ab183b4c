package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a player's balance record. Points and PointsBalance are only
// ever mutated through the UserRepository's atomic update operations.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TelegramID       string             `bson:"telegramId" json:"telegramId"`
	Name             string             `bson:"name" json:"name"`
	Points           float64            `bson:"points" json:"points"`
	PointsBalance    float64            `bson:"pointsBalance" json:"pointsBalance"`
	LastPointsUpdate time.Time          `bson:"lastPointsUpdateTimestamp" json:"lastPointsUpdateTimestamp"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
