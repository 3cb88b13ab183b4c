package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/novaminer/clicker-backend/internal/models"
)

var (
	// ErrMissingHash is returned when the initData payload carries no hash.
	ErrMissingHash = errors.New("init data missing hash")

	// ErrInvalidHash is returned when the initData signature does not verify
	// against the bot token.
	ErrInvalidHash = errors.New("init data hash mismatch")

	// ErrMissingUser is returned when the payload verifies but carries no user.
	ErrMissingUser = errors.New("init data missing user")
)

// ValidateInitData verifies a Telegram WebApp initData payload against the bot
// token and extracts the embedded user. The signature scheme is the documented
// two-step HMAC-SHA256: the secret key is HMAC("WebAppData", botToken) and the
// hash covers the sorted key=value lines of every field except hash itself.
func ValidateInitData(initData, botToken string) (*models.TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrMissingHash
	}

	expected := computeInitDataHash(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return nil, ErrInvalidHash
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrMissingUser
	}
	var user models.TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("malformed user field: %w", err)
	}
	if user.ID == 0 {
		return nil, ErrMissingUser
	}
	return &user, nil
}

func computeInitDataHash(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	return hex.EncodeToString(mac.Sum(nil))
}
