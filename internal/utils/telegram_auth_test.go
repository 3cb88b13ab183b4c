package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TEST-TOKEN"

// signInitData builds a payload signed the way Telegram signs WebApp initData.
func signInitData(t *testing.T, fields map[string]string) string {
	t.Helper()
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", computeInitDataHash(values, testBotToken))
	return values.Encode()
}

func TestValidateInitData(t *testing.T) {
	userJSON := `{"id":42,"first_name":"Alice","username":"alice42"}`

	t.Run("valid payload", func(t *testing.T) {
		initData := signInitData(t, map[string]string{
			"user":      userJSON,
			"auth_date": "1700000000",
		})

		user, err := ValidateInitData(initData, testBotToken)
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "42", user.TelegramID())
		assert.Equal(t, "Alice", user.DisplayName())
	})

	t.Run("missing hash", func(t *testing.T) {
		_, err := ValidateInitData("user="+url.QueryEscape(userJSON), testBotToken)
		assert.ErrorIs(t, err, ErrMissingHash)
	})

	t.Run("tampered payload", func(t *testing.T) {
		initData := signInitData(t, map[string]string{
			"user":      userJSON,
			"auth_date": "1700000000",
		})
		values, err := url.ParseQuery(initData)
		require.NoError(t, err)
		values.Set("user", `{"id":43,"first_name":"Mallory"}`)

		_, err = ValidateInitData(values.Encode(), testBotToken)
		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("wrong bot token", func(t *testing.T) {
		initData := signInitData(t, map[string]string{
			"user":      userJSON,
			"auth_date": "1700000000",
		})

		_, err := ValidateInitData(initData, "other-token")
		assert.ErrorIs(t, err, ErrInvalidHash)
	})

	t.Run("missing user field", func(t *testing.T) {
		initData := signInitData(t, map[string]string{
			"auth_date": "1700000000",
		})

		_, err := ValidateInitData(initData, testBotToken)
		assert.ErrorIs(t, err, ErrMissingUser)
	})
}
