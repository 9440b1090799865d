package usecase

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/dto"
)

// Quote tokens are opaque 32-byte secrets handed to the client exactly once.
// Only the keyed hash is persisted, so a leaked snapshot store exposes no
// redeemable tokens.

const quoteTokenBytes = 32

var errMissingTokenSecret = errors.New("pricing quote token secret is required")

func generateQuoteToken() (string, error) {
	raw := make([]byte, quoteTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating quote token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func hashQuoteToken(token, secret string) (string, error) {
	if secret == "" {
		return "", errMissingTokenSecret
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// cartFingerprint identifies a normalized cart plus role for the duplicate
// submission guard. Identical content yields an identical fingerprint.
func cartFingerprint(items []dto.LockLineInput, role string) (string, error) {
	data, err := json.Marshal(struct {
		Items []dto.LockLineInput `json:"items"`
		Role  string              `json:"role"`
	}{Items: items, Role: role})
	if err != nil {
		return "", fmt.Errorf("fingerprinting cart: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// clampQuoteTTLMinutes keeps the lock window inside (0, 180] minutes,
// defaulting to 30.
func clampQuoteTTLMinutes(minutes int) int {
	if minutes > 0 && minutes <= 180 {
		return minutes
	}
	return 30
}
