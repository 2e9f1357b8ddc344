package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"smartkop/config"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/utils"

	"github.com/golang-jwt/jwt/v5"
)

const resetTokenTTL = 30 * time.Minute

// GenerateSessionToken issues a signed, time-limited token bound to the
// identity id.
func GenerateSessionToken(user *models.User, cfg config.Config) (string, error) {
	claims := &middleware.Claims{
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.JwtSecret)
}

// SendToken issues a session token, sets it as an HTTP-only cookie and
// writes the standard auth response.
func SendToken(w http.ResponseWriter, user *models.User, status int, cfg config.Config) error {
	tokenString, err := GenerateSessionToken(user, cfg)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  time.Now().Add(cfg.JwtExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.RespondWithJSON(w, status, map[string]any{
		"success": true,
		"token":   tokenString,
		"user":    user,
	})
	return nil
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(w http.ResponseWriter, cfg config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GenerateResetToken returns a raw token for out-of-band delivery plus the
// one-way hash and expiry that get persisted on the identity.
func GenerateResetToken() (raw, hashed string, expiry time.Time, err error) {
	buf := make([]byte, 20)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), time.Now().Add(resetTokenTTL), nil
}

// HashResetToken is the one-way hash applied before storage and lookup.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
