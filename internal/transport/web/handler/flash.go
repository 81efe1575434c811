package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const flashCookie = "gnucash_flash"

// Flash levels map onto the alert styles of the pages.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Level   string
	Message string
}

type flashClaims struct {
	Level   string `json:"lvl"`
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// FlashSigner round-trips flash messages through a signed cookie, so a
// tampered cookie is dropped instead of rendered.
type FlashSigner struct {
	secret []byte
}

// NewFlashSigner creates a flash signer using the configured secret key.
func NewFlashSigner(secret string) *FlashSigner {
	return &FlashSigner{secret: []byte(secret)}
}

// Set stores a flash message for the next request.
func (f *FlashSigner) Set(w http.ResponseWriter, level, message string) {
	claims := &flashClaims{
		Level:   level,
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gnucash-web",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending flash message, if any, and clears the cookie.
// Unverifiable or expired cookies yield nil.
func (f *FlashSigner) Pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	claims := &flashClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return f.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	return &Flash{Level: claims.Level, Message: claims.Message}
}
