package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT sets the signing secret for admin API tokens. The admin API
// stays disabled while the secret is empty.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// JWTEnabled reports whether a signing secret is configured.
func JWTEnabled() bool {
	return len(jwtSecret) > 0
}

// GenerateJWT mints an HS256 token identifying an operator.
func GenerateJWT(userID int64, ttl time.Duration) (string, error) {
	if !JWTEnabled() {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a token and returns the embedded user id.
func ParseJWT(tokenString string) (int64, error) {
	if !JWTEnabled() {
		return 0, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id not found")
	}
	return int64(userID), nil
}
