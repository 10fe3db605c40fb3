package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// JWTClaims is the token payload. The subject is the user's login; the caller
// record is re-resolved from the store on every request, so the token carries
// nothing else.
type JWTClaims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// getJWTSecret reads jwt.secret_key on every call so that configuration
// loaded after package init is still picked up.
func getJWTSecret() ([]byte, error) {
	secret := viper.GetString("jwt.secret_key")
	if secret == "" {
		return nil, errors.New("jwt.secret_key is not configured")
	}
	return []byte(secret), nil
}

func tokenTTL() time.Duration {
	if minutes := viper.GetInt("jwt.expire_minutes"); minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	return 60 * time.Minute
}

// GenerateToken issues an HMAC-signed access token for the given login.
func GenerateToken(login string) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := JWTClaims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and verifies a token string, checking the HMAC signing
// method and expiration, and returns its claims.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
