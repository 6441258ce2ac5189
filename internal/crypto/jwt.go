package crypto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/useraccounts/useraccounts-go/internal/model"
)

const issuer = "useraccounts"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidPayload   = errors.New("invalid token payload")
)

// Claims represents the JWT claims for an authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	model.TokenPayload
}

// SignToken creates a signed HS256 token carrying payload, valid for expiry.
func SignToken(payload model.TokenPayload, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenPayload: payload,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of tokenString and returns
// the payload it carries. It does not judge whether the payload is complete.
// A verified token whose claims do not fit TokenPayload yields ErrInvalidPayload.
func ParseToken(tokenString, secret string) (model.TokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.TokenPayload{}, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.TokenPayload{}, ErrTokenExpired
		default:
			return model.TokenPayload{}, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenPayload{}, ErrInvalidToken
	}

	return decodePayload(claims)
}

// decodePayload maps verified claims onto TokenPayload, rejecting claims of
// the wrong type.
func decodePayload(claims jwt.MapClaims) (model.TokenPayload, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return model.TokenPayload{}, ErrInvalidPayload
	}

	var payload model.TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.TokenPayload{}, ErrInvalidPayload
	}

	return payload, nil
}
