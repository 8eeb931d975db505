// Package apitoken issues and verifies the HS256 bearer tokens of the HTTP
// API. The subject of a token is the hex address of the caller.
package apitoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt"
)

const issuer = "fiora-swap"

var (
	// ErrInvalidToken ...
	ErrInvalidToken = errors.New("invalid api token")
	// ErrInvalidSubject ...
	ErrInvalidSubject = errors.New("token subject is not a valid address")
)

// Issue returns a token for the given caller address. A zero ttl issues a
// token that never expires.
func Issue(secret []byte, caller common.Address, ttl time.Duration) (string, error) {
	if len(secret) <= 0 {
		return "", fmt.Errorf("missing secret")
	}
	if caller == (common.Address{}) {
		return "", ErrInvalidSubject
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		Issuer:   issuer,
		Subject:  caller.Hex(),
		IssuedAt: now.Unix(),
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse verifies the given token and returns the caller address it was
// issued for.
func Parse(secret []byte, tokenString string) (common.Address, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method %v", token.Header["alg"],
				)
			}
			return secret, nil
		},
	)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !token.Valid {
		return common.Address{}, ErrInvalidToken
	}
	if !common.IsHexAddress(claims.Subject) {
		return common.Address{}, ErrInvalidSubject
	}
	return common.HexToAddress(claims.Subject), nil
}
