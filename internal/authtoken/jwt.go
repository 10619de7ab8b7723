// Package authtoken mints and validates the access tokens that carry caller
// identity. The registration domain never inspects tokens; it only sees the
// AccountID the middleware extracts here.
package authtoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// Claims are the JWT claims for access tokens.
type Claims struct {
	Account string `json:"account"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateToken mints an HS256 token for the given account.
func (s *Service) GenerateToken(account domain.AccountID, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Account: account.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning the account it was
// minted for.
func (s *Service) ValidateToken(tokenString string) (domain.AccountID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	account, err := domain.ParseAccountID(claims.Account)
	if err != nil {
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "token carries no valid account")
	}
	return account, nil
}
