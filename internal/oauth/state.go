package oauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
)

// stateTTL is how long a consent screen round trip may take.
const stateTTL = 10 * time.Minute

// StateSigner issues and checks the OAuth state parameter as a short-lived
// HS256 JWT. A nil *StateSigner issues empty states and accepts anything.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewStateSigner returns nil when secret is empty.
func NewStateSigner(secret string) *StateSigner {
	if secret == "" {
		return nil
	}
	return &StateSigner{secret: []byte(secret), now: time.Now}
}

// Issue returns a new signed state.
func (s *StateSigner) Issue() (string, error) {
	if s == nil {
		return "", nil
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks that state was issued by this signer and has not expired.
func (s *StateSigner) Verify(state string) error {
	const op = "oauth.VerifyState"
	if s == nil {
		return nil
	}
	if state == "" {
		return apperr.E(op, apperr.BadRequest, "missing state", nil)
	}
	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return apperr.E(op, apperr.BadRequest, "invalid state", err)
	}
	return nil
}
