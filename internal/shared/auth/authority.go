package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid marks a malformed or wrongly signed token.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired marks a token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrRevoked marks a token revoked before expiry.
	ErrRevoked = errors.New("token revoked")
)

// Claims is the identity carried by a verified token.
type Claims struct {
	SubjectID string
	FullName  string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

type tokenClaims struct {
	FullName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authority issues, verifies and revokes HS256 bearer tokens.
type Authority struct {
	secret     []byte
	defaultTTL time.Duration
	revoked    *RevocationList
}

// NewAuthority builds an Authority with an injected revocation list.
func NewAuthority(secret string, defaultTTL time.Duration, revoked *RevocationList) *Authority {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if revoked == nil {
		revoked = NewRevocationList()
	}
	return &Authority{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		revoked:    revoked,
	}
}

// Issue signs a token for the subject. A non-positive ttl uses the default.
func (a *Authority) Issue(subjectID, fullName string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject id is required")
	}
	if ttl <= 0 {
		ttl = a.defaultTTL
	}
	now := time.Now().UTC()
	claims := tokenClaims{
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks revocation before anything else so a logged-out token never
// reaches claim inspection, then validates signature, structure and expiry.
func (a *Authority) Verify(token string) (Claims, error) {
	if a.revoked.Contains(token) {
		return Claims{}, ErrRevoked
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalid
	}

	out := Claims{
		SubjectID: claims.Subject,
		FullName:  claims.FullName,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// Revoke inserts the literal token string into the revocation list. The token
// is decoded without verification purely to learn its natural expiry for
// eviction; a garbage string is revoked with unknown expiry.
func (a *Authority) Revoke(token string) {
	var expiresAt time.Time
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	a.revoked.Revoke(token, expiresAt)
}

// PurgeExpired evicts revoked entries whose tokens have since expired.
func (a *Authority) PurgeExpired() int {
	return a.revoked.PurgeExpired(time.Now().UTC())
}
