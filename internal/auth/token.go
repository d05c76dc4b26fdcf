package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/course-service/internal/domain"
)

// TokenKind distinguishes access tokens from refresh tokens. The two differ
// only in TTL and in which endpoints accept them.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Decode failure taxonomy. ParseToken returns exactly one of these; any
// ambiguity in the input maps to ErrTokenMalformed so decoding fails closed.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// TokenManager issues and validates signed session tokens. The signing key is
// set once at construction and never mutated, so a single manager is safe for
// concurrent use.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a manager. TTLs must be strictly positive.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims describes the JWT payload.
type Claims struct {
	SubjectID int64       `json:"uid"`
	Role      domain.Role `json:"role"`
	Kind      TokenKind   `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair bundles the credentials minted at login and registration.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// GenerateToken builds and signs a JWT of the given kind for the subject.
func (tm *TokenManager) GenerateToken(subjectID int64, role domain.Role, kind TokenKind) (string, time.Time, error) {
	ttl := tm.accessTTL
	if kind == TokenKindRefresh {
		ttl = tm.refreshTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		SubjectID: subjectID,
		Role:      role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// GeneratePair mints an access and a refresh token for the subject.
func (tm *TokenManager) GeneratePair(subjectID int64, role domain.Role) (*TokenPair, error) {
	access, accessExp, err := tm.GenerateToken(subjectID, role, TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.GenerateToken(subjectID, role, TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ParseToken validates signature and expiry and returns the claims. The
// returned error is always one of the decode taxonomy sentinels.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenBadSignature
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, classifyDecodeError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.SubjectID <= 0 || !claims.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != TokenKindAccess && claims.Kind != TokenKindRefresh {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classifyDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenBadSignature):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
