package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Roles. A principal is exactly one of these.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// Claims represents JWT claims
type Claims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenType    string `json:"token_type"`    // "access" or "refresh"
	TokenVersion int    `json:"token_version"` // For invalidating all tokens
	jwt.RegisteredClaims
}

// Principal is the identity a token is issued for
type Principal struct {
	ID           uint
	Email        string
	Role         string
	TokenVersion int
}

// TokenPair is the result of a successful login or registration
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds until the access token expires
}

// JWTManager handles JWT token operations
type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	if config.RefreshExpiry == 0 {
		config.RefreshExpiry = 7 * 24 * time.Hour
	}
	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// Expiry returns the access token lifetime
func (j *JWTManager) Expiry() time.Duration {
	return j.config.Expiry
}

func (j *JWTManager) generate(p Principal, tokenType string, ttl time.Duration) (string, string, error) {
	now := j.now()
	jti := uuid.New().String()

	claims := Claims{
		UserID:       p.ID,
		Email:        p.Email,
		Role:         p.Role,
		TokenType:    tokenType,
		TokenVersion: p.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   p.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(j.config.Secret))
	return signedToken, jti, err
}

// GenerateAccessToken generates a new access token and returns it with its JTI
func (j *JWTManager) GenerateAccessToken(p Principal) (string, string, error) {
	return j.generate(p, TokenTypeAccess, j.config.Expiry)
}

// GenerateRefreshToken generates a new refresh token and returns it with its JTI
func (j *JWTManager) GenerateRefreshToken(p Principal) (string, string, error) {
	return j.generate(p, TokenTypeRefresh, j.config.RefreshExpiry)
}

// IssueTokens generates an access/refresh pair for p
func (j *JWTManager) IssueTokens(p Principal) (*TokenPair, error) {
	accessToken, _, err := j.GenerateAccessToken(p)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := j.GenerateRefreshToken(p)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(j.config.Expiry.Seconds()),
	}, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Role != RoleAdmin && claims.Role != RoleStudent {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// RefreshAccessToken generates a new access token from a valid refresh token.
// tokenVersion must be the principal's current version.
func (j *JWTManager) RefreshAccessToken(refreshToken string, tokenVersion int) (string, string, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	if claims.TokenType != TokenTypeRefresh {
		return "", "", ErrInvalidToken
	}

	if claims.TokenVersion != tokenVersion {
		return "", "", ErrInvalidToken
	}

	return j.GenerateAccessToken(Principal{
		ID:           claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: tokenVersion,
	})
}
