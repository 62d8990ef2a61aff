package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "user_id"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// TokenValidator parses bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// Authenticator validates bearer tokens against the signing key and the
// revocation list
type Authenticator struct {
	tokens    TokenValidator
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthenticator creates an Authenticator. blacklist may be nil.
func NewAuthenticator(tokens TokenValidator, blacklist auth.TokenBlacklist, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, blacklist: blacklist, logger: log}
}

// Required rejects requests without a valid, unrevoked token
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.authenticate(c)
		if err != nil {
			a.reject(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// Optional attaches claims when a valid token is present and otherwise
// lets the request through anonymously
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(authHeader) != "" {
			if claims, err := a.authenticate(c); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// AdminOnly must run after Required
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.IsAdmin {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader(authHeader)
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if a.blacklist == nil {
		return claims, nil
	}

	ctx := c.Request.Context()
	// Blacklist lookups fail open: a redis outage must not log everyone out.
	if revoked, err := a.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		a.logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
	} else if revoked {
		return nil, auth.ErrTokenRevoked
	}
	if revoked, err := a.blacklist.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime()); err != nil {
		a.logger.Error("Failed to check user revocation", zap.String("user_id", claims.UserID), zap.Error(err))
	} else if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

func (a *Authenticator) reject(c *gin.Context, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case c.GetHeader(authHeader) != "":
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	a.logger.Debug("Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	abort(c, http.StatusUnauthorized, code, message)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

// GetClaims returns the authenticated claims, nil for anonymous requests
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user id, false for anonymous requests
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
