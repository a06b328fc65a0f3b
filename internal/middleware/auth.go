package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

const (
	ContextUserID    = "user_id"
	ContextUsername  = "username"
	ContextRole      = "role"
	ContextPrincipal = "principal"
)

// SessionResolver turns a bearer token into a principal and decides admin access.
type SessionResolver interface {
	Authenticate(accessToken string) (*services.Principal, error)
	Authorize(p *services.Principal) error
}

// AuthRequired rejects requests without a valid access token.
func AuthRequired(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, resolver); !ok {
			return
		}
		c.Next()
	}
}

// AdminRequired authenticates the request and then requires admin access.
// It answers 401 for missing or bad tokens and 403 for non-admin principals.
func AdminRequired(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := authenticate(c, resolver)
		if !ok {
			return
		}
		if err := resolver.Authorize(principal); err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				response.Abort(c, response.NewUnauthorized(response.CodeUnauthorized, "Authentication required"))
				return
			}
			response.Abort(c, response.NewForbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, resolver SessionResolver) (*services.Principal, bool) {
	if p := GetPrincipal(c); p != nil {
		return p, true
	}

	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		response.Abort(c, response.NewUnauthorized(response.CodeUnauthorized, "Authentication required"))
		return nil, false
	}

	principal, err := resolver.Authenticate(token)
	if err != nil {
		response.Abort(c, response.NewUnauthorized(response.CodeUnauthorized, "Invalid or expired token"))
		return nil, false
	}

	c.Set(ContextPrincipal, principal)
	c.Set(ContextUserID, principal.ID)
	c.Set(ContextUsername, principal.Username)
	c.Set(ContextRole, principal.Role)
	return principal, true
}

// bearerToken extracts the token from "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetPrincipal returns the authenticated principal, or nil.
func GetPrincipal(c *gin.Context) *services.Principal {
	if p, exists := c.Get(ContextPrincipal); exists {
		if principal, ok := p.(*services.Principal); ok {
			return principal
		}
	}
	return nil
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}
