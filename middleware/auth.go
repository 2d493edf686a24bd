package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postline/postline/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// LoginPath is where unauthenticated browsers get sent.
	LoginPath = "/auth/login"
	// TokenCookieName carries the JWT for browser-style flows.
	TokenCookieName = "token"
)

// LoginRequired ensures the request is authenticated via JWT, accepted from
// either the Authorization header or the token cookie. Unauthenticated
// requests are redirected to the login page with a return path rather than
// rejected with 401.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := authenticate(ctx)
		if !ok {
			next := url.QueryEscape(ctx.Request.URL.RequestURI())
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+next)
			ctx.Abort()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// OptionalAuth populates the viewer identity when a valid token is present
// but never blocks the request. Public pages use it to tailor follow state.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, ok := authenticate(ctx); ok {
			ctx.Set(ContextUserIDKey, claims.UserID)
			ctx.Set(ContextUsernameKey, claims.Username)
		}
		ctx.Next()
	}
}

func authenticate(ctx *gin.Context) (*utils.Claims, bool) {
	token := extractToken(ctx)
	if token == "" || utils.IsTokenBlacklisted(token) {
		return nil, false
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func extractToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := ctx.Cookie(TokenCookieName); err == nil {
		return strings.TrimSpace(c)
	}
	return ""
}
