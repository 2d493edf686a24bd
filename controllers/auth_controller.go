package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/middleware"
	"github.com/postline/postline/models"
	"github.com/postline/postline/utils"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthController handles registration, login, and session introspection.
// Identity is a collaborator for the feed core; only the password + JWT path
// is kept here.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a new account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validUsername(username) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "username must be 3-32 letters, digits, or underscores")
		return
	}
	if !validPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "password must be at least 8 characters")
		return
	}

	var n int64
	if err := a.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to check username")
		return
	}
	if n > 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to hash password")
		return
	}

	user := models.User{Username: username, Email: strings.TrimSpace(req.Email), PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create user")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials, issues a JWT, and sets it as a cookie so
// browser-style flows work alongside the Authorization header.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "invalid username or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to issue token")
		return
	}

	ctx.SetCookie(middleware.TokenCookieName, token, int(tokenLifetime.Seconds()), "/", "", false, true)
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the current token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if token := currentToken(ctx); token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	ctx.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated viewer's account.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40141, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func currentToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := ctx.Cookie(middleware.TokenCookieName); err == nil {
		return strings.TrimSpace(c)
	}
	return ""
}

func validUsername(s string) bool {
	if len(s) < 3 || len(s) > 32 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

func validPassword(s string) bool {
	return len(s) >= 8 && len(s) <= 128
}
