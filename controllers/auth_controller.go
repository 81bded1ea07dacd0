package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/middleware"
	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthController handles registration, login, and session endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController with database access.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Handle   string `json:"handle" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates a new account and returns a token.
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid registration payload: "+err.Error())
		return
	}

	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validHandle(handle) {
		utils.Error(c, http.StatusBadRequest, 40002, "handle may only contain lowercase letters, digits, '_' and '.'")
		return
	}

	var count int64
	a.db.Model(&models.User{}).Where("handle = ? OR email = ?", handle, email).Count(&count)
	if count > 0 {
		utils.Error(c, http.StatusBadRequest, 40003, "handle or email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50001, "failed to process password")
		return
	}

	user := models.User{
		Name:         utils.Sanitize(req.Name),
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RolePublic,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(c, http.StatusBadRequest, 40003, "handle or email already registered")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Handle, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}

	utils.Success(c, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	// Identifier is the handle or email.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login authenticates by handle or email and returns a token.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid login payload")
		return
	}

	ident := strings.ToLower(strings.TrimSpace(req.Identifier))
	var user models.User
	err := a.db.Where("handle = ? OR email = ?", ident, ident).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusUnauthorized, 40104, "invalid credentials")
			return
		}
		utils.Error(c, http.StatusInternalServerError, 50000, "database error")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(c, http.StatusUnauthorized, 40104, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Handle, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}

	utils.Success(c, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	utils.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's account.
func (a *AuthController) Me(c *gin.Context) {
	userID, _ := getUserID(c)
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(c, user)
}

func validHandle(h string) bool {
	if len(h) < 3 || len(h) > 64 {
		return false
	}
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
