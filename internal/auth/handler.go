package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Handler issues admin tokens. There is exactly one account, defined by
// configuration; no user table exists.
type Handler struct {
	Tokens            TokenService
	AdminEmail        string
	AdminPasswordHash []byte // bcrypt hash, empty when login is disabled
}

func NewHandler(tokens TokenService, adminEmail string, adminPasswordHash []byte) *Handler {
	return &Handler{Tokens: tokens, AdminEmail: adminEmail, AdminPasswordHash: adminPasswordHash}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	if !h.Tokens.Configured() || h.AdminEmail == "" || len(h.AdminPasswordHash) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login not configured"})
		return
	}

	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email != strings.ToLower(h.AdminEmail) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.AdminPasswordHash, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := h.Tokens.Sign(h.AdminEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}
