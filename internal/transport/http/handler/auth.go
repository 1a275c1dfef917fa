package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lsb-music/internal/pkg/jwtutil"
	"lsb-music/internal/transport/http/response"
)

// AuthHandler issues tokens against the single shared access password. Each
// successful login gets a fresh client id so concurrent tabs are
// distinguishable in logs.
type AuthHandler struct {
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

type LoginRequest struct {
	Password string `json:"password" binding:"required,max=128"`
}

func NewAuthHandler(passwordHash, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid access password")
		return
	}

	clientID := uuid.NewString()
	token, err := jwtutil.GenerateToken(h.jwtSecret, h.jwtExpiration, clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue token failed")
		return
	}

	response.OK(c, gin.H{
		"token":     token,
		"client_id": clientID,
	})
}
