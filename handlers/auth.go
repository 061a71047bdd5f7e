package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/miniblog/backend/models"
)

const tokenTTL = 24 * time.Hour

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Signup registers a regular user. Admin accounts come from the seed
// command, not from this endpoint.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "username and password are required")
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to hash password", StatusCode: http.StatusInternalServerError})
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashedBytes),
		Role:         models.RoleRegular,
	}
	if err := users.Create(c.Request.Context(), &user); err != nil {
		writeBadRequest(c, "username already taken")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and mints a bearer token with the username as
// subject.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "username and password are required")
		return
	}

	user, err := users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials", StatusCode: http.StatusUnauthorized})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials", StatusCode: http.StatusUnauthorized})
		return
	}

	tokenString, err := verifier.Sign(user.Username, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate token", StatusCode: http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: tokenString, User: *user})
}
