package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

var (
	jwtSecret        = []byte(os.Getenv("JWT_SECRET"))
	jwtRefreshSecret = []byte(os.Getenv("JWT_REFRESH_SECRET"))
)

func signToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// tokenResponse issues the access + refresh token pair alongside the user.
func (h *AuthHandler) tokenResponse(c *gin.Context, status int, user *models.User, message string) {
	accessToken, err := signToken(user, jwtSecret, 72*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := signToken(user, jwtRefreshSecret, 30*24*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(status, gin.H{
		"success":       true,
		"message":       message,
		"token":         accessToken,
		"refresh_token": refreshToken,
		"data":          user,
	})
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	// Check if username or email already exists
	var existing models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, input.Email).First(&existing).Error; err == nil {
		msg := "Username already taken"
		if existing.Email == input.Email {
			msg = "Email already registered"
		}
		fail(c, http.StatusBadRequest, msg)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username:       input.Username,
		Email:          input.Email,
		Password:       string(hashed),
		ProfilePicture: models.DefaultProfilePicture(input.Username),
		Role:           models.RoleUser,
		LastActive:     time.Now().UTC(),
	}

	if err := h.db.Create(&user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.tokenResponse(c, http.StatusCreated, &user, "User registered successfully")
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.db.Model(&user).UpdateColumn("last_active", time.Now().UTC())

	h.tokenResponse(c, http.StatusOK, &user, "Login successful")
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtRefreshSecret, nil
	})
	if err != nil || !token.Valid {
		fail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		fail(c, http.StatusUnauthorized, "User no longer exists")
		return
	}

	h.tokenResponse(c, http.StatusOK, &user, "Token refreshed")
}

// CheckUsername reports whether a username is still available.
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if len(username) < 3 {
		fail(c, http.StatusBadRequest, "Username too short")
		return
	}

	var n int64
	h.db.Model(&models.User{}).Where("username = ?", username).Count(&n)
	c.JSON(http.StatusOK, gin.H{"success": true, "available": n == 0})
}

// GetMe returns the authenticated user.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// Logout is a bookkeeping endpoint: tokens are stateless, the client drops
// them; the server just records activity.
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := currentUserID(c); ok {
		h.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("last_active", time.Now().UTC())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// UpdateDetails updates the authenticated user's profile fields.
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		Bio                string `json:"bio"`
		Location           string `json:"location"`
		AstronomyInterests string `json:"astronomy_interests"`
		Telescope          string `json:"telescope"`
		Camera             string `json:"camera"`
		Mount              string `json:"mount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	user.Bio = input.Bio
	user.Location = input.Location
	user.AstronomyInterests = input.AstronomyInterests
	user.Telescope = input.Telescope
	user.Camera = input.Camera
	user.Mount = input.Mount

	if err := h.db.Save(&user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Details updated", "data": user})
}

// UpdatePassword changes the password after verifying the current one.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		fail(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := h.db.Model(&user).UpdateColumn("password", string(hashed)).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	h.tokenResponse(c, http.StatusOK, &user, "Password updated")
}
