package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"rootine/internal/domain"     // Importing domain models
	"rootine/internal/repository" // Duplicate key detection
	"rootine/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the body of POST /user
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries a session token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z]+$`)

// isValidUsername checks if the username contains only alphabetic characters
func isValidUsername(username string) bool {
	return len(username) <= 64 && usernamePattern.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 15 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 15
}

// RegisterHandler creates a user together with an empty coin wallet
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be alphabetic only"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-15 characters"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Lowercase usernames keep uniqueness case-insensitive
		user := domain.User{Username: strings.ToLower(req.Username), Password: string(hash), Role: domain.RoleUser}
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Wallet").Create(&user).Error; err != nil {
				return err
			}
			user.Wallet = domain.Wallet{UserID: user.ID}
			return tx.Create(&user.Wallet).Error
		})
		if repository.IsDuplicateKey(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": user.Username, // Requested username
				"error":    err.Error(),   // Error message
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,        // New user
			"wallet_id": user.Wallet.ID, // Wallet created with it
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
