package api

import (
	"net/http" // HTTP status codes

	"rootine/internal/service" // Habit workflows
	"rootine/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CreateHabitRequest is the body of POST /habits
type CreateHabitRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=128"`
	Description string `json:"description" binding:"max=512"`
}

// CreateHabitHandler creates a personal habit
func CreateHabitHandler(habits *service.HabitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req CreateHabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		habit, err := habits.Create(c.Request.Context(), userID, req.Title, req.Description)
		if err != nil {
			respondError(c, err, "Failed to create goal")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"goal": habit})
	}
}

// ListHabitsHandler returns the caller's habits with their proofs
func ListHabitsHandler(habits *service.HabitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		list, err := habits.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to load goals")
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": list})
	}
}

// ListHabitProofsHandler returns the proofs of one of the caller's habits
func ListHabitProofsHandler(habits *service.HabitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		habitID, ok := paramID(c, "id")
		if !ok {
			return
		}
		proofs, err := habits.ListProofs(c.Request.Context(), userID, habitID)
		if err != nil {
			respondError(c, err, "Failed to load proofs")
			return
		}
		c.JSON(http.StatusOK, gin.H{"proofs": proofs})
	}
}

// SubmitHabitProofHandler stores an individual proof and credits its coins
func SubmitHabitProofHandler(habits *service.HabitService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		habitID, ok := paramID(c, "id")
		if !ok {
			return
		}
		img, description, err := readProofImage(c)
		if err != nil {
			respondError(c, err, "Failed to read upload")
			return
		}
		res, err := habits.SubmitProof(c.Request.Context(), service.HabitProofInput{
			HabitID:     habitID,
			UserID:      userID,
			Image:       img,
			Description: description,
		})
		if err != nil {
			respondError(c, err, "Failed to submit proof")
			return
		}
		if res.Coins > 0 {
			utils.InvalidateWallets(c.Request.Context(), rdb, userID)
		}
		c.JSON(http.StatusCreated, res)
	}
}
