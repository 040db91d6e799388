package api

import (
	"net/http" // HTTP status codes

	"rootine/internal/domain"  // Importing domain models
	"rootine/internal/service" // Garden workflows
	"rootine/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// PurchaseRequest is the body of POST /garden/purchase
type PurchaseRequest struct {
	FlowerID string `json:"flowerId" binding:"required"`
	Position []int  `json:"position" binding:"required,gridpos"` // [x, y]
}

// MoveRequest is the body of PATCH /garden/:id/position
type MoveRequest struct {
	Position []int `json:"position" binding:"required,gridpos"`
}

// SetImageRequest is the body of PATCH /garden/:id/image
type SetImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,url,max=1024"`
}

// FlowerResponse is a garden item as the client draws it
type FlowerResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Image    *string `json:"image"`
	Position [2]int  `json:"position"`
}

func flowerResponse(f *domain.Flower) FlowerResponse {
	return FlowerResponse{ID: f.ID, Name: f.Name, Type: f.Type, Image: f.Image, Position: f.Position()}
}

// PurchaseHandler buys an item and plants it on the caller's grid
func PurchaseHandler(garden *service.GardenService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		flower, err := garden.Purchase(c.Request.Context(), userID, req.FlowerID, req.Position[0], req.Position[1])
		if err != nil {
			respondError(c, err, "Purchase failed")
			return
		}
		utils.InvalidateWallets(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, gin.H{"flower": flowerResponse(flower)})
	}
}

// ListGardenHandler returns every item on the caller's grid
func ListGardenHandler(garden *service.GardenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		flowers, err := garden.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to load garden")
			return
		}
		resp := make([]FlowerResponse, len(flowers))
		for i := range flowers {
			resp[i] = flowerResponse(&flowers[i])
		}
		c.JSON(http.StatusOK, gin.H{"flowers": resp})
	}
}

// MoveFlowerHandler moves one of the caller's items to an empty cell
func MoveFlowerHandler(garden *service.GardenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		flower, err := garden.Move(c.Request.Context(), userID, id, req.Position[0], req.Position[1])
		if err != nil {
			respondError(c, err, "Failed to move item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"flower": flowerResponse(flower)})
	}
}

// SetFlowerImageHandler changes the picture shown on a sign
func SetFlowerImageHandler(garden *service.GardenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req SetImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		flower, err := garden.SetImage(c.Request.Context(), userID, id, req.ImageURL)
		if err != nil {
			respondError(c, err, "Failed to update item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"flower": flowerResponse(flower)})
	}
}

// DeleteFlowerHandler removes one of the caller's items
func DeleteFlowerHandler(garden *service.GardenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := garden.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err, "Failed to delete item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
	}
}
