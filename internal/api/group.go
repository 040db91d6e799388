package api

import (
	"net/http" // HTTP status codes

	"rootine/internal/service" // Group workflows
	"rootine/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CreateGroupRequest is the body of POST /groups
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=64"`
	Description string `json:"description" binding:"required,min=1,max=256"`
}

// JoinGroupRequest is the body of POST /groups/join
type JoinGroupRequest struct {
	Code string `json:"code" binding:"required,min=4,max=12"`
}

// CreateGroupHandler creates a group owned by the caller
func CreateGroupHandler(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req CreateGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		group, err := groups.Create(c.Request.Context(), userID, req.Name, req.Description)
		if err != nil {
			respondError(c, err, "Failed to create group")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"group": group})
	}
}

// JoinGroupHandler adds the caller to the group with the given code
func JoinGroupHandler(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req JoinGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		group, err := groups.Join(c.Request.Context(), userID, req.Code)
		if err != nil {
			respondError(c, err, "Failed to join group")
			return
		}
		c.JSON(http.StatusOK, gin.H{"group": group})
	}
}

// ListGroupsHandler returns the caller's groups
func ListGroupsHandler(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		list, err := groups.ListMine(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to load groups")
			return
		}
		c.JSON(http.StatusOK, gin.H{"groups": list})
	}
}

// GroupDetailHandler returns the member view of a group
func GroupDetailHandler(groups *service.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		groupID, ok := paramID(c, "id")
		if !ok {
			return
		}
		detail, err := groups.Detail(c.Request.Context(), groupID, userID)
		if err != nil {
			respondError(c, err, "Failed to load group")
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// SubmitGroupProofHandler uploads the caller's proof for today and reports
// whether it completed the group's day
func SubmitGroupProofHandler(proofs *service.ProofService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		groupID, ok := paramID(c, "id")
		if !ok {
			return
		}
		img, description, err := readProofImage(c)
		if err != nil {
			respondError(c, err, "Failed to read upload")
			return
		}
		res, err := proofs.SubmitGroupProof(c.Request.Context(), service.GroupProofInput{
			GroupID:     groupID,
			UserID:      userID,
			Image:       img,
			Description: description,
		})
		if err != nil {
			respondError(c, err, "Failed to submit proof")
			return
		}
		if res.Award.Status == service.AwardGranted {
			utils.InvalidateWallets(c.Request.Context(), rdb, res.Award.MemberIDs...)
		}
		c.JSON(http.StatusCreated, res)
	}
}
