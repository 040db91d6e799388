package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"rootine/internal/service" // Service errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// errorStatus maps service errors to a status and client message
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrNotMember, http.StatusUnauthorized, "Not a member of this group"},
	{service.ErrNotOwner, http.StatusUnauthorized, "Unauthorized"},
	{service.ErrGroupNotFound, http.StatusNotFound, "Group not found"},
	{service.ErrHabitNotFound, http.StatusNotFound, "Goal not found"},
	{service.ErrItemNotFound, http.StatusNotFound, "Item not found"},
	{service.ErrDailyLimitReached, http.StatusBadRequest, "Daily submission limit reached"},
	{service.ErrInvalidImage, http.StatusBadRequest, "Invalid image"},
	{service.ErrVerificationRejected, http.StatusBadRequest, "Image verification failed. Please submit a clearer, relevant photo."},
	{service.ErrUnknownItem, http.StatusBadRequest, "Unknown flower id"},
	{service.ErrOutOfBounds, http.StatusBadRequest, "Target position out of bounds"},
	{service.ErrCellOccupied, http.StatusBadRequest, "Target pot is occupied"},
	{service.ErrNotSign, http.StatusBadRequest, "Only image signs can show an image"},
	{service.ErrInsufficientCoins, http.StatusForbidden, "Not enough coins"},
	{ErrInvalidRequest, http.StatusBadRequest, "Invalid request"},
	{ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "Upload too large"},
	{service.ErrStorage, http.StatusInternalServerError, "Failed to upload image"},
}

// respondError writes the client facing form of err. Unknown errors are
// logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			if e.status >= http.StatusInternalServerError {
				logError(c, err, fallback)
			}
			c.JSON(e.status, gin.H{"error": e.message})
			return
		}
	}
	logError(c, err, fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func logError(c *gin.Context, err error, msg string) {
	fields := logrus.Fields{
		"path":  c.FullPath(), // Route
		"error": err.Error(),  // Error message
	}
	if id, ok := currentUser(c); ok {
		fields["user_id"] = id
	}
	logrus.WithFields(fields).Error(msg)
}
