package api

import (
	"encoding/base64" // Upload size bound
	"errors"          // Error matching
	"fmt"             // Error wrapping
	"io"              // Reading uploads
	"net/http"        // HTTP status codes
	"strconv"         // String conversion
	"strings"         // String manipulation

	"rootine/internal/middleware" // Context keys
	"rootine/internal/service"    // Image type

	"github.com/gin-gonic/gin" // Gin web framework
)

// currentUser returns the authenticated user id
func currentUser(c *gin.Context) (uint, bool) {
	return middleware.UserID(c)
}

// requireUser returns the authenticated user id or answers 401
func requireUser(c *gin.Context) (uint, bool) {
	id, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}

// paramID parses a positive numeric path parameter or answers 400
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// pagination reads page and page_size (default 20, at most 100)
func pagination(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// ProofUpload is the JSON form of a proof upload
type ProofUpload struct {
	DataURL     string `json:"dataUrl" binding:"required"`
	Description string `json:"description" binding:"max=512"`
}

var (
	// ErrInvalidRequest is a body that does not bind to the expected shape
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUploadTooLarge is a body over maxUploadBody
	ErrUploadTooLarge = errors.New("upload too large")
)

// maxUploadBody bounds a proof request: a base64 encoded MaxImageBytes image
// plus room for the description and multipart or JSON framing.
var maxUploadBody = int64(base64.StdEncoding.EncodedLen(service.MaxImageBytes)) + 64<<10

// readProofImage accepts either multipart/form-data with an "image" file
// part or a JSON body carrying a base64 data URL. The body is cut off at
// maxUploadBody. An undecodable image is returned with its Err set so the
// service rejects it after its membership checks.
func readProofImage(c *gin.Context) (service.Image, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("image")
		if err != nil {
			if tooLarge(err) {
				return service.Image{}, "", ErrUploadTooLarge
			}
			return service.Image{}, c.PostForm("description"), nil
		}
		f, err := header.Open()
		if err != nil {
			return service.Image{}, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, service.MaxImageBytes+1))
		if err != nil {
			return service.Image{}, "", err
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		return service.Image{ContentType: contentType, Data: data}, c.PostForm("description"), nil
	}

	var req ProofUpload
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			return service.Image{}, "", ErrUploadTooLarge
		}
		return service.Image{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	img, err := service.ParseDataURL(req.DataURL)
	if err != nil {
		return service.Image{Err: err}, req.Description, nil
	}
	return img, req.Description, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
