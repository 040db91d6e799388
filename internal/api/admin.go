package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Date filters

	"rootine/internal/domain"     // Importing domain models
	"rootine/internal/repository" // Award listing
	"rootine/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uint          `json:"id"`       // User ID
	Username string        `json:"username"` // Username
	Role     string        `json:"role"`     // User role
	Wallet   domain.Wallet `json:"wallet"`   // Associated wallet
}

// adminCacheKey builds a cache key from the listed query parameters
func adminCacheKey(c *gin.Context, name string, params ...string) string {
	parts := make([]string, 0, len(params))
	for _, k := range params {
		parts = append(parts, k+"="+c.Query(k))
	}
	return "admin:" + name + ":" + strings.Join(parts, ":")
}

// serveCached answers from Redis when the key is present
func serveCached(c *gin.Context, rdb *redis.Client, key string) bool {
	var cached map[string]any
	found, err := utils.GetCache(c.Request.Context(), rdb, key, &cached)
	if err != nil || !found {
		return false
	}
	cached["cached"] = true
	c.JSON(http.StatusOK, cached)
	return true
}

// dayBound parses a YYYY-MM-DD filter in the server location
func dayBound(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(utils.DayLayout, value, utils.Location())
	return t, err == nil
}

// ListUsersHandler returns all users with their wallet info
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := adminCacheKey(c, "users", "page", "page_size")
		if serveCached(c, rdb, cacheKey) {
			return
		}
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		var total int64
		if err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
			respondError(c, err, "Failed to count users")
			return
		}
		var users []domain.User
		if err := db.WithContext(ctx).Preload("Wallet").Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
			respondError(c, err, "Failed to fetch users")
			return
		}
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{ID: u.ID, Username: u.Username, Role: u.Role, Wallet: u.Wallet}
		}
		respData := gin.H{
			"users":       resp,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.CacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns all transactions, optionally filtered by
// user, type and an inclusive day range
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := adminCacheKey(c, "txs", "user_id", "type", "from", "to", "page", "page_size")
		if serveCached(c, rdb, cacheKey) {
			return
		}
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		query := db.WithContext(ctx).Model(&domain.Transaction{})
		if userID := c.Query("user_id"); userID != "" {
			id, err := strconv.ParseUint(userID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
				return
			}
			query = query.Where("wallet_id IN (?)", db.Model(&domain.Wallet{}).Select("id").Where("user_id = ?", id))
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType)
		}
		if from := c.Query("from"); from != "" {
			t, ok := dayBound(from)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
				return
			}
			query = query.Where("created_at >= ?", t.UnixMilli())
		}
		if to := c.Query("to"); to != "" {
			t, ok := dayBound(to)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
				return
			}
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1).UnixMilli())
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondError(c, err, "Failed to count transactions")
			return
		}
		var txs []domain.Transaction
		if err := query.Order("created_at desc").Order("id desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&txs).Error; err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		respData := gin.H{
			"transactions": txs,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages(total, pageSize),
			"cached":       false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.CacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// ListAwardsHandler returns the group award ledger, filtered by group and day
func ListAwardsHandler(awards *repository.AwardRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := adminCacheKey(c, "awards", "group_id", "from", "to", "page", "page_size")
		if serveCached(c, rdb, cacheKey) {
			return
		}
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		var filter repository.AwardFilter
		if g := c.Query("group_id"); g != "" {
			id, err := strconv.ParseUint(g, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group_id"})
				return
			}
			filter.GroupID = uint(id)
		}
		for _, bound := range []struct {
			param string
			dest  *string
		}{{"from", &filter.From}, {"to", &filter.To}} {
			v := c.Query(bound.param)
			if v == "" {
				continue
			}
			if _, ok := dayBound(v); !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + bound.param + " date"})
				return
			}
			*bound.dest = v
		}
		list, total, err := awards.List(ctx, filter, (page-1)*pageSize, pageSize)
		if err != nil {
			respondError(c, err, "Failed to fetch awards")
			return
		}
		respData := gin.H{
			"awards":      list,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, utils.CacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}
