package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"rootine/internal/domain"     // Importing domain models
	"rootine/internal/repository" // Wallet queries
	"rootine/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// TransactionPage is one page of wallet history
type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"` // List of transactions
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"page_size"`    // Page size
	Total        int64                `json:"total"`        // Total transactions
	TotalPages   int                  `json:"total_pages"`  // Total pages
	Cached       bool                 `json:"cached"`       // Served from Redis
}

// GetWalletHandler returns the authenticated user's coin balance
func GetWalletHandler(wallets *repository.WalletRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.WalletCacheKey(userID)
		var wallet domain.Wallet
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &wallet); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"wallet": wallet, "cached": true})
			return
		}
		w, err := wallets.GetByUser(ctx, userID)
		if err != nil {
			respondError(c, err, "Failed to load wallet")
			return
		}
		if w == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, w, utils.CacheTTL) // Cache the wallet
		c.JSON(http.StatusOK, gin.H{"wallet": w, "cached": false})
	}
}

// GetTransactionHistoryHandler returns the user's coin movements, newest first
func GetTransactionHistoryHandler(wallets *repository.WalletRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		cacheKey := utils.TxHistoryCachePrefix(userID) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached TransactionPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		wallet, err := wallets.GetByUser(ctx, userID)
		if err != nil {
			respondError(c, err, "Failed to load wallet")
			return
		}
		if wallet == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		txs, total, err := wallets.History(ctx, wallet.ID, (page-1)*pageSize, pageSize)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		resp := TransactionPage{
			Transactions: txs,
			Page:         page,
			PageSize:     pageSize,
			Total:        total,
			TotalPages:   totalPages(total, pageSize),
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}
