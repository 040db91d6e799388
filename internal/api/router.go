package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS cache

	"rootine/internal/middleware" // Auth, limits and logging
	"rootine/internal/repository" // Data access
	"rootine/internal/service"    // Workflows

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the HTTP API is built from
type Deps struct {
	DB                 *gorm.DB
	Redis              *redis.Client
	JWTSecret          string
	FrontendURL        string
	RateLimitPerMinute int
	Verifier           service.Verifier
	Store              service.ImageStore
	UploadDir          string           // Served at /uploads when set
	Clock              func() time.Time // Optional, defaults to the server clock
}

// NewRouter wires repositories, services and handlers into a gin engine
func NewRouter(d Deps) *gin.Engine {
	registerValidators()

	wallets := repository.NewWalletRepository(d.DB)
	groups := repository.NewGroupRepository(d.DB)
	proofs := repository.NewGroupProofRepository(d.DB)
	awards := repository.NewAwardRepository(d.DB)
	habits := repository.NewHabitRepository(d.DB)
	garden := repository.NewGardenRepository(d.DB)

	awardSvc := service.NewAwardService(groups, proofs, awards)
	proofSvc := service.NewProofService(groups, proofs, awardSvc, d.Verifier, d.Store)
	groupSvc := service.NewGroupService(groups, proofs)
	habitSvc := service.NewHabitService(habits, d.Verifier, d.Store)
	gardenSvc := service.NewGardenService(garden)
	if d.Clock != nil {
		awardSvc.WithClock(d.Clock)
		proofSvc.WithClock(d.Clock)
		groupSvc.WithClock(d.Clock)
		habitSvc.WithClock(d.Clock)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(d.FrontendURL)))
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir) // Local image store
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	r.POST("/user", RegisterHandler(d.DB))
	r.POST("/user/login", LoginHandler(d.DB, d.JWTSecret))

	auth := middleware.JWTAuthMiddleware(d.JWTSecret)
	uploads := middleware.RateLimit(d.RateLimitPerMinute)

	walletGroup := r.Group("/wallet", auth)
	walletGroup.GET("", GetWalletHandler(wallets, d.Redis))
	walletGroup.GET("/transactions", GetTransactionHistoryHandler(wallets, d.Redis))

	habitGroup := r.Group("/habits", auth)
	habitGroup.POST("", CreateHabitHandler(habitSvc))
	habitGroup.GET("", ListHabitsHandler(habitSvc))
	habitGroup.GET("/:id/proofs", ListHabitProofsHandler(habitSvc))
	habitGroup.POST("/:id/proofs", uploads, SubmitHabitProofHandler(habitSvc, d.Redis))

	groupGroup := r.Group("/groups", auth)
	groupGroup.POST("", CreateGroupHandler(groupSvc))
	groupGroup.GET("", ListGroupsHandler(groupSvc))
	groupGroup.POST("/join", JoinGroupHandler(groupSvc))
	groupGroup.GET("/:id", GroupDetailHandler(groupSvc))
	groupGroup.POST("/:id/proofs", uploads, SubmitGroupProofHandler(proofSvc, d.Redis))

	gardenGroup := r.Group("/garden", auth)
	gardenGroup.GET("", ListGardenHandler(gardenSvc))
	gardenGroup.POST("/purchase", PurchaseHandler(gardenSvc, d.Redis))
	gardenGroup.PATCH("/:id/position", MoveFlowerHandler(gardenSvc))
	gardenGroup.PATCH("/:id/image", SetFlowerImageHandler(gardenSvc))
	gardenGroup.DELETE("/:id", DeleteFlowerHandler(gardenSvc))

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", auth, middleware.AdminOnlyMiddleware(d.DB))
	adminGroup.GET("/users", ListUsersHandler(d.DB, d.Redis))
	adminGroup.GET("/transactions", ListTransactionsHandler(d.DB, d.Redis))
	adminGroup.GET("/awards", ListAwardsHandler(awards, d.Redis))

	return r
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if origin == "" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = []string{origin}
	cfg.AllowCredentials = true
	return cfg
}
