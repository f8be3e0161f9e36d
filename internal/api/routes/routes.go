package routes

import (
	"jammanage-backend/internal/api/handlers"
	"jammanage-backend/internal/api/middleware"
	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"
	"jammanage-backend/internal/services"
	"jammanage-backend/pkg/cache"
	"jammanage-backend/pkg/jwt"
	"jammanage-backend/pkg/ratelimit"
	"jammanage-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Deps carries the shared infrastructure the route tree is wired with.
type Deps struct {
	DB      *mongo.Database
	Redis   *redis.Client
	JWTUtil *jwt.JWTUtil
	Logger  *zap.Logger
}

// SetupRoutes wires repositories, services and handlers, then mounts the
// public catalogue and the owner-gated management API under /api/v1.
func SetupRoutes(router *gin.Engine, deps Deps) {
	log := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	vehicleRepo := repository.NewVehicleRepository(deps.DB)
	featureMapRepo := repository.NewFeatureMapRepository(deps.DB)
	centerRepo := repository.NewServiceCenterRepository(deps.DB)

	taxonomyRepos := make(map[string]*repository.TaxonomyRepository, len(models.TaxonomyKinds))
	for _, kind := range models.TaxonomyKinds {
		taxonomyRepos[kind.Slug] = repository.NewTaxonomyRepository(deps.DB, kind.Collection)
	}

	// Services
	authService := services.NewAuthService(userRepo, deps.JWTUtil)
	userService := services.NewUserService(userRepo)

	vehicleService := services.NewVehicleService(vehicleRepo, services.TaxonomyStores{
		Makes:         taxonomyRepos["makes"],
		VehicleModels: taxonomyRepos["models"],
		Variants:      taxonomyRepos["variants"],
		BodyTypes:     taxonomyRepos["body-types"],
		AxleConfigs:   taxonomyRepos["axle-configs"],
		FuelTypes:     taxonomyRepos["fuel-types"],
		EmissionNorms: taxonomyRepos["emission-norms"],
		Transmissions: taxonomyRepos["transmissions"],
		FeatureTags:   taxonomyRepos["feature-tags"],
	}, featureMapRepo, log)

	centerService := services.NewServiceCenterService(
		centerRepo,
		taxonomyRepos["service-center-types"],
		taxonomyRepos["vehicle-brands"],
		taxonomyRepos["service-types"],
		log,
	)

	taxonomyServices := make(map[string]*services.TaxonomyService, len(models.TaxonomyKinds))
	for _, kind := range models.TaxonomyKinds {
		var parents *repository.TaxonomyRepository
		if kind.ParentKind != "" {
			parents = taxonomyRepos[kind.ParentKind]
		}
		var parentStore services.TaxonomyStore
		if parents != nil {
			parentStore = parents
		}
		taxonomyServices[kind.Slug] = services.NewTaxonomyService(kind, taxonomyRepos[kind.Slug], parentStore, log)
	}

	// Optional Redis-backed listing cache and rate limiter.
	var listingCache cache.ListingCacheManager
	if deps.Redis != nil {
		redisCache := cache.NewRedisListingCache(deps.Redis, cache.DefaultCacheConfig(), log)
		listingCache = redisCache
		vehicleService.SetListingCache(redisCache)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, log)
	centerHandler := handlers.NewServiceCenterHandler(centerService, log)
	publicHandler := handlers.NewPublicHandler(vehicleService, listingCache, log)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)

	api := router.Group("/api/v1")

	if deps.Redis != nil {
		limiter := ratelimit.NewRedisRateLimiter(deps.Redis, ratelimit.DefaultConfig())
		api.Use(middleware.RateLimit(limiter, log))
	}

	api.GET("/health", healthHandler.Health)

	// Public catalogue consumed by the marketing site.
	public := api.Group("/public")
	{
		public.GET("/vehicles", publicHandler.ListVehicles)
		public.GET("/vehicles/:slug", publicHandler.GetVehicleBySlug)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.GET("/me", middleware.NewAuthMiddleware(deps.JWTUtil), authHandler.Profile)
	}

	// Management routes require an authenticated owner.
	protected := api.Group("/")
	protected.Use(middleware.NewAuthMiddleware(deps.JWTUtil), middleware.RequireRole(models.RoleOwner))
	{
		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleHandler.GetVehicles)
			vehicles.POST("", vehicleHandler.CreateVehicle)
			vehicles.GET("/:id", vehicleHandler.GetVehicle)
			vehicles.PATCH("/:id", vehicleHandler.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleHandler.ArchiveVehicle)
		}

		for _, kind := range models.TaxonomyKinds {
			handler := handlers.NewTaxonomyHandler(taxonomyServices[kind.Slug], log)
			group := protected.Group("/" + kind.Slug)
			{
				group.GET("", handler.List)
				group.POST("", handler.Create)
				group.GET("/:id", handler.Get)
				group.PATCH("/:id", handler.Update)
				group.DELETE("/:id", handler.Delete)
			}
		}

		centers := protected.Group("/service-centers")
		{
			centers.GET("", centerHandler.List)
			centers.POST("", centerHandler.Create)
			centers.GET("/:id", centerHandler.Get)
			centers.PATCH("/:id", centerHandler.Update)
			centers.DELETE("/:id", centerHandler.Delete)
		}

		users := protected.Group("/users")
		{
			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}
}
