package route

import (
	"context"
	"time"

	"hearthbutler/cache"
	"hearthbutler/config"
	"hearthbutler/db"
	"hearthbutler/handler"
	"hearthbutler/middleware"
	"hearthbutler/model"
	"hearthbutler/notification"
	"hearthbutler/repository"
	"hearthbutler/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes wires configuration, storage, services and handlers onto
// the engine and starts the background expiry sweeper.
func SetupRoutes(r *gin.Engine, configPath string) error {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	gdb, err := db.InitDB(cfg)
	if err != nil {
		return err
	}

	if err := gdb.AutoMigrate(
		&model.Member{},
		&model.Food{},
		&model.InventoryItem{},
		&model.UsageRecord{},
		&model.WasteRecord{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.ShoppingList{},
		&model.ShoppingListItem{},
	); err != nil {
		return err
	}

	// Redis is optional: without an address the analysis cache degrades
	// to always-miss.
	var reports *cache.AnalysisCache
	if cfg.RedisConfig.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		ttl := time.Duration(cfg.RedisConfig.CacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = 15 * time.Minute
		}
		reports = cache.NewAnalysisCache(rdb, ttl)
	}

	inventoryRepository := repository.NewInventoryRepository(gdb)
	ledgerRepository := repository.NewLedgerRepository(gdb)
	foodRepository := repository.NewFoodRepository(gdb)
	recipeRepository := repository.NewRecipeRepository(gdb)
	shoppingRepository := repository.NewShoppingListRepository(gdb)
	memberRepository := repository.NewMemberRepository(gdb)

	tracker := service.NewInventoryTracker(inventoryRepository, ledgerRepository, reports, cfg.Engine)
	monitor := service.NewExpiryMonitor(inventoryRepository, notification.NewLogNotifier(), reports, cfg.Engine)
	analyzer := service.NewInventoryAnalyzer(inventoryRepository, ledgerRepository, foodRepository, reports, cfg.Engine)
	shopping := service.NewShoppingIntegration(tracker, analyzer, shoppingRepository)
	recipes := service.NewRecipeIntegration(recipeRepository, foodRepository, tracker, cfg.Engine)
	authService := service.NewAuthService(memberRepository, cfg)
	ingestor := service.NewReceiptIngestor(foodRepository, tracker)

	sweeper := service.NewSweeper(monitor, memberRepository, cfg.Engine.SweepInterval())
	sweeper.Start(context.Background())

	authHandler := handler.NewAuthHandler(authService)
	inventoryHandler := handler.NewInventoryHandler(tracker)
	expiryHandler := handler.NewExpiryHandler(monitor)
	analysisHandler := handler.NewAnalysisHandler(analyzer)
	shoppingHandler := handler.NewShoppingHandler(shopping)
	recipeHandler := handler.NewRecipeHandler(recipes)
	receiptHandler := handler.NewReceiptHandler(ingestor)

	r.Use(cors.Default())

	publicRoutes := r.Group("/")
	publicRoutes.POST("/auth/register", authHandler.Register)
	publicRoutes.POST("/auth/login", authHandler.Login)
	publicRoutes.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protectedRoutes := r.Group("/")
	protectedRoutes.Use(middleware.AuthenticateJWT(cfg))

	protectedRoutes.POST("/inventory/items", inventoryHandler.Create)
	protectedRoutes.GET("/inventory/items", inventoryHandler.List)
	protectedRoutes.GET("/inventory/items/:id", inventoryHandler.Get)
	protectedRoutes.PUT("/inventory/items/:id", inventoryHandler.Update)
	protectedRoutes.DELETE("/inventory/items/:id", inventoryHandler.Delete)
	protectedRoutes.POST("/inventory/consume", inventoryHandler.Consume)
	protectedRoutes.GET("/inventory/stats", inventoryHandler.Stats)
	protectedRoutes.POST("/inventory/receipts", receiptHandler.Import)

	protectedRoutes.POST("/expiry/refresh", expiryHandler.Refresh)
	protectedRoutes.GET("/expiry/alerts", expiryHandler.Alerts)
	protectedRoutes.POST("/expiry/expired", expiryHandler.HandleExpired)
	protectedRoutes.GET("/expiry/notifications", expiryHandler.Notifications)
	protectedRoutes.GET("/expiry/analysis", expiryHandler.Analysis)

	protectedRoutes.GET("/analysis", analysisHandler.Analysis)
	protectedRoutes.GET("/analysis/purchase-suggestions", analysisHandler.PurchaseSuggestions)

	protectedRoutes.GET("/shopping/suggestions", shoppingHandler.Suggestions)
	protectedRoutes.POST("/shopping/lists", shoppingHandler.CreateList)

	protectedRoutes.GET("/recipes/recommendations", recipeHandler.Recommend)
	protectedRoutes.POST("/recipes/:id/cook", recipeHandler.Cook)
	protectedRoutes.POST("/recipes/shopping-list", recipeHandler.ShoppingList)

	return nil
}
