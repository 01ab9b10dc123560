package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"umkm-pos/internal/config"
	"umkm-pos/internal/handler"
	"umkm-pos/internal/logger"
	"umkm-pos/internal/middleware"
	"umkm-pos/internal/model"
	"umkm-pos/internal/repository"
	"umkm-pos/internal/service"
	"umkm-pos/internal/session"
	"umkm-pos/internal/ws"
	"umkm-pos/pkg/apperror"
	"umkm-pos/pkg/database"
	"umkm-pos/pkg/jwt"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init("info", false)
		boot.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	// 2. Setup Database
	sqlLevel := gormlogger.Warn
	if cfg.Database.LogSQL {
		sqlLevel = gormlogger.Info
	}
	db, err := database.ConnectDB(cfg.Database.DSN(), log, sqlLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if cfg.App.AutoMigrate {
		if err := db.AutoMigrate(
			&model.Company{},
			&model.User{},
			&model.AuthSession{},
			&model.Category{},
			&model.Product{},
			&model.ProductVariation{},
			&model.InventoryRecord{},
			&model.InventoryTransaction{},
			&model.Transaction{},
			&model.TransactionItem{},
		); err != nil {
			log.Fatal().Err(err).Msg("Auto migration failed")
		}
	}

	// 3. Seed a demo store
	if cfg.App.SeedDemo {
		seedDemo(context.Background(), db, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	companyRepo := repository.NewCompanyRepo(db)
	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	resolver := session.NewResolver(repository.NewProfileSource(userRepo, companyRepo), log)
	signer := jwt.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := service.NewAuthService(db, userRepo, companyRepo, sessionRepo, signer, resolver, log)
	userService := service.NewUserService(userRepo, sessionRepo, resolver)
	companyService := service.NewCompanyService(companyRepo, resolver)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, wsHub)
	invService := service.NewInventoryService(db, inventoryRepo, productRepo, wsHub, log)
	salesService := service.NewSalesService(db, productRepo, inventoryRepo, txRepo, wsHub, cfg.Sales.TaxRate, log)
	dashService := service.NewDashboardService(txRepo, inventoryRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	companyHandler := handler.NewCompanyHandler(companyService)
	catalogHandler := handler.NewCatalogHandler(categoryService, productService)
	invHandler := handler.NewInventoryHandler(invService)
	salesHandler := handler.NewSalesHandler(salesService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "UMKM POS v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return apperror.Respond(c, apperror.New(e.Code, "", e.Message, ""))
			}
			log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
			return apperror.Respond(c, apperror.Internal())
		},
	})

	app.Use(recover.New())
	app.Use(logger.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins(cfg.App.CORSOrigins), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Routes
	api := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(authService, resolver, log)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	api.Get("/companies/directory", companyHandler.Directory)

	// ============ AUTHENTICATED ROUTES ============
	auth.Get("/session", requireAuth, authHandler.Session)
	auth.Post("/refresh", requireAuth, authHandler.Refresh)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Put("/password", requireAuth, authHandler.ChangePassword)

	protected := api.Group("", requireAuth)
	protected.Get("/profile", authHandler.Profile)
	protected.Get("/roles", userHandler.GetRoles)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserDelete), userHandler.DeleteUser)

	// Company Routes
	protected.Put("/companies/current", middleware.RequirePrivilege(model.PrivCompanyUpdate), companyHandler.UpdateCurrent)
	protected.Get("/companies/:id", companyHandler.GetCompany)

	// Everything below is tenant data.
	tenant := protected.Group("", middleware.RequireCompany())

	// Catalog Routes
	tenant.Get("/categories", middleware.RequirePrivilege(model.PrivCategoryView), catalogHandler.GetCategories)
	tenant.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryManage), catalogHandler.CreateCategory)
	tenant.Put("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), catalogHandler.UpdateCategory)
	tenant.Delete("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryManage), catalogHandler.DeleteCategory)

	tenant.Get("/products", middleware.RequirePrivilege(model.PrivProductView), catalogHandler.GetProducts)
	tenant.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), catalogHandler.GetProduct)
	tenant.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), catalogHandler.CreateProduct)
	tenant.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), catalogHandler.UpdateProduct)
	tenant.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), catalogHandler.DeleteProduct)

	// Inventory Routes
	tenant.Get("/inventory", middleware.RequirePrivilege(model.PrivInventoryView), invHandler.GetInventory)
	tenant.Get("/inventory/summary", middleware.RequirePrivilege(model.PrivInventoryView), invHandler.GetSummary)
	tenant.Get("/inventory/locations", middleware.RequirePrivilege(model.PrivInventoryView), invHandler.GetLocations)
	tenant.Get("/inventory/transactions", middleware.RequirePrivilege(model.PrivInventoryView), invHandler.GetMovements)
	tenant.Post("/inventory/adjust", middleware.RequirePrivilege(model.PrivInventoryAdjust), invHandler.Adjust)

	// Sales Routes
	tenant.Post("/cart/quote", middleware.RequirePrivilege(model.PrivTransactionCreate), salesHandler.Quote)
	tenant.Get("/transactions", middleware.RequirePrivilege(model.PrivTransactionView), salesHandler.GetTransactions)
	tenant.Get("/transactions/:id", middleware.RequirePrivilege(model.PrivTransactionView), salesHandler.GetTransaction)
	tenant.Post("/transactions", middleware.RequirePrivilege(model.PrivTransactionCreate), salesHandler.Checkout)
	tenant.Post("/transactions/held", middleware.RequirePrivilege(model.PrivTransactionCreate), salesHandler.Hold)

	// Dashboard Routes
	tenant.Get("/dashboard/metrics", middleware.RequirePrivilege(model.PrivReportView), dashHandler.GetMetrics)
	tenant.Get("/dashboard/alerts", middleware.RequireAnyPrivilege(model.PrivReportView, model.PrivInventoryView), dashHandler.GetAlerts)
	tenant.Get("/dashboard/top-products", middleware.RequirePrivilege(model.PrivReportView), dashHandler.GetTopProducts)
	tenant.Get("/reports/sales", middleware.RequirePrivilege(model.PrivReportView), dashHandler.GetSalesReport)

	// WebSocket Route (token passed as ?token=)
	app.Get("/ws", requireAuth, handler.UpgradeWS, handler.ServeWS(wsHub))

	// 8. Expired session cleanup
	go pruneSessions(ctx, sessionRepo, log)

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()
	log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Environment).Msg("Server started")

	// 9. Graceful Shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("Server exited")
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func pruneSessions(ctx context.Context, sessions repository.SessionRepository, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to delete expired sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("Expired sessions removed")
			}
		}
	}
}
