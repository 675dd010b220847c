package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"inventory-catalog/internal/handler"
	"inventory-catalog/internal/middleware"
	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/service"
	"inventory-catalog/internal/ws"
	"inventory-catalog/pkg/config"
	"inventory-catalog/pkg/database"
	"inventory-catalog/pkg/jwt"
	"inventory-catalog/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(context.Background(), db, log)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	signer := jwt.NewSigner(cfg.JWTSecret)

	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	imageRepo := repository.NewImageRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, supplierRepo, imageRepo, wsHub, log)
	categoryService := service.NewCategoryService(categoryRepo, wsHub, log)
	supplierService := service.NewSupplierService(supplierRepo, wsHub, log)
	dashService := service.NewDashboardService(productRepo, supplierRepo, categoryRepo, log)
	authService := service.NewAuthService(userRepo, signer, log)
	userService := service.NewUserService(userRepo, roleRepo, log)

	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	imageHandler := handler.NewImageHandler(catalogService, supplierService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: 32 * 1024 * 1024, // multipart image uploads
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	// Image bytes are linked from the read models and served without a token.
	app.Get("/Image/GetImage/:id", imageHandler.GetImage)
	app.Get("/Supplier/GetSupplierImage/:id", imageHandler.GetSupplierImage)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(signer))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/export", productHandler.ExportProducts)
	protected.Get("/products/form-options",
		middleware.RequireAnyPrivilege(model.PrivProductCreate, model.PrivProductUpdate), productHandler.GetFormOptions)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), productHandler.DeleteProduct)

	// Categories
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege(model.PrivCategoryCreate), categoryHandler.CreateCategory)
	protected.Delete("/categories/:id", middleware.RequirePrivilege(model.PrivCategoryDelete), categoryHandler.DeleteCategory)

	// Suppliers
	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Post("/suppliers", middleware.RequirePrivilege(model.PrivSupplierCreate), supplierHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege(model.PrivSupplierUpdate), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege(model.PrivSupplierDelete), supplierHandler.DeleteSupplier)

	// User Management
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserManage), userHandler.GetUsers)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserManage), userHandler.CreateUser)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		log.Warn("failed to seed privileges", zap.Error(err))
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		log.Warn("failed to seed roles", zap.Error(err))
	}

	// 3. Assign privileges to roles
	allPrivileges, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		log.Warn("failed to load privileges", zap.Error(err))
		return
	}
	if err := roleRepo.GrantDefaultPrivileges(ctx, allPrivileges); err != nil {
		log.Warn("failed to grant role privileges", zap.Error(err))
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Warn("failed to look up admin user", zap.Error(err))
		return
	}

	masterRole, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		log.Warn("master admin role missing", zap.Error(err))
		return
	}

	admin := &model.User{
		Email:      defaultAdminEmail,
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	if err := admin.SetPassword(defaultAdminPassword); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", defaultAdminEmail), zap.String("role", model.RoleMasterAdmin))
}
