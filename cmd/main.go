package main

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"taskdesk/internal/common"
	"taskdesk/internal/config"
	"taskdesk/internal/handlers"
	"taskdesk/internal/middleware"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
	"taskdesk/internal/services"
	"taskdesk/migrations"
	"taskdesk/pkg/database"
	"taskdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.InitLogger(cfg.Server.Env, cfg.Log.Level)
	log := logger.GetLogger()
	defer log.Sync()

	if cfg.JWT.Generated {
		log.Warn("JWT_SECRET not set, generated a random secret; tokens will not survive restarts")
	}

	ctx := context.Background()

	pool, err := database.WaitForDatabase(ctx, cfg.Database.URL, cfg.Database.WaitAttempts, cfg.Database.WaitDelay, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	log.Info("database connected")

	if err := database.RunMigrations(cfg.Database.URL, migrations.FS, "."); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations applied")

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	taskRepo := repositories.NewTaskRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	auditService := services.NewAuditService(auditLogsRepo, log)
	authService := services.NewAuthService(pool, tenantRepo, userRepo, tokenService, auditService)
	tenantService := services.NewTenantService(tenantRepo, auditService)
	userService := services.NewUserService(userRepo, auditService)
	projectService := services.NewProjectService(projectRepo, auditService)
	taskService := services.NewTaskService(taskRepo, projectRepo, auditService)

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	authHandlers := handlers.NewAuthHandlers(authService)
	tenantHandlers := handlers.NewTenantHandlers(tenantService)
	userHandlers := handlers.NewUserHandlers(userService)
	projectHandlers := handlers.NewProjectHandlers(projectService)
	taskHandlers := handlers.NewTaskHandlers(taskService)
	auditLogsHandlers := handlers.NewAuditLogsHandlers(auditService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	jwtMiddleware := echojwt.WithConfig(middleware.JWTConfig(tokenService))
	guard := middleware.TenantGuard()
	tenantAdminOnly := middleware.RequireRoles(models.RoleTenantAdmin)
	adminRoles := middleware.RequireRoles(models.RoleTenantAdmin, models.RoleSuperAdmin)

	// Public routes
	e.GET("/health", healthHandlers.Health)
	e.POST("/auth/register", authHandlers.Register)
	e.POST("/auth/login", authHandlers.Login)
	e.POST("/tenants", tenantHandlers.Create)

	// Authenticated routes
	auth := e.Group("/auth", jwtMiddleware)
	auth.GET("/me", authHandlers.Me)
	auth.POST("/logout", authHandlers.Logout)

	tenants := e.Group("/tenants", jwtMiddleware)
	tenants.GET("", tenantHandlers.List, middleware.RequireRoles(models.RoleSuperAdmin))
	tenants.GET("/:id", tenantHandlers.Get, middleware.TenantGuard("id"))
	tenants.PUT("/:id", tenantHandlers.Update, adminRoles, middleware.TenantGuard("id"))

	users := e.Group("/users", jwtMiddleware, guard)
	users.POST("", userHandlers.Create, tenantAdminOnly)
	users.GET("", userHandlers.List)
	users.GET("/:id", userHandlers.Get)
	users.PUT("/:id", userHandlers.Update, tenantAdminOnly)
	users.DELETE("/:id", userHandlers.Delete, tenantAdminOnly)

	projects := e.Group("/projects", jwtMiddleware, guard)
	projects.POST("", projectHandlers.Create)
	projects.GET("", projectHandlers.List)
	projects.GET("/:id", projectHandlers.Get)
	projects.PUT("/:id", projectHandlers.Update)
	projects.DELETE("/:id", projectHandlers.Delete)

	tasks := e.Group("/tasks", jwtMiddleware, guard)
	tasks.POST("", taskHandlers.Create)
	tasks.GET("", taskHandlers.List)
	tasks.GET("/:id", taskHandlers.Get)
	tasks.PUT("/:id", taskHandlers.Update)
	tasks.DELETE("/:id", taskHandlers.Delete)

	e.GET("/audit-logs", auditLogsHandlers.List, jwtMiddleware, guard, adminRoles)

	log.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
