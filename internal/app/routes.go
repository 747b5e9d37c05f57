package app

import (
	"github.com/akshay911-01/dbms-proj/internal/auth"
	"github.com/akshay911-01/dbms-proj/internal/cache"
	"github.com/akshay911-01/dbms-proj/internal/config"
	"github.com/akshay911-01/dbms-proj/internal/handlers"
	"github.com/akshay911-01/dbms-proj/internal/repo"
	"github.com/akshay911-01/dbms-proj/internal/service"
	"github.com/akshay911-01/dbms-proj/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	authHandler := handlers.NewAuthHandler(userSvc, issuer)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	expenseRepo := repo.NewPGExpenseRepo(db)
	var expenseCache *cache.ExpenseCache
	if rdb != nil {
		expenseCache = cache.NewExpenseCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	expenseSvc := service.NewExpenseService(expenseRepo, expenseCache)
	expenseHandler := handlers.NewExpenseHandler(expenseSvc)

	gate := auth.RequireToken(issuer)
	api := r.Group("/api", gate)
	registerExpenseRoutes(api, expenseHandler)
	r.GET("/export-excel", gate, expenseHandler.Export)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Expense Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"message": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerExpenseRoutes(api *gin.RouterGroup, h *handlers.ExpenseHandler) {
	api.POST("/expenses/add", h.Add)
	api.GET("/expenses", h.List)
	api.GET("/expenses/calendar", h.Calendar)
	api.GET("/expenses/date/:date", h.ListByDate)
	api.DELETE("/expenses/:id", h.Delete)
}
