package routes

import (
	"net/http"

	"github.com/ezequiel-pelliza/cajaclara/internal/config"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	domainRepo "github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/handler"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/middleware"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Pos       *handler.PosHandler
	Printer   *handler.PrinterHandler
	Catalog   *handler.CatalogHandler
	Expense   *handler.ExpenseHandler
	History   *handler.HistoryHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TerminalRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
			"storage": deps.Cfg.Storage.Driver,
		})
	}
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		v1.POST("/auth/pin", deps.RateLimiter.Middleware(), h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		protected.GET("/auth/me", h.Auth.Me)

		registerPosRoutes(protected.Group("", middleware.RequireArea(enum.AreaPOS)), h, deps)
		registerCatalogRoutes(protected.Group("/catalog", middleware.RequireArea(enum.AreaCatalog)), h)
		registerExpenseRoutes(protected.Group("", middleware.RequireArea(enum.AreaExpenses)), h)

		history := protected.Group("/history", middleware.RequireArea(enum.AreaHistory))
		{
			history.GET("", h.History.List)
			history.GET("/export", h.History.Export)
		}

		protected.GET("/dashboard", middleware.RequireArea(enum.AreaDashboard), h.Dashboard.GetKPIs)
	}

	return router
}

func registerPosRoutes(pos *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos.GET("/pos/menu", h.Pos.GetMenu)

	session := pos.Group("/pos/session")
	{
		session.GET("", h.Pos.GetSession)
		session.PUT("/channel", h.Pos.SetChannel)
		session.PUT("/notes", h.Pos.SetNotes)
		session.POST("/items", h.Pos.AddItem)
		session.DELETE("/items", h.Pos.ClearCart)
		session.POST("/items/:product_id/decrement", h.Pos.DecrementItem)
		session.PUT("/items/:product_id/note", h.Pos.SetItemNote)
		session.PUT("/discount", h.Pos.SetDiscount)
		session.POST("/payments", h.Pos.AddPayment)
		session.PUT("/payments/:index", h.Pos.UpdatePayment)
		session.DELETE("/payments/:index", h.Pos.RemovePayment)
		session.PUT("/default-method", h.Pos.SetDefaultMethod)
		session.POST("/confirm", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			TTL:    deps.Cfg.POS.IdempotencyTTL,
			Logger: deps.Logger,
		}), h.Pos.Confirm)
	}

	tabs := pos.Group("/pos/tabs")
	{
		tabs.GET("", h.Pos.ListTabs)
		tabs.POST("", h.Pos.OpenTab)
		tabs.POST("/:id/load", h.Pos.LoadTab)
		tabs.DELETE("/:id", h.Pos.AbandonTab)
	}

	pos.POST("/pos/sales/:id/print", h.Printer.PrintSale)
	pos.GET("/printer/status", h.Printer.GetStatus)
}

func registerCatalogRoutes(catalog *gin.RouterGroup, h *Handlers) {
	categories := catalog.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", h.Catalog.CreateCategory)
		categories.PUT("/:id", h.Catalog.UpdateCategory)
		categories.DELETE("/:id", h.Catalog.DeleteCategory)
	}

	items := catalog.Group("/items")
	{
		items.GET("", h.Catalog.ListItems)
		items.POST("", h.Catalog.CreateItem)
		items.PUT("/:id", h.Catalog.UpdateItem)
		items.DELETE("/:id", h.Catalog.DeleteItem)
	}

	catalog.POST("/reset", h.Catalog.Reset)
}

func registerExpenseRoutes(expenses *gin.RouterGroup, h *Handlers) {
	categories := expenses.Group("/expense-categories")
	{
		categories.GET("", h.Expense.ListCategories)
		categories.POST("", h.Expense.CreateCategory)
		categories.POST("/reset", h.Expense.ResetCategories)
		categories.PUT("/:id", h.Expense.UpdateCategory)
		categories.DELETE("/:id", h.Expense.DeleteCategory)
	}

	expenses.POST("/expenses", h.Expense.Record)
}
