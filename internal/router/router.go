package router

import (
	"net/http"

	"github.com/raaghavgupta2020/budget-app/internal/config"
	"github.com/raaghavgupta2020/budget-app/internal/handler"
	"github.com/raaghavgupta2020/budget-app/internal/middleware"
	"github.com/raaghavgupta2020/budget-app/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup configures the Gin engine with all API routes.
func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	accounts := store.NewAccountStore(db, cfg.Security.BcryptCost)
	entries := store.NewEntryStore(db)

	userHandler := handler.NewUserHandler(accounts, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireMinutes, log)
	entryHandler := handler.NewEntryHandler(entries, log)
	exportHandler := handler.NewExportHandler(entries, log)

	auth := middleware.Auth(cfg.JWT.Secret, accounts)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Budget App API"})
	})

	// account endpoints; register and login need no token
	user := r.Group("/user")
	user.POST("/register", userHandler.Register)
	user.POST("/login", userHandler.Login)
	user.GET("/getAll", auth, userHandler.GetAll)
	user.GET("/:username", auth, userHandler.Get)

	// entry endpoints, always scoped to the path owner
	entry := r.Group("/:username/entry", auth, middleware.RequireOwner())
	entry.GET("/getAll", entryHandler.GetAll)
	entry.GET("/getFiltered", entryHandler.GetFiltered)
	entry.POST("/addNew", entryHandler.AddNew)
	entry.PUT("/:id/edit", entryHandler.Edit)
	entry.DELETE("/:id", entryHandler.Delete)
	entry.GET("/summary", entryHandler.Summary)
	entry.GET("/export", exportHandler.Export)

	return r
}
