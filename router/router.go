package router

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/config"
	"github.com/yeremiapane/restaurant-reserve/controllers"
	"github.com/yeremiapane/restaurant-reserve/middlewares"
	"github.com/yeremiapane/restaurant-reserve/services"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Uploaded images are public but only image extensions are served.
	workDir, _ := os.Getwd()
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			allowed := false
			lower := strings.ToLower(c.Request.URL.Path)
			for _, ext := range imageExtensions {
				if strings.HasSuffix(lower, ext) {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatus(403)
				return
			}
		}
		c.Next()
	})
	r.Static("/uploads", filepath.Join(workDir, cfg.UploadDir))

	layoutSvc := services.NewLayoutService(db)
	reservationSvc := services.NewReservationService(db, cfg)

	userCtrl := controllers.NewUserController(db, cfg)
	menuCtrl := controllers.NewMenuController(db)
	roomCtrl := controllers.NewRoomController(db)
	tableTypeCtrl := controllers.NewTableTypeController(db)
	layoutCtrl := controllers.NewLayoutController(layoutSvc)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc)
	orderCtrl := controllers.NewOrderController(db)
	uploadCtrl := controllers.NewUploadController(cfg)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
		auth.POST("/login/oauth", userCtrl.LoginForm)
	}
	r.GET("/auth/me", middlewares.AuthMiddleware(), userCtrl.Me)

	// Public reads
	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/rooms", roomCtrl.GetAllRooms)
	r.GET("/rooms/:room_id", roomCtrl.GetRoomByID)
	r.GET("/layout", layoutCtrl.GetLayout)
	r.GET("/layout/enhanced", layoutCtrl.GetEnhancedLayout)
	r.GET("/layout/table-types", tableTypeCtrl.GetAllTableTypes)
	r.GET("/layout/table-types/:type_id", tableTypeCtrl.GetTableTypeByID)
	r.GET("/reserve/availability", reservationCtrl.Availability)

	// Admin mutations
	admin := r.Group("/")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.POST("/rooms", roomCtrl.CreateRoom)
		admin.PUT("/rooms/:room_id", roomCtrl.UpdateRoom)

		admin.POST("/layout/table-types", tableTypeCtrl.CreateTableType)
		admin.PUT("/layout/table-types/:type_id", tableTypeCtrl.UpdateTableType)

		admin.POST("/layout/save", layoutCtrl.SaveLayout)
		admin.POST("/layout/clear", layoutCtrl.ClearLayout)
		admin.POST("/layout/tables", layoutCtrl.AddTable)
		admin.POST("/layout/static-items", layoutCtrl.AddStaticItem)
		admin.POST("/layout/walls", layoutCtrl.AddWall)

		admin.POST("/menu/categories", menuCtrl.CreateCategory)
		admin.PUT("/menu/categories/:cat_id", menuCtrl.UpdateCategory)
		admin.DELETE("/menu/categories/:cat_id", menuCtrl.DeleteCategory)
		admin.POST("/menu/items", menuCtrl.CreateMenuItem)
		admin.PUT("/menu/items/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu/items/:item_id", menuCtrl.DeleteMenuItem)

		admin.GET("/reserve", reservationCtrl.ListByDate)
		admin.GET("/reserve/stats", reservationCtrl.Stats)
		admin.GET("/menu/orders/stats", orderCtrl.OrderStats)
	}

	// Authenticated booking users
	user := r.Group("/")
	user.Use(middlewares.AuthMiddleware())
	{
		user.POST("/reserve", reservationCtrl.Create)
		user.GET("/reserve/my", reservationCtrl.My)
		user.GET("/reserve/:reservation_id", reservationCtrl.Get)
		user.PUT("/reserve/:reservation_id", reservationCtrl.Update)
		user.DELETE("/reserve/:reservation_id", reservationCtrl.Cancel)
		user.PATCH("/reserve/:reservation_id/status", reservationCtrl.UpdateStatus)
		user.POST("/reserve/:reservation_id/order", orderCtrl.AddOrderItem)

		user.POST("/uploads/images", uploadCtrl.UploadImage)
	}

	return r
}
