package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/config"
	"github.com/yeremiapane/restaurant-reserve/database"
	"github.com/yeremiapane/restaurant-reserve/middlewares"
	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/router"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.SeedTableTypes(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed table types: %v", err)
	}
	if err := database.SeedDefaultRoom(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed default room: %v", err)
	}
	if err := database.SeedDefaultAdmin(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed default admin: %v", err)
	}

	r := router.SetupRouter(db, cfg)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.TableType{},
		&models.Table{},
		&models.StaticItem{},
		&models.Wall{},
		&models.Reservation{},
		&models.Category{},
		&models.MenuItem{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
