package Controllers_test

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/config"
	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

const testPassword = "secret123"

func openTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.TableType{}, &models.Table{},
		&models.StaticItem{}, &models.Wall{}, &models.Reservation{},
		&models.Category{}, &models.MenuItem{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		OpeningHour:        12,
		ClosingHour:        23,
		MaxDaysAdvance:     14,
		MinDuration:        1,
		MaxDuration:        6,
		BanquetTypeID:      5,
		TokenExpireMinutes: 60,
		UploadDir:          "public/uploads",
		BaseURL:            "http://localhost:8080",
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{Email: email, PasswordHash: string(hashed), Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func seedTestTableTypes(t *testing.T, db *gorm.DB) {
	types := []models.TableType{
		{ID: 1, Name: "circular", DisplayName: "Круглый столик", DefaultWidth: 60, DefaultHeight: 60, DefaultMaxGuests: 2},
		{ID: 5, Name: "banquet", DisplayName: "Банкетный зал", DefaultWidth: 200, DefaultHeight: 100, DefaultMaxGuests: 25},
	}
	for _, tt := range types {
		if err := db.Create(&tt).Error; err != nil {
			t.Fatalf("failed to seed table types: %v", err)
		}
	}
	if err := db.Create(&models.Room{Name: "Main Hall"}).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
}

func seedTestTable(t *testing.T, db *gorm.DB, typeID uint, maxGuests int) models.Table {
	table := models.Table{TypeID: typeID, TableNumber: 1, MaxGuests: maxGuests, RoomID: 1, IsActive: true}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return table
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}
