package database

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

func strPtr(s string) *string { return &s }

// tableTypes are the five fixed rows the reservation engine relies on.
// ID 5 (banquet) is load-bearing: the engine books it by whole days.
var tableTypes = []models.TableType{
	{ID: 1, Name: "circular", DisplayName: "Круглый столик", DefaultWidth: 60, DefaultHeight: 60, DefaultMaxGuests: 2, ColorCode: strPtr("#4CAF50")},
	{ID: 2, Name: "circular-large", DisplayName: "Большой круглый столик", DefaultWidth: 80, DefaultHeight: 80, DefaultMaxGuests: 4, ColorCode: strPtr("#4CAF50")},
	{ID: 3, Name: "rectangular", DisplayName: "Прямоугольный столик", DefaultWidth: 140, DefaultHeight: 60, DefaultMaxGuests: 10, ColorCode: strPtr("#2196F3")},
	{ID: 4, Name: "vip", DisplayName: "VIP-столик", DefaultWidth: 180, DefaultHeight: 180, DefaultMaxGuests: 8, ColorCode: strPtr("#FFC107")},
	{ID: 5, Name: "banquet", DisplayName: "Банкетный зал", DefaultWidth: 200, DefaultHeight: 100, DefaultMaxGuests: 25, ColorCode: strPtr("#9C27B0")},
}

// SeedTableTypes creates missing table types and refreshes existing ones
// so redeploys converge on the canonical five rows.
func SeedTableTypes(db *gorm.DB) error {
	for _, tt := range tableTypes {
		var existing models.TableType
		err := db.First(&existing, tt.ID).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&tt).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Created table type %q (id=%d)", tt.Name, tt.ID)
			continue
		}
		if err != nil {
			return err
		}
		existing.Name = tt.Name
		existing.DisplayName = tt.DisplayName
		existing.DefaultWidth = tt.DefaultWidth
		existing.DefaultHeight = tt.DefaultHeight
		existing.DefaultMaxGuests = tt.DefaultMaxGuests
		existing.ColorCode = tt.ColorCode
		if err := db.Save(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaultRoom creates the "Main Hall" room when no rooms exist yet.
func SeedDefaultRoom(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	room := models.Room{Name: "Main Hall", Description: "Default dining room"}
	if err := db.Create(&room).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Created default room %q (id=%d)", room.Name, room.ID)
	return nil
}

// SeedDefaultAdmin creates an admin account from ADMIN_EMAIL/ADMIN_PASSWORD
// when no admin exists. Skipped when the variables are unset.
func SeedDefaultAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    "Admin",
		Role:         "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Created default admin %s", admin.Email)
	return nil
}
