package dbhelper

import (
	"log"

	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {

		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ShoppingRecommendation{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SavedOutfit{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GarmentItem{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserProfile{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.WeatherCache{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserPushToken{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserAccount{})

	}
}

func Migrate(db *gorm.DB, model interface{}) {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %s", model)
		log.Fatal(err)
	}
}
