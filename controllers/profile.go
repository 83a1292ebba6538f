package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
)

type ProfileController struct {
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("/me", controller.GetProfile)
	g.PUT("/me", controller.UpdateProfile)
	g.POST("/push", controller.RegisterPushToken)
}

// getOrCreateProfile returns the owner's profile, creating an empty one on
// first access.
func getOrCreateProfile(db *gorm.DB, ownerID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	r := db.Limit(1).Find(&profile, "owner_id = ?", ownerID)
	if r.Error != nil {
		return nil, r.Error
	}
	if r.RowsAffected == 0 {
		profile = models.UserProfile{OwnerID: ownerID}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
	}
	return &profile, nil
}

func (controller *ProfileController) GetProfile(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	profile, err := getOrCreateProfile(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Something happened"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":    user.Name,
		"email":   user.Email,
		"avatar":  user.AvatarUrl,
		"profile": profile,
	})
}

func (controller *ProfileController) UpdateProfile(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req models.ProfileUpdateIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	profile, err := getOrCreateProfile(db, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Something happened"})
	}
	if req.BodyType != nil {
		profile.BodyType = req.BodyType
	}
	if req.SkinTone != nil {
		profile.SkinTone = req.SkinTone
	}
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.FavoriteColors != nil {
		profile.FavoriteColors = pq.StringArray(req.FavoriteColors)
	}
	if req.PreferredStyles != nil {
		profile.PreferredStyles = pq.StringArray(req.PreferredStyles)
	}
	if req.AvoidColors != nil {
		profile.AvoidColors = pq.StringArray(req.AvoidColors)
	}
	if err := db.Save(profile).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save profile, please try again"})
	}
	return c.JSON(http.StatusOK, profile)
}

func (controller *ProfileController) RegisterPushToken(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req models.UserPushIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Token == "" || !models.ValidatePlatformRaw(req.Platform) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please provide token and platform"})
	}

	var existing models.UserPushToken
	r := db.Limit(1).Find(&existing, "user_account_id = ? AND token = ?", user.ID, req.Token)
	if r.RowsAffected > 0 {
		existing.Active = true
		existing.Platform = models.ScanPlatform(req.Platform)
		db.Save(&existing)
		return c.JSON(http.StatusOK, map[string]string{"message": "Push token refreshed"})
	}
	pushToken := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.ScanPlatform(req.Platform),
		Token:         req.Token,
		Active:        true,
	}
	if err := db.Create(&pushToken).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save push token"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Push token registered"})
}
