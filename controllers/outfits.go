package controllers

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/outfit"
	"github.com/rekeystam/StyleAIApp/services"
)

type SaveOutfitIn struct {
	Name        string `json:"name" validate:"required,max=120"`
	ItemIDs     []uint `json:"item_ids" validate:"required,min=1"`
	Occasion    string `json:"occasion" validate:"omitempty,max=50"`
	Confidence  int    `json:"confidence" validate:"omitempty,min=0,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	StylingTips string `json:"styling_tips" validate:"omitempty,max=1000"`
	WeatherNote string `json:"weather_note" validate:"omitempty,max=300"`
}

type OutfitsController struct {
	Composer *outfit.Composer
	Weather  services.WeatherServiceProvider
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.GET("/suggestions", controller.GetSuggestions)
	g.POST("/save", controller.SaveOutfit)
	g.GET("/saved", controller.ListSaved)
	g.GET("/shopping", controller.ListShoppingRecommendations)
}

// GetSuggestions runs the whole pipeline: wardrobe + profile + weather in,
// ranked outfit candidates out. An empty list is a valid answer, never an
// error.
func (controller *OutfitsController) GetSuggestions(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	occasion := c.QueryParam("occasion")

	var wardrobe []models.GarmentItem
	if err := db.Where("owner_id = ? AND is_verified = ?", user.ID, true).Order("id").Find(&wardrobe).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	profile, err := getOrCreateProfile(db, user.ID)
	if err != nil {
		sentry.CaptureException(err)
		profile = nil
	}

	var weather *models.WeatherSnapshot
	if profile != nil && profile.Location != nil && *profile.Location != "" {
		weather, err = controller.Weather.GetWeather(c.Request().Context(), db, *profile.Location)
		if err != nil {
			// weather is optional context, keep going without it
			fmt.Printf("[User %v] Weather lookup failed for %s: %v\n", user.ID, *profile.Location, err)
			weather = nil
		}
	}

	candidates := controller.Composer.Suggest(c.Request().Context(), user.ID, wardrobe, profile, weather, occasion)

	if err := outfit.AnalyzeGaps(db, user.ID, candidates, wardrobe, weather); err != nil {
		sentry.CaptureException(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"outfits": candidates,
		"weather": weather,
	})
}

func (controller *OutfitsController) SaveOutfit(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var req SaveOutfitIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// every referenced item must exist and belong to the caller
	var owned int64
	if err := db.Model(&models.GarmentItem{}).Where("owner_id = ? AND id IN ?", user.ID, req.ItemIDs).Count(&owned).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to verify items"})
	}
	if owned != int64(len(req.ItemIDs)) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Some items were not found in your wardrobe"})
	}

	itemIDs := make(pq.Int64Array, len(req.ItemIDs))
	for i, id := range req.ItemIDs {
		itemIDs[i] = int64(id)
	}
	saved := models.SavedOutfit{
		OwnerID:     user.ID,
		Name:        req.Name,
		ItemIDs:     itemIDs,
		Occasion:    req.Occasion,
		Confidence:  req.Confidence,
		Description: req.Description,
		StylingTips: req.StylingTips,
		WeatherNote: req.WeatherNote,
	}
	if err := db.Create(&saved).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save outfit, please try again"})
	}
	return c.JSON(http.StatusCreated, saved)
}

func (controller *OutfitsController) ListSaved(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var saved []models.SavedOutfit
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&saved).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved outfits"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"outfits": saved})
}

func (controller *OutfitsController) ListShoppingRecommendations(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var recommendations []models.ShoppingRecommendation
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Limit(10).Find(&recommendations).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch recommendations"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"recommendations": recommendations})
}
