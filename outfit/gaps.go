package outfit

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
)

const (
	gapTriggerConfidence = 70
	maxGapSuggestions    = 5
)

// essentialColors are wardrobe staples every closet should cover.
var essentialColors = []string{"black", "white", "navy", "grey"}

// categoryGapSuggestions maps a missing category to a shopping hint.
var categoryGapSuggestions = map[models.Category]string{
	models.CategoryTops:        "A few versatile tops (plain tee, button-down shirt)",
	models.CategoryBottoms:     "Well-fitting trousers or dark jeans",
	models.CategoryDresses:     "A simple day-to-night dress",
	models.CategoryOuterwear:   "A versatile blazer or cardigan for layering",
	models.CategoryAccessories: "A belt and a watch to finish your looks",
	models.CategoryShoes:       "A pair of clean, neutral everyday shoes",
}

var coldWeatherSuggestions = []string{
	"A warm coat or parka", "A chunky sweater or thermal layer", "Insulated boots",
}

var hotWeatherSuggestions = []string{
	"Light breathable shirts", "Shorts or a light skirt", "Sandals and a sun hat",
}

var rainSuggestions = []string{
	"A waterproof jacket", "Rain boots", "A compact umbrella",
}

// AnalyzeGaps inspects the ranked suggestions and, if any scored below 70,
// persists a shopping recommendation covering missing categories, missing
// staple colors and weather-driven needs.
func AnalyzeGaps(db *gorm.DB, ownerID uint, ranked []Candidate, wardrobe []models.GarmentItem, weather *models.WeatherSnapshot) error {
	var weakSum, weakCount int
	for _, candidate := range ranked {
		if candidate.Confidence < gapTriggerConfidence {
			weakSum += candidate.Confidence
			weakCount++
		}
	}
	if weakCount == 0 {
		return nil
	}

	suggestions := []string{}
	for _, category := range models.AllCategories {
		if !hasCategory(wardrobe, category) {
			suggestions = append(suggestions, categoryGapSuggestions[category])
		}
	}
	for _, color := range missingEssentialColors(wardrobe) {
		suggestions = append(suggestions, fmt.Sprintf("A staple piece in %s", color))
	}
	suggestions = append(suggestions, weatherSuggestions(weather)...)
	if len(suggestions) > maxGapSuggestions {
		suggestions = suggestions[:maxGapSuggestions]
	}
	if len(suggestions) == 0 {
		return nil
	}

	record := models.ShoppingRecommendation{
		OwnerID:     ownerID,
		Suggestions: pq.StringArray(suggestions),
		Confidence:  weakSum / weakCount,
	}
	if err := db.Create(&record).Error; err != nil {
		return fmt.Errorf("saving shopping recommendation: %w", err)
	}
	return nil
}

func missingEssentialColors(wardrobe []models.GarmentItem) []string {
	present := map[string]bool{}
	for _, item := range wardrobe {
		for _, color := range item.Colors {
			present[strings.ToLower(color)] = true
		}
	}
	missing := []string{}
	for _, color := range essentialColors {
		if !present[color] {
			missing = append(missing, color)
		}
	}
	return missing
}

func weatherSuggestions(weather *models.WeatherSnapshot) []string {
	if weather == nil {
		return nil
	}
	if strings.EqualFold(weather.Condition, "rainy") {
		return rainSuggestions
	}
	if weather.TemperatureC < coldCutoffC {
		return coldWeatherSuggestions
	}
	if weather.TemperatureC > heatCutoffC {
		return hotWeatherSuggestions
	}
	return nil
}
