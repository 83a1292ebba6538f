package outfit

import (
	"strings"

	"github.com/rekeystam/StyleAIApp/models"
)

const (
	coldCutoffC = 5.0
	heatCutoffC = 25.0
)

var coldTags = []string{"cold", "winter", "warm"}
var heatTags = []string{"sun", "hot", "summer", "light"}
var rainTags = []string{"rain", "waterproof"}

func suitabilityHasAny(item models.GarmentItem, wanted []string) bool {
	for _, tag := range item.WeatherSuitability {
		lower := strings.ToLower(tag)
		for _, want := range wanted {
			if strings.Contains(lower, want) {
				return true
			}
		}
	}
	return false
}

// FilterByWeather drops items unsuited to the current conditions. Items with
// no suitability tags are always kept so sparsely classified wardrobes are not
// filtered to nothing.
func FilterByWeather(items []models.GarmentItem, weather *models.WeatherSnapshot) []models.GarmentItem {
	if weather == nil {
		return items
	}
	rainy := strings.EqualFold(weather.Condition, "rainy")
	kept := make([]models.GarmentItem, 0, len(items))
	for _, item := range items {
		if len(item.WeatherSuitability) == 0 {
			kept = append(kept, item)
			continue
		}
		if weather.TemperatureC < coldCutoffC && !suitabilityHasAny(item, coldTags) {
			continue
		}
		if weather.TemperatureC > heatCutoffC && !suitabilityHasAny(item, heatTags) {
			continue
		}
		if rainy && !suitabilityHasAny(item, rainTags) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
