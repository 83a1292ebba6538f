package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rekeystam/StyleAIApp/models"
)

func weatherWardrobe() []models.GarmentItem {
	return []models.GarmentItem{
		withSuitability(garment(1, "Wool Coat", models.CategoryOuterwear, "grey"), "cold"),
		withSuitability(garment(2, "Linen Shirt", models.CategoryTops, "white"), "sun"),
		withSuitability(garment(3, "Rain Jacket", models.CategoryOuterwear, "yellow"), "rain", "cold"),
		garment(4, "Blue Jeans", models.CategoryBottoms, "blue"),
	}
}

func TestFilterByWeatherNilSnapshotPassesThrough(t *testing.T) {
	wardrobe := weatherWardrobe()
	assert.Len(t, FilterByWeather(wardrobe, nil), len(wardrobe))
}

func TestFilterByWeatherCold(t *testing.T) {
	filtered := FilterByWeather(weatherWardrobe(), &models.WeatherSnapshot{TemperatureC: 0, Condition: "sunny"})
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(1))
	assert.Contains(t, ids, uint(3))
	assert.NotContains(t, ids, uint(2), "sun-only shirt dropped in frost")
	assert.Contains(t, ids, uint(4), "untagged items always retained")
}

func TestFilterByWeatherHot(t *testing.T) {
	filtered := FilterByWeather(weatherWardrobe(), &models.WeatherSnapshot{TemperatureC: 30, Condition: "sunny"})
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(2))
	assert.NotContains(t, ids, uint(1))
	assert.Contains(t, ids, uint(4))
}

func TestFilterByWeatherRain(t *testing.T) {
	filtered := FilterByWeather(weatherWardrobe(), &models.WeatherSnapshot{TemperatureC: 15, Condition: "rainy"})
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(3))
	assert.NotContains(t, ids, uint(2))
	assert.Contains(t, ids, uint(4))
}
