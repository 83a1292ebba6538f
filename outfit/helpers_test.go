package outfit

import (
	"context"
	"math/rand"

	"github.com/lib/pq"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/services"
)

func garment(id uint, name string, category models.Category, colors ...string) models.GarmentItem {
	return models.GarmentItem{
		JsonModel:  models.JsonModel{ID: id},
		Name:       name,
		OwnerID:    1,
		Category:   category,
		Colors:     pq.StringArray(colors),
		IsVerified: true,
	}
}

func withSubcategory(item models.GarmentItem, subcategory string) models.GarmentItem {
	item.Subcategory = &subcategory
	return item
}

func withSuitability(item models.GarmentItem, tags ...string) models.GarmentItem {
	item.WeatherSuitability = pq.StringArray(tags)
	return item
}

func withWarmth(item models.GarmentItem, level int) models.GarmentItem {
	item.WarmthLevel = &level
	return item
}

func testNamer() Namer {
	return Namer{Rand: rand.New(rand.NewSource(1))}
}

// stubStylist returns a canned response or error for every call.
type stubStylist struct {
	response *services.LLMResponse
	err      error
}

func (s stubStylist) ClassifyGarment(string, services.LLMModelName) (*services.LLMResponse, error) {
	return s.response, s.err
}

func (s stubStylist) SuggestOutfits(context.Context, services.StylistContext, services.LLMModelName) (*services.LLMResponse, error) {
	return s.response, s.err
}
