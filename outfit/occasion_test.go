package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rekeystam/StyleAIApp/models"
)

func withStyle(item models.GarmentItem, style string) models.GarmentItem {
	item.Style = &style
	return item
}

func withFormality(item models.GarmentItem, formality string) models.GarmentItem {
	item.Formality = &formality
	return item
}

func occasionWardrobe() []models.GarmentItem {
	return []models.GarmentItem{
		garment(1, "White Tee", models.CategoryTops, "white"),
		withStyle(garment(2, "Oxford Shirt", models.CategoryTops, "blue"), "business"),
		withStyle(garment(3, "Running Shorts", models.CategoryBottoms, "black"), "athletic"),
		withFormality(garment(4, "Evening Gown", models.CategoryDresses, "black"), "formal"),
		garment(5, "Blue Jeans", models.CategoryBottoms, "blue"),
		withStyle(garment(6, "Gym Sneakers", models.CategoryShoes, "white"), "athletic"),
		garment(7, "Leather Belt", models.CategoryAccessories, "brown"),
	}
}

func itemIDs(items []models.GarmentItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestFilterByOccasionCasualExcludesVeryFormal(t *testing.T) {
	filtered := FilterByOccasion(occasionWardrobe(), "")
	assert.NotContains(t, itemIDs(filtered), uint(4), "gown excluded from casual")
	assert.Contains(t, itemIDs(filtered), uint(1))
	assert.Contains(t, itemIDs(filtered), uint(3))
}

func TestFilterByOccasionBusiness(t *testing.T) {
	filtered := FilterByOccasion(occasionWardrobe(), OccasionBusiness)
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(2), "tagged business shirt kept")
	assert.Contains(t, ids, uint(1), "plain tee is a versatile top")
	assert.Contains(t, ids, uint(7), "belt is versatile for the office")
	assert.NotContains(t, ids, uint(3), "athletic bottoms excluded")
	assert.NotContains(t, ids, uint(6), "gym sneakers excluded")
}

func TestFilterByOccasionFormalIsStrict(t *testing.T) {
	filtered := FilterByOccasion(occasionWardrobe(), OccasionFormal)
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(4))
	assert.NotContains(t, ids, uint(1))
	assert.NotContains(t, ids, uint(5))
}

func TestFilterByOccasionSporty(t *testing.T) {
	filtered := FilterByOccasion(occasionWardrobe(), OccasionSporty)
	ids := itemIDs(filtered)
	assert.Contains(t, ids, uint(3))
	assert.Contains(t, ids, uint(6))
	assert.NotContains(t, ids, uint(4))
}

func TestFilterByOccasionDateNight(t *testing.T) {
	filtered := FilterByOccasion(occasionWardrobe(), OccasionDateNight)
	ids := itemIDs(filtered)
	assert.NotContains(t, ids, uint(3), "athletic excluded from date night")
	assert.Contains(t, ids, uint(4))
	assert.Contains(t, ids, uint(5))
}

func TestFilterByOccasionUnknownPassesThrough(t *testing.T) {
	wardrobe := occasionWardrobe()
	filtered := FilterByOccasion(wardrobe, "halloween")
	assert.Len(t, filtered, len(wardrobe))
}
