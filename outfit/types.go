package outfit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rekeystam/StyleAIApp/models"
)

// Candidate is one generated outfit suggestion. Only Confidence and Name are
// mutated after construction (by the scorer and the name collision handler).
type Candidate struct {
	Name        string `json:"name"`
	ItemIDs     []uint `json:"item_ids"`
	Occasion    string `json:"occasion"`
	Confidence  int    `json:"confidence"`
	Description string `json:"description"`
	StylingTips string `json:"styling_tips"`
	WeatherNote string `json:"weather_note"`
}

// ComboKey builds the duplicate-suppression key: sorted, comma-joined ids.
func ComboKey(itemIDs []uint) string {
	sorted := make([]uint, len(itemIDs))
	copy(sorted, itemIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

// resolveItems maps item ids onto the owner's wardrobe. Returns ok=false when
// any id does not resolve or appears twice.
func resolveItems(itemIDs []uint, wardrobe []models.GarmentItem) ([]models.GarmentItem, bool) {
	if len(itemIDs) == 0 {
		return nil, false
	}
	byID := make(map[uint]models.GarmentItem, len(wardrobe))
	for _, item := range wardrobe {
		byID[item.ID] = item
	}
	seen := make(map[uint]bool, len(itemIDs))
	resolved := make([]models.GarmentItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok || seen[id] {
			return nil, false
		}
		seen[id] = true
		resolved = append(resolved, item)
	}
	return resolved, true
}

func hasCategory(items []models.GarmentItem, category models.Category) bool {
	for _, item := range items {
		if item.Category == category {
			return true
		}
	}
	return false
}

func countCategory(items []models.GarmentItem, category models.Category) int {
	count := 0
	for _, item := range items {
		if item.Category == category {
			count++
		}
	}
	return count
}

func firstOfCategory(items []models.GarmentItem, category models.Category) *models.GarmentItem {
	for i := range items {
		if items[i].Category == category {
			return &items[i]
		}
	}
	return nil
}
