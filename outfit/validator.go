package outfit

import (
	"strings"

	"github.com/rekeystam/StyleAIApp/models"
)

// Policy selects how strict structural validation is. Basic accepts any
// wearable pairing; Mandatory is applied to AI-composed outfits which must be
// complete head to toe.
type Policy int

const (
	PolicyBasic Policy = iota
	PolicyMandatory
)

const (
	layeringCutoffC       = 14.0
	coldAccessoryCutoffC  = 10.0
	maxDistinctColors     = 8
	maxAccessoriesPerLook = 3
	maxShoesPerLook       = 2
)

var coldAccessoryMarkers = []string{"gloves", "scarf", "hat", "beanie"}
var swimwearMarkers = []string{"swim", "bikini", "trunks"}
var winterCoatMarkers = []string{"winter coat", "parka", "puffer"}

// extremeClashPairs lists color pairs never allowed in one outfit.
var extremeClashPairs = [][2]string{
	{"neon orange", "hot pink"},
	{"neon green", "hot pink"},
	{"neon yellow", "neon purple"},
	{"neon orange", "neon green"},
}

// Validator checks whether an item-id set forms a wearable outfit. Rejection
// is an ordinary filtering outcome, not an error.
type Validator struct {
	Policy Policy
}

// IsValid applies the composition rules in order, short-circuiting on the
// first failure. wardrobe is the owner's full item set, used both to resolve
// ids and to decide whether conditional rules apply at all.
func (v Validator) IsValid(itemIDs []uint, wardrobe []models.GarmentItem, temperatureC *float64) bool {
	items, ok := resolveItems(itemIDs, wardrobe)
	if !ok {
		return false
	}
	minItems := 2
	if v.Policy == PolicyMandatory {
		minItems = 3
	}
	if len(items) < minItems {
		return false
	}
	if !withinCategoryCaps(items) {
		return false
	}
	if !v.composedProperly(items) {
		return false
	}
	if temperatureC != nil {
		if *temperatureC < layeringCutoffC && hasCategory(wardrobe, models.CategoryOuterwear) &&
			!hasCategory(items, models.CategoryOuterwear) {
			return false
		}
		if *temperatureC < coldAccessoryCutoffC && anyColdAccessory(wardrobe) && !anyColdAccessory(items) {
			return false
		}
	}
	if colorsClash(items) {
		return false
	}
	if swimwearWithWinterCoat(items) {
		return false
	}
	return true
}

func withinCategoryCaps(items []models.GarmentItem) bool {
	counts := map[models.Category]int{}
	for _, item := range items {
		counts[item.Category]++
	}
	for category, count := range counts {
		limit := 1
		switch category {
		case models.CategoryAccessories:
			limit = maxAccessoriesPerLook
		case models.CategoryShoes:
			limit = maxShoesPerLook
		}
		if count > limit {
			return false
		}
	}
	return true
}

func (v Validator) composedProperly(items []models.GarmentItem) bool {
	if v.Policy == PolicyMandatory {
		return hasCategory(items, models.CategoryTops) &&
			hasCategory(items, models.CategoryBottoms) &&
			hasCategory(items, models.CategoryShoes)
	}
	if hasCategory(items, models.CategoryDresses) {
		return true
	}
	if hasCategory(items, models.CategoryTops) && hasCategory(items, models.CategoryBottoms) {
		return true
	}
	if len(items) >= 3 && hasCategory(items, models.CategoryOuterwear) &&
		(hasCategory(items, models.CategoryTops) || hasCategory(items, models.CategoryBottoms)) {
		return true
	}
	return false
}

func anyColdAccessory(items []models.GarmentItem) bool {
	for _, item := range items {
		if item.Subcategory == nil {
			continue
		}
		lower := strings.ToLower(*item.Subcategory)
		for _, marker := range coldAccessoryMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

func colorsClash(items []models.GarmentItem) bool {
	colors := map[string]bool{}
	for _, item := range items {
		for _, color := range item.Colors {
			colors[strings.ToLower(strings.TrimSpace(color))] = true
		}
	}
	if len(colors) > maxDistinctColors {
		return true
	}
	for _, pair := range extremeClashPairs {
		if colors[pair[0]] && colors[pair[1]] {
			return true
		}
	}
	return false
}

func swimwearWithWinterCoat(items []models.GarmentItem) bool {
	swim, coat := false, false
	for _, item := range items {
		lower := strings.ToLower(item.Name)
		for _, marker := range swimwearMarkers {
			if strings.Contains(lower, marker) {
				swim = true
			}
		}
		for _, marker := range winterCoatMarkers {
			if strings.Contains(lower, marker) {
				coat = true
			}
		}
	}
	return swim && coat
}
