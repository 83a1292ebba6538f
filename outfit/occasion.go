package outfit

import (
	"strings"

	"github.com/rekeystam/StyleAIApp/models"
)

// Recognized occasion tags. Anything else passes the wardrobe through unchanged.
const (
	OccasionCasual    = "casual"
	OccasionBusiness  = "business"
	OccasionFormal    = "formal"
	OccasionDateNight = "date_night"
	OccasionSporty    = "sporty"
)

var businessKeywords = []string{
	"business", "blazer", "shirt", "blouse", "trousers", "slacks", "chino",
	"oxford", "loafer", "suit", "tailored", "office", "work",
}

var formalKeywords = []string{
	"formal", "suit", "tuxedo", "gown", "evening", "dress shoe", "oxford",
	"cocktail", "ceremony",
}

var athleticKeywords = []string{
	"athletic", "sport", "gym", "running", "training", "workout", "jogger",
	"sneaker", "legging", "track",
}

var veryCasualKeywords = []string{
	"gym", "workout", "pajama", "lounge", "sweatpant", "slipper",
}

var veryFormalKeywords = []string{
	"tuxedo", "gown", "black tie", "ceremony",
}

// itemTags flattens every descriptive field of an item into one lower-cased
// haystack for keyword matching.
func itemTags(item models.GarmentItem) string {
	parts := []string{item.Name, string(item.Category)}
	for _, ptr := range []*string{item.Subcategory, item.Style, item.Formality} {
		if ptr != nil {
			parts = append(parts, *ptr)
		}
	}
	parts = append(parts, item.OccasionSuitability...)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesAny(tags string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(tags, kw) {
			return true
		}
	}
	return false
}

// isVersatileForBusiness covers untagged staples that still work at the office.
func isVersatileForBusiness(item models.GarmentItem, tags string) bool {
	switch item.Category {
	case models.CategoryTops:
		return !matchesAny(tags, athleticKeywords)
	case models.CategoryBottoms:
		return !matchesAny(tags, athleticKeywords) && !strings.Contains(tags, "ripped")
	case models.CategoryShoes:
		return !strings.Contains(tags, "sneaker") && !matchesAny(tags, athleticKeywords)
	case models.CategoryAccessories:
		return strings.Contains(tags, "belt") || strings.Contains(tags, "watch")
	case models.CategoryOuterwear:
		return !matchesAny(tags, athleticKeywords)
	}
	return false
}

// FilterByOccasion narrows the wardrobe to items plausible for the requested
// occasion. Unknown occasions pass everything through.
func FilterByOccasion(items []models.GarmentItem, occasion string) []models.GarmentItem {
	occasion = strings.ToLower(strings.TrimSpace(occasion))
	kept := make([]models.GarmentItem, 0, len(items))
	for _, item := range items {
		tags := itemTags(item)
		keep := false
		switch occasion {
		case "", OccasionCasual:
			keep = !matchesAny(tags, veryFormalKeywords)
		case OccasionBusiness, "business_casual":
			keep = matchesAny(tags, businessKeywords) || isVersatileForBusiness(item, tags)
		case OccasionFormal:
			keep = matchesAny(tags, formalKeywords) ||
				(item.Formality != nil && strings.EqualFold(*item.Formality, "formal"))
		case OccasionSporty, "athletic":
			keep = matchesAny(tags, athleticKeywords)
		case OccasionDateNight:
			keep = !matchesAny(tags, athleticKeywords) && !matchesAny(tags, veryCasualKeywords)
		default:
			keep = true
		}
		if keep {
			kept = append(kept, item)
		}
	}
	return kept
}
