package outfit

import (
	"sort"
	"strings"

	"github.com/rekeystam/StyleAIApp/models"
)

const (
	defaultBaseConfidence = 80
	maxRankedSuggestions  = 5

	layeringBonus       = 10
	layeringPenalty     = 25
	layeringFloor       = 40
	weatherMatchBonus   = 5
	weatherMismatchDrop = 20
	weatherDropFloor    = 50
	favoriteColorBonus  = 5
	avoidColorPenalty   = 10
	avoidColorFloor     = 60
)

// ScoreCandidate adjusts the candidate's confidence for weather fitness and
// color preferences, clamping the final value into [0,100].
func ScoreCandidate(c *Candidate, wardrobe []models.GarmentItem, weather *models.WeatherSnapshot, profile *models.UserProfile) {
	if c.Confidence == 0 {
		c.Confidence = defaultBaseConfidence
	}
	items, ok := resolveItems(c.ItemIDs, wardrobe)
	if !ok {
		c.Confidence = clamp(c.Confidence, 0, 100)
		return
	}
	if weather != nil {
		scoreLayering(c, items, weather)
		scoreWeatherFitness(c, items, weather)
	}
	if profile != nil {
		scorePreferences(c, items, profile)
	}
	c.Confidence = clamp(c.Confidence, 0, 100)
}

func scoreLayering(c *Candidate, items []models.GarmentItem, weather *models.WeatherSnapshot) {
	if weather.TemperatureC >= coldAccessoryCutoffC {
		return
	}
	if hasCategory(items, models.CategoryOuterwear) || hasBusinessLayerTop(items) {
		c.Confidence = clamp(c.Confidence+layeringBonus, 0, 100)
		return
	}
	c.Confidence = clampFloor(c.Confidence-layeringPenalty, layeringFloor)
}

func hasBusinessLayerTop(items []models.GarmentItem) bool {
	for _, item := range items {
		if item.Category != models.CategoryTops {
			continue
		}
		tags := itemTags(item)
		if strings.Contains(tags, "blazer") || strings.Contains(tags, "cardigan") ||
			strings.Contains(tags, "sweater") {
			return true
		}
	}
	return false
}

// scoreWeatherFitness checks every item against the temperature/condition
// thresholds. Untagged items with no warmth level count as suitable.
func scoreWeatherFitness(c *Candidate, items []models.GarmentItem, weather *models.WeatherSnapshot) {
	rainy := strings.EqualFold(weather.Condition, "rainy")
	checkedAny := false
	for _, item := range items {
		if len(item.WeatherSuitability) == 0 && item.WarmthLevel == nil {
			continue
		}
		checkedAny = true
		suited := true
		if weather.TemperatureC < coldCutoffC {
			suited = suitabilityHasAny(item, coldTags) ||
				(item.WarmthLevel != nil && *item.WarmthLevel >= 2)
		} else if weather.TemperatureC > heatCutoffC {
			suited = suitabilityHasAny(item, heatTags) ||
				(item.WarmthLevel != nil && *item.WarmthLevel <= 2)
		}
		if suited && rainy && len(item.WeatherSuitability) > 0 {
			suited = suitabilityHasAny(item, rainTags)
		}
		if !suited {
			c.Confidence = clampFloor(c.Confidence-weatherMismatchDrop, weatherDropFloor)
			return
		}
	}
	if checkedAny {
		c.Confidence = clamp(c.Confidence+weatherMatchBonus, 0, 100)
	}
}

func scorePreferences(c *Candidate, items []models.GarmentItem, profile *models.UserProfile) {
	if colorListMatches(items, profile.FavoriteColors) {
		c.Confidence = clamp(c.Confidence+favoriteColorBonus, 0, 100)
	}
	if colorListMatches(items, profile.AvoidColors) {
		c.Confidence = clampFloor(c.Confidence-avoidColorPenalty, avoidColorFloor)
	}
}

func colorListMatches(items []models.GarmentItem, preferred []string) bool {
	for _, item := range items {
		for _, color := range item.Colors {
			lower := strings.ToLower(color)
			for _, want := range preferred {
				if strings.Contains(lower, strings.ToLower(want)) {
					return true
				}
			}
		}
	}
	return false
}

// RankAndTruncate sorts candidates by confidence descending and keeps the
// top 5. Ties keep their original order.
func RankAndTruncate(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > maxRankedSuggestions {
		candidates = candidates[:maxRankedSuggestions]
	}
	return candidates
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// clampFloor keeps a penalty from dragging confidence below its rule's floor.
func clampFloor(value, floor int) int {
	if value < floor {
		return floor
	}
	return value
}
