package outfit

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rekeystam/StyleAIApp/languageutil"
	"github.com/rekeystam/StyleAIApp/models"
)

// nameTemplates holds 8 alternatives per occasion, drawn in order when a
// batch produces colliding names.
var nameTemplates = map[string][]string{
	OccasionCasual: {
		"Weekend Comfort", "Laid-Back Style", "Easy Everyday", "Relaxed Edit",
		"Off-Duty Look", "Simple & Fresh", "Everyday Staple", "Casual Classic",
	},
	OccasionBusiness: {
		"Boardroom Ready", "Office Polish", "Smart Professional", "Desk To Dinner",
		"Monday Sharp", "Tailored Focus", "Meeting Mode", "Workweek Classic",
	},
	OccasionFormal: {
		"Evening Elegance", "Black Tie Ready", "Refined Statement", "Gala Night",
		"Timeless Formal", "Ceremony Chic", "Polished Occasion", "Grand Entrance",
	},
	OccasionDateNight: {
		"Dinner Date", "City Lights", "Evening Spark", "First Impression",
		"Candlelight Look", "Night Out Charm", "Date Night Classic", "After Dark",
	},
	OccasionSporty: {
		"Active Mode", "Gym To Street", "Training Day", "Morning Run",
		"Court Ready", "Fast Lane", "Sweat Session", "Athletic Edge",
	},
}

// Namer resolves name collisions within one suggestion batch. The random
// source is injected so tests stay reproducible; it is only consulted after
// every template and the color composite are taken.
type Namer struct {
	Rand *rand.Rand
}

// EnsureUnique registers the candidate's name in used, renaming it first if
// the name is already taken in this batch.
func (n Namer) EnsureUnique(c *Candidate, wardrobe []models.GarmentItem, used map[string]bool) {
	if c.Name == "" {
		c.Name = n.compositeName(c, wardrobe)
	}
	if !used[c.Name] {
		used[c.Name] = true
		return
	}
	occasion := c.Occasion
	if occasion == "" {
		occasion = OccasionCasual
	}
	for _, template := range nameTemplates[occasion] {
		if !used[template] {
			c.Name = template
			used[template] = true
			return
		}
	}
	composite := n.compositeName(c, wardrobe)
	if !used[composite] {
		c.Name = composite
		used[composite] = true
		return
	}
	for {
		numbered := fmt.Sprintf("Outfit No. %d", n.Rand.Intn(9000)+1000)
		if !used[numbered] {
			c.Name = numbered
			used[numbered] = true
			return
		}
	}
}

// compositeName builds a deterministic label from the dominant colors of the
// first top and bottom (or dress) in the candidate.
func (n Namer) compositeName(c *Candidate, wardrobe []models.GarmentItem) string {
	items, ok := resolveItems(c.ItemIDs, wardrobe)
	if !ok {
		return "Mixed Look"
	}
	var colors []string
	for _, category := range []models.Category{models.CategoryDresses, models.CategoryTops, models.CategoryBottoms} {
		if item := firstOfCategory(items, category); item != nil {
			if color := item.DominantColor(); color != "" {
				colors = append(colors, color)
			}
		}
	}
	if len(colors) == 0 {
		return "Mixed Look"
	}
	return languageutil.TitleWords(strings.Join(colors, " & ") + " Look")
}
