package outfit

import (
	"fmt"

	"github.com/rekeystam/StyleAIApp/languageutil"
	"github.com/rekeystam/StyleAIApp/models"
)

const (
	fallbackPairConfidence  = 75
	fallbackDressConfidence = 80
	fallbackMaxCandidates   = 3
	fallbackMaxPerCategory  = 2
)

// GenerateBasic deterministically pairs tops with bottoms (and emits single
// dress looks) when the external stylist is unavailable or produced nothing
// usable. Each pairing must pass the basic composition policy; rejected ones
// are dropped without touching history. Pairings already present in history
// are skipped; accepted ones are recorded immediately so a repeated call
// moves on to fresh combinations. Names are unique within one batch.
func GenerateBasic(wardrobe []models.GarmentItem, history History, ownerID uint, occasion string) []Candidate {
	if len(wardrobe) < 2 {
		return []Candidate{}
	}
	if occasion == "" {
		occasion = OccasionCasual
	}

	var tops, bottoms, dresses []models.GarmentItem
	for _, item := range wardrobe {
		switch item.Category {
		case models.CategoryTops:
			if len(tops) < fallbackMaxPerCategory {
				tops = append(tops, item)
			}
		case models.CategoryBottoms:
			if len(bottoms) < fallbackMaxPerCategory {
				bottoms = append(bottoms, item)
			}
		case models.CategoryDresses:
			if len(dresses) < fallbackMaxPerCategory {
				dresses = append(dresses, item)
			}
		}
	}

	validator := Validator{Policy: PolicyBasic}
	usedNames := map[string]bool{}
	candidates := []Candidate{}
	for _, top := range tops {
		for _, bottom := range bottoms {
			if len(candidates) >= fallbackMaxCandidates {
				return candidates
			}
			ids := []uint{top.ID, bottom.ID}
			if !validator.IsValid(ids, wardrobe, nil) {
				continue
			}
			if !history.Add(ownerID, ComboKey(ids)) {
				continue
			}
			candidates = append(candidates, Candidate{
				Name:        claimName(pairName(top, bottom), languageutil.TitleWords(top.Name+" With "+bottom.Name), usedNames),
				ItemIDs:     ids,
				Occasion:    occasion,
				Confidence:  fallbackPairConfidence,
				Description: fmt.Sprintf("A simple pairing of your %s and %s.", top.Name, bottom.Name),
				StylingTips: "Keep accessories minimal and let the pieces speak for themselves.",
			})
		}
	}
	for _, dress := range dresses {
		if len(candidates) >= fallbackMaxCandidates {
			break
		}
		ids := []uint{dress.ID}
		if !history.Add(ownerID, ComboKey(ids)) {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:        claimName(languageutil.TitleWords(dressLabel(dress)), languageutil.TitleWords(dress.Name+" Solo"), usedNames),
			ItemIDs:     ids,
			Occasion:    OccasionFormal,
			Confidence:  fallbackDressConfidence,
			Description: fmt.Sprintf("Your %s worn as a complete statement piece.", dress.Name),
			StylingTips: "Pair with heels and a clutch for evening, flats for daytime.",
		})
	}
	return candidates
}

// claimName returns the first label not yet taken in this batch, numbering
// the primary one when both are.
func claimName(primary, alternate string, used map[string]bool) string {
	for _, name := range []string{primary, alternate} {
		if !used[name] {
			used[name] = true
			return name
		}
	}
	for n := 2; ; n++ {
		numbered := fmt.Sprintf("%s No. %d", primary, n)
		if !used[numbered] {
			used[numbered] = true
			return numbered
		}
	}
}

func pairName(top, bottom models.GarmentItem) string {
	topColor, bottomColor := top.DominantColor(), bottom.DominantColor()
	if topColor != "" && bottomColor != "" {
		return languageutil.TitleWords(topColor + " & " + bottomColor + " Combo")
	}
	return languageutil.TitleWords(top.Name + " With " + bottom.Name)
}

func dressLabel(dress models.GarmentItem) string {
	if color := dress.DominantColor(); color != "" {
		return color + " Dress Moment"
	}
	return dress.Name + " Solo"
}
