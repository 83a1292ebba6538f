package outfit

import (
	"context"
	"fmt"
	"time"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/services"
)

const defaultStylistTimeout = 45 * time.Second

// Composer orchestrates one suggestion request: filter, delegate to the
// external stylist, validate, dedupe, score and rank. When the stylist is
// unavailable or every candidate is rejected it degrades to GenerateBasic,
// so the caller always gets best-effort output when the wardrobe supports it.
type Composer struct {
	Stylist services.LLMStylistProvider
	History History
	Model   services.LLMModelName
	Namer   Namer
	Timeout time.Duration
}

// Suggest returns up to 5 ranked outfit candidates. A wardrobe with fewer
// than 2 usable items yields an empty list, never an error.
func (cm *Composer) Suggest(ctx context.Context, ownerID uint, wardrobe []models.GarmentItem, profile *models.UserProfile, weather *models.WeatherSnapshot, occasion string) []Candidate {
	filtered := FilterByOccasion(wardrobe, occasion)
	filtered = FilterByWeather(filtered, weather)
	if len(filtered) < 2 {
		fmt.Printf("[Outfits: owner %v] not enough usable items after filtering (%d)\n", ownerID, len(filtered))
		return []Candidate{}
	}

	raws := cm.callStylist(ctx, ownerID, filtered, profile, weather, occasion)
	candidates := cm.acceptCandidates(ownerID, raws, wardrobe, weather, profile)
	candidates = RankAndTruncate(candidates)
	if len(candidates) > 0 {
		return candidates
	}
	fmt.Printf("[Outfits: owner %v] stylist yielded no valid candidates, using basic generation\n", ownerID)
	return GenerateBasic(filtered, cm.History, ownerID, occasion)
}

// callStylist performs the external call under a timeout. Quota errors,
// timeouts and unparseable responses all come back as an empty slice.
func (cm *Composer) callStylist(ctx context.Context, ownerID uint, filtered []models.GarmentItem, profile *models.UserProfile, weather *models.WeatherSnapshot, occasion string) []RawOutfit {
	if cm.Stylist == nil {
		return nil
	}
	timeout := cm.Timeout
	if timeout == 0 {
		timeout = defaultStylistTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stylistCtx := buildStylistContext(filtered, profile, weather, occasion, cm.History.Combos(ownerID))
	response, err := cm.Stylist.SuggestOutfits(callCtx, stylistCtx, cm.Model)
	if err != nil {
		if services.IsQuotaError(err) {
			fmt.Printf("[Outfits: owner %v] stylist quota exhausted: %v\n", ownerID, err)
		} else {
			fmt.Printf("[Outfits: owner %v] stylist call failed: %v\n", ownerID, err)
		}
		return nil
	}
	if response == nil || response.Response == "" {
		return nil
	}
	raws, err := ParseStylistOutfits(response.Response)
	if err != nil {
		fmt.Printf("[Outfits: owner %v] stylist response unparseable: %v\n", ownerID, err)
		return nil
	}
	return raws
}

// acceptCandidates runs every raw outfit through mandatory structural
// validation, duplicate suppression, naming and scoring. Rejections are
// silent drops.
func (cm *Composer) acceptCandidates(ownerID uint, raws []RawOutfit, wardrobe []models.GarmentItem, weather *models.WeatherSnapshot, profile *models.UserProfile) []Candidate {
	validator := Validator{Policy: PolicyMandatory}
	var temperatureC *float64
	if weather != nil {
		temperatureC = &weather.TemperatureC
	}
	usedNames := map[string]bool{}
	accepted := make([]Candidate, 0, len(raws))
	for _, raw := range raws {
		if !validator.IsValid(raw.ItemIDs, wardrobe, temperatureC) {
			continue
		}
		if !cm.History.Add(ownerID, ComboKey(raw.ItemIDs)) {
			continue
		}
		candidate := Candidate{
			Name:        raw.Name,
			ItemIDs:     raw.ItemIDs,
			Occasion:    raw.Occasion,
			Confidence:  raw.Confidence,
			Description: raw.Description,
			StylingTips: raw.StylingTips,
		}
		if candidate.Occasion == "" {
			candidate.Occasion = OccasionCasual
		}
		cm.Namer.EnsureUnique(&candidate, wardrobe, usedNames)
		ScoreCandidate(&candidate, wardrobe, weather, profile)
		if weather != nil {
			candidate.WeatherNote = weatherNote(weather)
		}
		accepted = append(accepted, candidate)
	}
	return accepted
}

func buildStylistContext(items []models.GarmentItem, profile *models.UserProfile, weather *models.WeatherSnapshot, occasion string, avoidCombos []string) services.StylistContext {
	stylistCtx := services.StylistContext{
		Occasion:    occasion,
		AvoidCombos: avoidCombos,
	}
	for _, item := range items {
		entry := services.StylistWardrobeItem{
			ID:       item.ID,
			Name:     item.Name,
			Category: string(item.Category),
			Colors:   item.Colors,
		}
		if item.Subcategory != nil {
			entry.Subcategory = *item.Subcategory
		}
		if item.Style != nil {
			entry.Style = *item.Style
		}
		if item.Formality != nil {
			entry.Formality = *item.Formality
		}
		stylistCtx.Wardrobe = append(stylistCtx.Wardrobe, entry)
	}
	if weather != nil {
		stylistCtx.Weather = &services.StylistWeather{
			TemperatureC: weather.TemperatureC,
			Condition:    weather.Condition,
		}
	}
	if profile != nil {
		stylistProfile := &services.StylistProfile{
			FavoriteColors: profile.FavoriteColors,
			AvoidColors:    profile.AvoidColors,
		}
		if profile.BodyType != nil {
			stylistProfile.BodyType = *profile.BodyType
		}
		if profile.SkinTone != nil {
			stylistProfile.SkinTone = *profile.SkinTone
		}
		if profile.Gender != nil {
			stylistProfile.Gender = *profile.Gender
		}
		stylistCtx.Profile = stylistProfile
	}
	return stylistCtx
}

func weatherNote(weather *models.WeatherSnapshot) string {
	return fmt.Sprintf("Picked for %.0f°C and %s conditions.", weather.TemperatureC, weather.Condition)
}
