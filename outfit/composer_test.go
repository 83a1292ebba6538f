package outfit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/services"
)

func newComposer(stylist services.LLMStylistProvider) *Composer {
	return &Composer{
		Stylist: stylist,
		History: NewMemoryHistory(),
		Namer:   testNamer(),
	}
}

func stylistJSON(body string) stubStylist {
	return stubStylist{response: &services.LLMResponse{Response: body}}
}

func TestSuggestAcceptsValidStylistOutfits(t *testing.T) {
	wardrobe := basicWardrobe()
	composer := newComposer(stylistJSON(`{"outfits":[
		{"name":"City Classic","item_ids":[1,2,3],"confidence":90,"description":"clean","styling_tips":"tuck it in","occasion":"casual"}
	]}`))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.Len(t, candidates, 1)
	assert.Equal(t, "City Classic", candidates[0].Name)
	assert.Equal(t, []uint{1, 2, 3}, candidates[0].ItemIDs)
	assert.Equal(t, 90, candidates[0].Confidence)
}

func TestSuggestDropsStructurallyInvalidOutfits(t *testing.T) {
	wardrobe := basicWardrobe()
	// missing shoes: fails mandatory composition, falls back to basic pairs
	composer := newComposer(stylistJSON(`{"outfits":[{"name":"No Shoes","item_ids":[1,2],"confidence":95}]}`))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.NotEmpty(t, candidates)
	for _, candidate := range candidates {
		assert.NotEqual(t, "No Shoes", candidate.Name)
		assert.Contains(t, []int{75, 80}, candidate.Confidence, "only fallback confidences appear")
	}
}

func TestSuggestFallsBackOnStylistError(t *testing.T) {
	wardrobe := basicWardrobe()
	composer := newComposer(stubStylist{err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")})

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.NotEmpty(t, candidates, "quota failure degrades to basic generation")
	assert.Equal(t, []uint{1, 2}, candidates[0].ItemIDs)
	assert.Equal(t, 75, candidates[0].Confidence)
}

func TestSuggestFallsBackOnGarbageResponse(t *testing.T) {
	wardrobe := basicWardrobe()
	composer := newComposer(stylistJSON("I am sorry, I cannot help with that."))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	assert.NotEmpty(t, candidates)
}

func TestSuggestNilStylistStillProducesOutfits(t *testing.T) {
	wardrobe := basicWardrobe()
	composer := newComposer(nil)
	composer.Stylist = nil

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	assert.NotEmpty(t, candidates)
}

func TestSuggestInsufficientWardrobe(t *testing.T) {
	wardrobe := []models.GarmentItem{garment(1, "White Tee", models.CategoryTops, "white")}
	composer := newComposer(stylistJSON(`{"outfits":[{"name":"X","item_ids":[1],"confidence":90}]}`))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, "")
	assert.Empty(t, candidates)
}

func TestSuggestSuppressesDuplicateCombos(t *testing.T) {
	wardrobe := basicWardrobe()
	body := `{"outfits":[
		{"name":"First","item_ids":[1,2,3],"confidence":90},
		{"name":"Second","item_ids":[3,2,1],"confidence":85}
	]}`
	composer := newComposer(stylistJSON(body))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.Len(t, candidates, 1, "same sorted id set accepted once")
	assert.Equal(t, "First", candidates[0].Name)

	// identical second call: combo already in history, fallback kicks in
	again := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	for _, candidate := range again {
		assert.NotEqual(t, ComboKey([]uint{1, 2, 3}), ComboKey(candidate.ItemIDs))
	}
}

func TestSuggestRenamesCollidingNames(t *testing.T) {
	wardrobe := basicWardrobe()
	wardrobe = append(wardrobe, garment(6, "Black Boots", models.CategoryShoes, "black"))
	body := `{"outfits":[
		{"name":"Weekend Comfort","item_ids":[1,2,3],"confidence":90,"occasion":"casual"},
		{"name":"Weekend Comfort","item_ids":[1,2,6],"confidence":85,"occasion":"casual"}
	]}`
	composer := newComposer(stylistJSON(body))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Weekend Comfort", candidates[0].Name)
	assert.Equal(t, "Laid-Back Style", candidates[1].Name)
}

func TestSuggestEnforcesColdLayering(t *testing.T) {
	wardrobe := basicWardrobe()
	weather := &models.WeatherSnapshot{TemperatureC: 3, Condition: "cloudy"}
	body := `{"outfits":[
		{"name":"Too Cold","item_ids":[1,2,3],"confidence":90},
		{"name":"Layered Up","item_ids":[1,2,3,5],"confidence":85}
	]}`
	composer := newComposer(stylistJSON(body))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, weather, OccasionCasual)
	require.NotEmpty(t, candidates)
	for _, candidate := range candidates {
		items, ok := resolveItems(candidate.ItemIDs, wardrobe)
		require.True(t, ok)
		assert.True(t, hasCategory(items, models.CategoryOuterwear),
			"every accepted cold-weather outfit carries outerwear: %s", candidate.Name)
	}
}

func TestSuggestRanksAndTruncates(t *testing.T) {
	wardrobe := []models.GarmentItem{
		garment(1, "Tee A", models.CategoryTops, "white"),
		garment(2, "Tee B", models.CategoryTops, "black"),
		garment(3, "Jeans", models.CategoryBottoms, "blue"),
		garment(4, "Chinos", models.CategoryBottoms, "khaki"),
		garment(5, "Skirt", models.CategoryBottoms, "red"),
		garment(6, "Sneakers", models.CategoryShoes, "white"),
		garment(7, "Boots", models.CategoryShoes, "black"),
	}
	body := `{"outfits":[
		{"name":"O1","item_ids":[1,3,6],"confidence":60},
		{"name":"O2","item_ids":[1,4,6],"confidence":91},
		{"name":"O3","item_ids":[1,5,6],"confidence":72},
		{"name":"O4","item_ids":[2,3,6],"confidence":83},
		{"name":"O5","item_ids":[2,4,6],"confidence":88},
		{"name":"O6","item_ids":[2,5,7],"confidence":79}
	]}`
	composer := newComposer(stylistJSON(body))

	candidates := composer.Suggest(context.Background(), 1, wardrobe, nil, nil, OccasionCasual)
	require.Len(t, candidates, 5)
	assert.Equal(t, "O2", candidates[0].Name)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Confidence, candidates[i].Confidence)
	}
	for _, candidate := range candidates {
		assert.NotEqual(t, "O1", candidate.Name, "weakest of six truncated away")
	}
}
