package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/dbhelper"
	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/outfit"
	"github.com/rekeystam/StyleAIApp/test"
)

type suggestionsResponse struct {
	Outfits []outfit.Candidate      `json:"outfits"`
	Weather *models.WeatherSnapshot `json:"weather"`
}

// seedBasicWardrobe gives the owner enough verified items for a full outfit.
func seedBasicWardrobe(t *testing.T, db *gorm.DB, ownerID uint) (models.GarmentItem, models.GarmentItem, models.GarmentItem) {
	top := seedGarment(t, db, ownerID, "White Tee", models.CategoryTops, "white")
	bottom := seedGarment(t, db, ownerID, "Blue Jeans", models.CategoryBottoms, "blue")
	shoes := seedGarment(t, db, ownerID, "White Sneakers", models.CategoryShoes, "white")
	return top, bottom, shoes
}

func TestGetSuggestionsFromStylist(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)
	top, bottom, shoes := seedBasicWardrobe(t, db, user.ID)

	stylist := test.MockStylist{SuggestResponse: fmt.Sprintf(`{
		"outfits": [
			{
				"name": "Street Smart",
				"item_ids": [%v, %v, %v],
				"confidence": 88,
				"description": "Crisp basics for the day.",
				"styling_tips": "Roll the sleeves.",
				"occasion": "casual"
			}
		]
	}`, top.ID, bottom.ID, shoes.ID)}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, stylist, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/suggestions", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "Expected status code 200 OK, got %d: %s", rec.Code, rec.Body.String())

	var response suggestionsResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Outfits, 1)
	require.Equal(t, "Street Smart", response.Outfits[0].Name)
	require.ElementsMatch(t, []uint{top.ID, bottom.ID, shoes.ID}, response.Outfits[0].ItemIDs)
	require.Greater(t, response.Outfits[0].Confidence, 0)
}

func TestGetSuggestionsFallsBackOnStylistError(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)
	seedBasicWardrobe(t, db, user.ID)

	stylist := test.MockStylist{Err: fmt.Errorf("googleapi: Error 429: RESOURCE_EXHAUSTED")}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, stylist, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/suggestions", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response suggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.Outfits)
	for _, candidate := range response.Outfits {
		assert.Equal(t, 75, candidate.Confidence)
	}
}

func TestGetSuggestionsEmptyWardrobe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)

	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/suggestions", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response suggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Outfits, 0)
}

func TestGetSuggestionsPersistsShoppingGaps(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)
	top, bottom, shoes := seedBasicWardrobe(t, db, user.ID)

	// confidence below 70 triggers the gap analyzer
	stylist := test.MockStylist{SuggestResponse: fmt.Sprintf(`{
		"outfits": [
			{"name": "Thin Choice", "item_ids": [%v, %v, %v], "confidence": 55, "occasion": "casual"}
		]
	}`, top.ID, bottom.ID, shoes.ID)}
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, stylist, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/suggestions", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var recommendations []models.ShoppingRecommendation
	require.NoError(t, db.Where("owner_id = ?", user.ID).Find(&recommendations).Error)
	require.Len(t, recommendations, 1)
	require.NotEmpty(t, recommendations[0].Suggestions)
	require.LessOrEqual(t, len(recommendations[0].Suggestions), 5)
}

func TestSaveOutfitOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	top, bottom, shoes := seedBasicWardrobe(t, db, user.ID)

	reqBody := SaveOutfitIn{
		Name:       "Errand Run",
		ItemIDs:    []uint{top.ID, bottom.ID, shoes.ID},
		Occasion:   "casual",
		Confidence: 82,
	}
	req := test.NewJSONAuthRequest("POST", "/shop/outfits/save", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved []models.SavedOutfit
	require.NoError(t, db.Where("owner_id = ?", user.ID).Find(&saved).Error)
	require.Len(t, saved, 1)
	require.Equal(t, "Errand Run", saved[0].Name)
	require.Equal(t, pq.Int64Array{int64(top.ID), int64(bottom.ID), int64(shoes.ID)}, saved[0].ItemIDs)
}

func TestSaveOutfitRejectsForeignItems(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")
	foreign := seedGarment(t, db, other.ID, "Foreign Shirt", models.CategoryTops, "red")

	reqBody := SaveOutfitIn{Name: "Sneaky", ItemIDs: []uint{foreign.ID}}
	req := test.NewJSONAuthRequest("POST", "/shop/outfits/save", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestSaveOutfitInvalidInput(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	// name missing
	req := test.NewJSONAuthRequestRaw("POST", "/shop/outfits/save", userPk(user), `{"item_ids": [1]}`)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSavedOutfits(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	saved := models.SavedOutfit{
		OwnerID: user.ID,
		Name:    "Friday Look",
		ItemIDs: pq.Int64Array{1, 2, 3},
	}
	require.NoError(t, db.Create(&saved).Error)

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/saved", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response struct {
		Outfits []models.SavedOutfit `json:"outfits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Outfits, 1)
	require.Equal(t, "Friday Look", response.Outfits[0].Name)
}

func TestListShoppingRecommendations(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	rec1 := models.ShoppingRecommendation{
		OwnerID:     user.ID,
		Suggestions: pq.StringArray{"A white t-shirt or blouse as a layering base"},
		Confidence:  55,
	}
	require.NoError(t, db.Create(&rec1).Error)

	req := test.NewJSONAuthRequest("GET", "/shop/outfits/shopping", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response struct {
		Recommendations []models.ShoppingRecommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Recommendations, 1)
	require.Equal(t, 55, response.Recommendations[0].Confidence)
}
