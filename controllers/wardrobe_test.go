package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
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

// seedGarment persists a verified wardrobe item ready for the pipeline.
func seedGarment(t *testing.T, db *gorm.DB, ownerID uint, name string, category models.Category, colors ...string) models.GarmentItem {
	item := models.GarmentItem{
		Name:             name,
		OwnerID:          ownerID,
		Category:         category,
		Colors:           pq.StringArray(colors),
		IsVerified:       true,
		ProcessingStatus: "completed",
		ImageURL:         test.NewRefString(fmt.Sprintf("garments/%s.png", name)),
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func userPk(user *models.UserAccount) string {
	return strconv.FormatUint(uint64(user.ID), 10)
}

func TestCreateGarmentOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{
		Name:     "Blue Oxford Shirt",
		FileName: test.NewRefString("oxford.jpg"),
		Category: test.NewRefString("tops"),
	}

	req := test.NewJSONAuthRequest("POST", "/shop/wardrobe/create", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d: %s", rec.Code, rec.Body.String())

	var response GarmentCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, reqBody.Name, response.Garment.Name)
	require.Equal(t, "tops", response.Garment.Category)
	require.Equal(t, "pending", response.Garment.ProcessingStatus)
	require.Contains(t, response.FileUploadUrl, "garments/oxford.jpg")
}

func TestCreateGarmentDefaultsUnknownCategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequestRaw("POST", "/shop/wardrobe/create", userPk(user), `{"file_name": "mystery.jpg"}`)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var response GarmentCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, "other", response.Garment.Category)
	require.Equal(t, "New Item", response.Garment.Name)
}

func TestCreateGarmentMissingFile(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	reqBody := CreateGarmentIn{Name: "No Image Item"}
	req := test.NewJSONAuthRequest("POST", "/shop/wardrobe/create", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "FileName")
}

func TestCreateGarmentDailyLimit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	user.EnforcedDailyUploadLimit = test.Int32Pointer(1)
	require.NoError(t, db.Save(user).Error)

	seedGarment(t, db, user.ID, "Existing Upload", models.CategoryTops, "white")

	reqBody := CreateGarmentIn{Name: "One Too Many", FileName: test.NewRefString("extra.jpg")}
	req := test.NewJSONAuthRequest("POST", "/shop/wardrobe/create", userPk(user), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	var response map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "daily uploads")
}

func TestCreateGarmentUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())

	reqBody := CreateGarmentIn{Name: "Test", FileName: test.NewRefString("test.jpg")}
	req := test.NewJSONAuthRequest("POST", "/shop/wardrobe/create", "", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListWardrobeGroupsByCategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{MockUrl: "https://fakebucketurl.com/presigned.png"}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	top := seedGarment(t, db, user.ID, "White Tee", models.CategoryTops, "white")
	bottom := seedGarment(t, db, user.ID, "Blue Jeans", models.CategoryBottoms, "blue")
	seedGarment(t, db, user.ID, "Unplaced Thing", models.CategoryOther)

	req := test.NewJSONAuthRequest("GET", "/shop/wardrobe/list", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "Expected status code 200 OK, got %d: %s", rec.Code, rec.Body.String())

	var response WardrobeListResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Tops, 1)
	require.Len(t, response.Bottoms, 1)
	require.Len(t, response.Other, 1)
	require.Equal(t, top.Name, response.Tops[0].Name)
	require.Equal(t, bottom.Name, response.Bottoms[0].Name)
	require.NotNil(t, response.Tops[0].Uri)
	require.Equal(t, "https://fakebucketurl.com/presigned.png", *response.Tops[0].Uri)
}

func TestListWardrobeEmpty(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/shop/wardrobe/list", userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response WardrobeListResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Tops, 0)
	require.Len(t, response.Bottoms, 0)
	require.Len(t, response.Shoes, 0)
	require.Len(t, response.Accessories, 0)
}

func TestDeleteGarmentOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	item := seedGarment(t, db, user.ID, "Old Hat", models.CategoryAccessories, "brown")

	req := test.NewJSONAuthRequest("DELETE", fmt.Sprintf("/shop/wardrobe/%v", item.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	db.Model(&models.GarmentItem{}).Where("id = ?", item.ID).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestDeleteGarmentNotOwned(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")
	item := seedGarment(t, db, other.ID, "Not Yours", models.CategoryShoes, "black")

	req := test.NewJSONAuthRequest("DELETE", fmt.Sprintf("/shop/wardrobe/%v", item.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReclassifyGarmentAlreadyPending(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	item := seedGarment(t, db, user.ID, "In Flight", models.CategoryTops, "white")
	item.ProcessingStatus = "pending"
	require.NoError(t, db.Save(&item).Error)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/shop/wardrobe/%v/classify", item.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestReclassifyGarmentResetsFailure(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, test.MockStylist{}, test.WeatherServiceMock{}, nil, nil, &test.URLCacheMock{}, outfit.NewMemoryHistory())
	user := test.FakeUser(db)
	item := seedGarment(t, db, user.ID, "Failed Item", models.CategoryTops, "white")
	item.ProcessingStatus = "failed"
	item.ProcessRetryTimes = 3
	item.ProcessErrorMessage = test.NewRefString("quota hit")
	require.NoError(t, db.Save(&item).Error)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/shop/wardrobe/%v/classify", item.ID), userPk(user), "")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var refreshed models.GarmentItem
	require.NoError(t, db.First(&refreshed, item.ID).Error)
	require.Equal(t, "pending", refreshed.ProcessingStatus)
	require.Equal(t, 0, refreshed.ProcessRetryTimes)
	require.Nil(t, refreshed.ProcessErrorMessage)
}
