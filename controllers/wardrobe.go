package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/services"
	"github.com/rekeystam/StyleAIApp/tasks"
)

const defaultDailyUploadLimit = 20

type CreateGarmentIn struct {
	Name               string  `json:"name" validate:"omitempty,max=100"`
	FileName           *string `json:"file_name" validate:"required,max=200"`
	Category           *string `json:"category" validate:"omitempty,category"`
	AlertWhenProcessed *bool   `json:"alert_when_processed"`
}

type GarmentResponse struct {
	ID                  uint     `json:"id"`
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	Subcategory         *string  `json:"subcategory"`
	Style               *string  `json:"style"`
	Formality           *string  `json:"formality"`
	Colors              []string `json:"colors"`
	IsVerified          bool     `json:"is_verified"`
	ProcessingStatus    string   `json:"processing_status"`
	ProcessErrorMessage *string  `json:"process_error_message,omitempty"`
	Uri                 *string  `json:"uri,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type GarmentCreatedResponse struct {
	Garment       GarmentResponse `json:"garment"`
	FileUploadUrl string          `json:"file_upload_url"`
}

type WardrobeListResponse struct {
	Tops        []GarmentResponse `json:"tops"`
	Bottoms     []GarmentResponse `json:"bottoms"`
	Dresses     []GarmentResponse `json:"dresses"`
	Outerwear   []GarmentResponse `json:"outerwear"`
	Accessories []GarmentResponse `json:"accessories"`
	Shoes       []GarmentResponse `json:"shoes"`
	Other       []GarmentResponse `json:"other"`
}

type WardrobeController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateGarment)
	g.GET("/list", controller.ListWardrobe)
	g.DELETE("/:id", controller.DeleteGarment)
	g.POST("/:id/classify", controller.ReclassifyGarment)
}

func (controller *WardrobeController) CreateGarment(c echo.Context) error {
	var req CreateGarmentIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	if req.FileName == nil || *req.FileName == "" {
		sentry.CaptureException(fmt.Errorf("Image was not provided when creating garment %s, user %v", req.Name, user.ID))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Sorry, it seems image was not provided, please try again"})
	}

	dailyLimit := int64(defaultDailyUploadLimit)
	if user.EnforcedDailyUploadLimit != nil {
		dailyLimit = int64(*user.EnforcedDailyUploadLimit)
	}
	var dailyUploadCount int64
	today := time.Now().UTC().Format("2006-01-02")
	if err := db.Model(&models.GarmentItem{}).Where("owner_id = ? AND DATE(created_at) = ?", user.ID, today).Count(&dailyUploadCount).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
	}
	fmt.Printf("[User %v] Daily upload count: %v\n", user.ID, dailyUploadCount)
	if dailyUploadCount >= dailyLimit {
		return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v daily uploads. Please wait for the next day.", dailyLimit)})
	}

	category := models.CategoryOther
	if req.Category != nil {
		category = models.NormalizeCategory(*req.Category)
	}
	name := req.Name
	if name == "" {
		name = "New Item"
	}
	item := models.GarmentItem{
		Name:               name,
		OwnerID:            user.ID,
		Category:           category,
		ProcessingStatus:   "pending",
		AlertWhenProcessed: req.AlertWhenProcessed != nil && *req.AlertWhenProcessed,
	}

	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("garments/%s", *req.FileName)
	uploadUrl, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
	item.ImageURL = &safeFileName
	if presignErr != nil {
		log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while creating garment with attachment",
		})
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	if asynqClient != nil {
		task, err := tasks.NewGarmentClassificationTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process garment, please try again"})
		}
		// give the client a moment to finish the presigned upload
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.ProcessIn(10*time.Second), asynq.Queue("classify"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process garment, please try again"})
		}
		fmt.Println("[Queue] Classification task submitted, Garment ID: ", item.ID, " Task ID: ", info.ID)
	}

	return c.JSON(http.StatusCreated, GarmentCreatedResponse{
		Garment:       garmentResponse(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

func garmentResponse(item models.GarmentItem, uri *string) GarmentResponse {
	return GarmentResponse{
		ID:                  item.ID,
		Name:                item.Name,
		Category:            string(item.Category),
		Subcategory:         item.Subcategory,
		Style:               item.Style,
		Formality:           item.Formality,
		Colors:              item.Colors,
		IsVerified:          item.IsVerified,
		ProcessingStatus:    item.ProcessingStatus,
		ProcessErrorMessage: item.ProcessErrorMessage,
		Uri:                 uri,
		CreatedAt:           item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:           item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// populatePresignedGarmentImages enriches raw items with presigned URLs
// concurrently, with a manual R2 fallback when the cache system itself fails.
func (controller *WardrobeController) populatePresignedGarmentImages(ctx context.Context, items []models.GarmentItem) []GarmentResponse {
	if len(items) == 0 {
		return []GarmentResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]GarmentResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, garmentItem := range items {
		wg.Add(1)
		go func(index int, item models.GarmentItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL
				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})
					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = garmentResponse(item, &imageUrl)
		}(i, garmentItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *WardrobeController) ListWardrobe(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.GarmentItem
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}
	processedResponses := controller.populatePresignedGarmentImages(c.Request().Context(), items)

	response := WardrobeListResponse{
		Tops:        []GarmentResponse{},
		Bottoms:     []GarmentResponse{},
		Dresses:     []GarmentResponse{},
		Outerwear:   []GarmentResponse{},
		Accessories: []GarmentResponse{},
		Shoes:       []GarmentResponse{},
		Other:       []GarmentResponse{},
	}
	for _, resp := range processedResponses {
		switch models.Category(resp.Category) {
		case models.CategoryTops:
			response.Tops = append(response.Tops, resp)
		case models.CategoryBottoms:
			response.Bottoms = append(response.Bottoms, resp)
		case models.CategoryDresses:
			response.Dresses = append(response.Dresses, resp)
		case models.CategoryOuterwear:
			response.Outerwear = append(response.Outerwear, resp)
		case models.CategoryAccessories:
			response.Accessories = append(response.Accessories, resp)
		case models.CategoryShoes:
			response.Shoes = append(response.Shoes, resp)
		default:
			response.Other = append(response.Other, resp)
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (controller *WardrobeController) DeleteGarment(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)

	var itemID uint
	if err := echo.PathParamsBinder(c).Uint("id", &itemID).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var item models.GarmentItem
	r := db.Limit(1).Find(&item, "id = ? AND owner_id = ?", itemID, user.ID)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch garment"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Garment not found"})
	}
	if err := db.Delete(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete garment"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Garment deleted"})
}

// ReclassifyGarment requeues a failed or stale item for classification.
func (controller *WardrobeController) ReclassifyGarment(c echo.Context) error {
	user := c.Get("currentUser").(models.UserAccount)
	db := c.Get("__db").(*gorm.DB)
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	var itemID uint
	if err := echo.PathParamsBinder(c).Uint("id", &itemID).BindError(); err != nil {
		return echo.ErrBadRequest
	}
	var item models.GarmentItem
	r := db.Limit(1).Find(&item, "id = ? AND owner_id = ?", itemID, user.ID)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch garment"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Garment not found"})
	}
	if item.ProcessingStatus == "pending" {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Garment is already being classified"})
	}

	item.ProcessingStatus = "pending"
	item.ProcessRetryTimes = 0
	item.ProcessErrorMessage = nil
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update garment status, please try again"})
	}
	if asynqClient != nil {
		task, err := tasks.NewGarmentClassificationTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process garment, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("classify"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process garment, please try again"})
		}
		fmt.Println("[Queue] Reclassification task submitted, Garment ID: ", item.ID, " Task ID: ", info.ID)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "Classification started"})
}
