package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
	"github.com/rekeystam/StyleAIApp/outfit"
	"github.com/rekeystam/StyleAIApp/services"
	"github.com/rekeystam/StyleAIApp/telegram"
)

type GarmentClassificationPayload struct {
	ItemID uint `json:"item_id"`
}

const (
	TypeGarmentClassification = "classify:garment"
	TypeDailyOutfitAlert      = "scheduled:daily_outfit_alert"
)

// Client initializes an asynq client for enqueuing tasks
func NewClient() (*asynq.Client, error) {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}), nil
}

func NewGarmentClassificationTask(itemID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(GarmentClassificationPayload{ItemID: itemID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGarmentClassification, payload), nil
}

func NewDailyOutfitAlertTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeDailyOutfitAlert, nil), nil
}

func getFileForGarment(awsService services.AWSServiceProvider, item models.GarmentItem) ([]byte, error) {
	bucketName := os.Getenv("R2_BUCKET_NAME")
	fmt.Printf("[Garment: %v] Request presigned download url.. \n", item.ID)
	if item.ImageURL == nil {
		return nil, fmt.Errorf("[Garment: %v] image key is nil", item.ID)
	}
	fileURL, err := awsService.GetPresignedR2FileReadURL(context.TODO(), bucketName, *item.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Error on presigning image %s: %v", item.ID, *item.ImageURL, err))
		return nil, err
	}
	fileBytes, err := services.ReadFileFromUrl(fileURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Error on downloading image %s: %v", item.ID, *item.ImageURL, err))
		return nil, err
	}
	return fileBytes, nil
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.ReplaceAll(text, "```json", "")
	cleanContent = strings.TrimSuffix(cleanContent, "```")
	return cleanContent
}

// HandleGarmentClassificationTask downloads the uploaded photo, normalizes
// the background, sends it to Gemini and writes the descriptor back onto the
// item. Quota exhaustion leaves the item pending for asynq to retry.
func HandleGarmentClassificationTask(ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMStylistProvider, awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	googleKey := os.Getenv("GOOGLE_API_KEY")
	if googleKey == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload GarmentClassificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Garment: %v] Start Processing\n", payload.ItemID)

	var item models.GarmentItem
	res := db.First(&item, payload.ItemID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving garment for classification %v", payload.ItemID))
		return res.Error
	}

	fileBytes, err := getFileForGarment(awsService, item)
	if err != nil {
		saveClassificationFail(db, item, "We couldn't read your photo, please upload it again", false)
		return err
	}
	fmt.Printf("[Garment: %v] Downloaded photo size: %d bytes\n", payload.ItemID, len(fileBytes))

	normalized, err := services.NormalizeGarmentPhoto(fileBytes)
	if err != nil {
		fmt.Printf("[Garment: %v] Photo normalization failed, using original: %v\n", payload.ItemID, err)
		normalized = fileBytes
	}

	filePath, err := services.CreateTempFile(normalized, fmt.Sprintf("garment-%v.png", item.ID))
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Error on creating temp file: %v", payload.ItemID, err))
		return err
	}
	defer os.Remove(filePath)

	model := services.Flash25
	fmt.Printf("[Garment: %v] Model: %s\n", payload.ItemID, model.String())
	llmResponse, err := stylist.ClassifyGarment(filePath, model)
	if err != nil {
		if services.IsQuotaError(err) {
			fmt.Printf("[Garment: %v] Gemini quota exhausted: %v\n", payload.ItemID, err)
			saveClassificationFail(db, item, "Our stylist is busy right now, we will retry shortly", true)
			if item.ProcessRetryTimes+1 >= 3 {
				telegram.AlertAdmins(fmt.Sprintf("Garment #%d classification keeps hitting Gemini quota (%d retries)", item.ID, item.ProcessRetryTimes+1))
			}
			return err
		}
		if strings.Contains(err.Error(), "content violation") {
			saveClassificationFail(db, item, "Sorry, this photo could not be analyzed, please upload a photo of a clothing item", false)
			sentry.CaptureException(fmt.Errorf("[Garment: %v] Content violation on classifying photo: %v", payload.ItemID, err))
			return nil
		}
		saveClassificationFail(db, item, "We failed to analyze this photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Error on classifying photo: %v", payload.ItemID, err))
		return err
	}
	if llmResponse == nil {
		saveClassificationFail(db, item, "We failed to analyze this photo, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Response is nil but no error provided on classifying", payload.ItemID))
		return fmt.Errorf("[Garment: %v] Response is nil but no error provided on classifying", payload.ItemID)
	}

	cleanContent := cleanAIResponseText(llmResponse.Response)
	fmt.Printf("[Garment: %v] LLM Processed: %q, IT: %d, OT: %d, TT: %d, TOT: %d\n", payload.ItemID, cleanContent, llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.ThoughtsTokenCount, llmResponse.TotalTokenCount)
	var descriptor services.GarmentDescriptor
	if err := json.Unmarshal([]byte(cleanContent), &descriptor); err != nil {
		fmt.Printf("[Garment: %v] Error on parsing Gemini %s AI json %s\n", payload.ItemID, model.String(), llmResponse.Response)
		saveClassificationFail(db, item, "Failed to read the analysis result, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Garment: %v] Error on parsing Gemini %s AI json %s", payload.ItemID, model.String(), llmResponse.Response))
		return err
	}

	applyDescriptor(&item, descriptor)
	item.IsVerified = true
	item.ProcessingStatus = "completed"
	item.ProcessErrorMessage = nil
	tx := db.Omit("alert_when_processed").Save(&item)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on saving garment %v", payload.ItemID))
		return tx.Error
	}
	fmt.Printf("[Garment: %v] Classification finished successfully..\n", payload.ItemID)

	if item.AlertWhenProcessed {
		fmt.Printf("[Garment: %v] Sending notification to user %v\n", payload.ItemID, item.OwnerID)
		services.SendNotification(fbApp, db, item.OwnerID, "Item Added To Your Wardrobe", fmt.Sprintf("Your %s is classified and ready for outfits", item.Name), map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "garment_classified"})
	} else {
		fmt.Printf("[Garment: %v] AlertWhenProcessed is false, not sending notification to user %v\n", payload.ItemID, item.OwnerID)
	}
	return nil
}

func applyDescriptor(item *models.GarmentItem, descriptor services.GarmentDescriptor) {
	if descriptor.Name != "" {
		item.Name = descriptor.Name
	}
	item.Category = models.NormalizeCategory(descriptor.Category)
	item.Subcategory = services.StrPointer(descriptor.Subcategory)
	item.Style = services.StrPointer(descriptor.Style)
	item.Formality = services.StrPointer(descriptor.Formality)
	item.FabricType = services.StrPointer(descriptor.FabricType)
	item.Pattern = services.StrPointer(descriptor.Pattern)
	item.Colors = pq.StringArray(descriptor.Colors)
	if descriptor.WarmthLevel >= 1 && descriptor.WarmthLevel <= 5 {
		item.WarmthLevel = services.IntPointer(descriptor.WarmthLevel)
	}
	item.WeatherSuitability = pq.StringArray(descriptor.WeatherSuitability)
	item.OccasionSuitability = pq.StringArray(descriptor.OccasionSuitability)
}

func saveClassificationFail(db *gorm.DB, item models.GarmentItem, msg string, shouldRetry bool) error {
	item.ProcessRetryTimes = item.ProcessRetryTimes + 1
	item.ProcessErrorMessage = &msg
	if !shouldRetry || item.ProcessRetryTimes >= 3 {
		item.ProcessingStatus = "failed"
	}
	tx := db.Omit("alert_when_processed").Save(&item)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Garment %v] Error on saving garment for failed status", item.ID))
		return tx.Error
	}
	return nil
}

// ScheduledDailyOutfitAlertTask pushes one fresh outfit idea to every user
// who opted into daily alerts.
func ScheduledDailyOutfitAlertTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App, history outfit.History) error {
	fmt.Printf("[Outfit Alert] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? AND daily_outfit_alerts = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit Alert] Error fetching users: %v", result.Error))
		return result.Error
	}
	fmt.Printf("[Outfit Alert] Found %d users to send notifications\n", len(users))

	for _, user := range users {
		if err := sendOutfitAlertToUser(db, fbApp, history, user.ID); err != nil {
			fmt.Printf("[Outfit Alert] Failed to send to user %d: %v\n", user.ID, err)
			sentry.CaptureException(fmt.Errorf("[Outfit Alert] Failed to send to user %d: %v", user.ID, err))
			continue
		}
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}
	return nil
}

func sendOutfitAlertToUser(db *gorm.DB, fbApp *firebase.App, history outfit.History, userID uint) error {
	var wardrobe []models.GarmentItem
	result := db.Where("owner_id = ? AND is_verified = ?", userID, true).Find(&wardrobe)
	if result.Error != nil {
		return fmt.Errorf("error fetching user wardrobe: %v", result.Error)
	}
	candidates := outfit.GenerateBasic(wardrobe, history, userID, outfit.OccasionCasual)
	if len(candidates) == 0 {
		fmt.Printf("[Outfit Alert] No fresh combinations for user %d\n", userID)
		return nil
	}
	pick := candidates[0]
	services.SendNotification(fbApp, db, userID, "Today's Outfit Idea",
		fmt.Sprintf("Try \"%s\" from your own wardrobe today", pick.Name),
		map[string]string{"type": "daily_outfit"})
	return nil
}
