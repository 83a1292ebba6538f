package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// LLMModelName is the Gemini model to use for a given call.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

type LLMResponse struct {
	Response           string `json:"response"`
	InputTokenCount    int32  `json:"input_token_count"`
	Thoughts           string `json:"thoughts"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
}

// GarmentDescriptor is the classifier's structured label set for one photo.
type GarmentDescriptor struct {
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	Subcategory         string   `json:"subcategory"`
	Style               string   `json:"style"`
	Formality           string   `json:"formality"`
	FabricType          string   `json:"fabric_type"`
	Pattern             string   `json:"pattern"`
	Colors              []string `json:"colors"`
	WarmthLevel         int      `json:"warmth_level"`
	WeatherSuitability  []string `json:"weather_suitability"`
	OccasionSuitability []string `json:"occasion_suitability"`
}

// StylistWardrobeItem is the wardrobe slice the stylist prompt is built from.
type StylistWardrobeItem struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Style       string   `json:"style,omitempty"`
	Formality   string   `json:"formality,omitempty"`
	Colors      []string `json:"colors,omitempty"`
}

// StylistContext is everything the stylist sees for one suggestion request.
type StylistContext struct {
	Wardrobe    []StylistWardrobeItem `json:"wardrobe"`
	Occasion    string                `json:"occasion,omitempty"`
	Weather     *StylistWeather       `json:"weather,omitempty"`
	Profile     *StylistProfile       `json:"profile,omitempty"`
	AvoidCombos []string              `json:"avoid_combos,omitempty"`
}

type StylistWeather struct {
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

type StylistProfile struct {
	BodyType       string   `json:"body_type,omitempty"`
	SkinTone       string   `json:"skin_tone,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	FavoriteColors []string `json:"favorite_colors,omitempty"`
	AvoidColors    []string `json:"avoid_colors,omitempty"`
}

type LLMStylistProvider interface {
	ClassifyGarment(filePath string, modelName LLMModelName) (*LLMResponse, error)
	SuggestOutfits(ctx context.Context, stylistCtx StylistContext, modelName LLMModelName) (*LLMResponse, error)
}

// IsQuotaError reports whether the Gemini call failed on rate/quota limits.
// These are expected failures: callers degrade to the fallback generator
// instead of surfacing them.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota")
}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

func tryUploadGoogleStorage(ctx context.Context, client *genai.Client, filePath string, newName *string) (*genai.File, error) {
	var genFile *genai.File
	var err error
	maxUploadTimes := 3
	for i := range maxUploadTimes {
		config := &genai.UploadFileConfig{}
		if newName != nil {
			config = &genai.UploadFileConfig{
				Name: *newName,
			}
		}

		genFile, err = client.Files.UploadFromPath(ctx, filePath, config)
		if err == nil {
			fmt.Println("File uploaded successfully:", filePath, "Attempt:", i+1)
			return genFile, nil
		}
		fmt.Printf("Error uploading file %s, attempt %d: %v\n", filePath, i+1, err)
	}
	return nil, fmt.Errorf("failed to upload file to google storage after %d attempts: %s", maxUploadTimes, filePath)
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		fmt.Println("Finish reason: ", c.FinishReason, " Finish message: ", c.FinishMessage)

		if len(c.SafetyRatings) > 0 {
			fmt.Println("[Safety] Safety ratings present:", len(c.SafetyRatings))
			for _, rating := range c.SafetyRatings {
				fmt.Println("[Safety] rating:", rating.Category, "Score:", rating.Probability, " Blocked:", rating.Blocked)
				if rating.Blocked {
					return nil, fmt.Errorf("content violation: couldn't analyze the image, because it contains %s", rating.Category)
				}
			}
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingContent = part.Text
				continue
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}

type GoogleLLMStylist struct{}

// ClassifyGarment uploads a single garment photo and asks Gemini for the
// structured descriptor. The response is forced into JSON via ResponseSchema;
// parsing into GarmentDescriptor happens at the task boundary.
func (GoogleLLMStylist) ClassifyGarment(filePath string, modelName LLMModelName) (*LLMResponse, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %v", err)
	}

	genFile, err := tryUploadGoogleStorage(ctx, client, filePath, nil)
	if err != nil {
		fmt.Println("Error uploading garment file:", filePath, err)
		return nil, fmt.Errorf("error uploading file %s: %v", filePath, err)
	}

	parts := []*genai.Part{
		{
			FileData: &genai.FileData{
				FileURI:  genFile.URI,
				MIMEType: genFile.MIMEType,
			},
		},
		{
			Text: "Analyze this single clothing item photo and classify it for a digital wardrobe. Ignore background, hangers, mannequins and people. Colors must be ordered by dominance, first entry is the main color. warmth_level is 1 (very light) to 5 (very warm). weather_suitability tags from: cold, rain, sun, mild. occasion_suitability tags from: business, casual, formal, date_night, sporty. If the photo does not contain a clothing item, set category to \"other\".",
		},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  4000,
		Temperature:      floatPointer(0.2),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are an expert fashion cataloguer. Classify clothing item photos precisely. The category field must be exactly one of: tops, bottoms, dresses, outerwear, accessories, shoes, other. The formality field must be one of: casual, business_casual, formal. Return the response in JSON format with all fields populated.`},
			},
		},
		ResponseSchema: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"name":                 {Type: "string"},
				"category":             {Type: "string"},
				"subcategory":          {Type: "string"},
				"style":                {Type: "string"},
				"formality":            {Type: "string"},
				"fabric_type":          {Type: "string"},
				"pattern":              {Type: "string"},
				"colors":               {Type: "array", Items: &genai.Schema{Type: "string"}},
				"warmth_level":         {Type: "integer"},
				"weather_suitability":  {Type: "array", Items: &genai.Schema{Type: "string"}},
				"occasion_suitability": {Type: "array", Items: &genai.Schema{Type: "string"}},
			},
			Required: []string{"name", "category", "colors"},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, err
	}

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s %s", filePath, result.PromptFeedback.BlockReasonMessage)
	}

	return buildLLMResponse(result)
}

// SuggestOutfits sends the filtered wardrobe context to Gemini and asks for
// complete outfit combinations. The caller parses and validates the raw JSON.
func (GoogleLLMStylist) SuggestOutfits(ctx context.Context, stylistCtx StylistContext, modelName LLMModelName) (*LLMResponse, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %v", err)
	}

	contextJSON, err := json.Marshal(stylistCtx)
	if err != nil {
		return nil, fmt.Errorf("error building stylist context: %v", err)
	}

	parts := []*genai.Part{
		{Text: fmt.Sprintf("Wardrobe context:\n%s\n\nCompose up to 5 complete outfits from these items. Use only the item ids present in the wardrobe. Every outfit needs a top, a bottom and shoes. Never repeat any combination listed in avoid_combos (sorted comma-joined item ids).", string(contextJSON))},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		CandidateCount:   1,
		MaxOutputTokens:  8000,
		Temperature:      floatPointer(0.8),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are a professional personal stylist. Compose wearable outfits from the user's own wardrobe, respecting the occasion, the weather and the user's color preferences. Return the response in JSON format: {"outfits": [{"name": string, "item_ids": [int], "confidence": int 0-100, "description": string, "styling_tips": string, "occasion": string}]}. Outfit names must be short, distinct and non-generic.`},
			},
		},
		ResponseSchema: &genai.Schema{
			Type: "object",
			Properties: map[string]*genai.Schema{
				"outfits": {
					Type: "array",
					Items: &genai.Schema{
						Type: "object",
						Properties: map[string]*genai.Schema{
							"name":         {Type: "string"},
							"item_ids":     {Type: "array", Items: &genai.Schema{Type: "integer"}},
							"confidence":   {Type: "integer"},
							"description":  {Type: "string"},
							"styling_tips": {Type: "string"},
							"occasion":     {Type: "string"},
						},
						Required: []string{"name", "item_ids"},
					},
				},
			},
			Required: []string{"outfits"},
		},
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, err
	}

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}

	return buildLLMResponse(result)
}

func buildLLMResponse(result *genai.GenerateContentResponse) (*LLMResponse, error) {
	var inputTokenCount int32
	var thoughtsTokenCount int32
	var outputTokenCount int32
	var totalTokenCount int32
	if result.UsageMetadata != nil {
		inputTokenCount = result.UsageMetadata.PromptTokenCount
		thoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
		outputTokenCount = result.UsageMetadata.CandidatesTokenCount
		totalTokenCount = result.UsageMetadata.TotalTokenCount
		fmt.Println("Input token count:", inputTokenCount)
		fmt.Println("Output token count:", outputTokenCount)
		fmt.Println("Thoughts token count:", thoughtsTokenCount)
		fmt.Println("Total token count:", totalTokenCount)
	} else {
		fmt.Println("UsageMetadata is nil!")
	}

	llmResponseText, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		fmt.Println("Error getting first candidate text: ", err)
		return nil, err
	}

	return &LLMResponse{
		Response:           llmResponseText.Text,
		Thoughts:           llmResponseText.Thoughts,
		InputTokenCount:    inputTokenCount,
		ThoughtsTokenCount: thoughtsTokenCount,
		OutputTokenCount:   outputTokenCount,
		TotalTokenCount:    totalTokenCount,
	}, nil
}
