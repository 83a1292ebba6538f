package models

import (
	"regexp"

	"github.com/go-playground/validator"
	"github.com/lib/pq"
)

type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryDresses     Category = "dresses"
	CategoryOuterwear   Category = "outerwear"
	CategoryAccessories Category = "accessories"
	CategoryShoes       Category = "shoes"
	// sentinel for items the classifier could not place
	CategoryOther Category = "other"
)

// AllCategories is the closed set structural validation works against.
// CategoryOther is deliberately excluded: unclassified items never satisfy
// composition rules.
var AllCategories = []Category{
	CategoryTops, CategoryBottoms, CategoryDresses,
	CategoryOuterwear, CategoryAccessories, CategoryShoes,
}

func (c *Category) Scan(value interface{}) error {
	*c = Category(value.(string))
	return nil
}

func (c Category) Value() (string, error) {
	return string(c), nil
}

func ValidateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^tops|bottoms|dresses|outerwear|accessories|shoes$", value)
	return matched
}

// NormalizeCategory coerces anything outside the closed set to CategoryOther.
func NormalizeCategory(raw string) Category {
	for _, c := range AllCategories {
		if string(c) == raw {
			return c
		}
	}
	return CategoryOther
}

type GarmentItem struct {
	JsonModel
	Name     string      `json:"name"`
	Owner    UserAccount `json:"-"`
	OwnerID  uint        `json:"-"`
	Category Category    `sql:"type:ENUM('tops', 'bottoms', 'dresses', 'outerwear', 'accessories', 'shoes', 'other')" json:"category"`

	// classifier-filled descriptive tags, nil until verified
	Subcategory *string `json:"subcategory"`
	Style       *string `json:"style"`
	Formality   *string `json:"formality"` // casual, business_casual, formal
	FabricType  *string `json:"fabric_type"`
	Pattern     *string `json:"pattern"`

	// first entry is the dominant color once classified
	Colors pq.StringArray `gorm:"type:text[]" json:"colors"`
	// 1..5, nil when the classifier has not run
	WarmthLevel         *int           `json:"warmth_level"`
	WeatherSuitability  pq.StringArray `gorm:"type:text[]" json:"weather_suitability"`  // cold, rain, sun, mild
	OccasionSuitability pq.StringArray `gorm:"type:text[]" json:"occasion_suitability"` // business, casual, formal, date_night, sporty

	IsVerified bool `gorm:"default:false" json:"is_verified"`

	// idle, pending, completed, failed
	ProcessingStatus    string  `json:"processing_status"`
	ProcessRetryTimes   int     `json:"process_retry_times"`
	ProcessErrorMessage *string `json:"process_error_message"`
	AlertWhenProcessed  bool    `json:"alert_when_processed"`

	// file key in R2, presigned per request
	ImageURL *string `json:"image_url"`
}

// DominantColor returns the first classified color or "" pre-classification.
func (g *GarmentItem) DominantColor() string {
	if len(g.Colors) == 0 {
		return ""
	}
	return g.Colors[0]
}
