package models

import (
	"time"

	"github.com/lib/pq"
)

type SavedOutfit struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`

	Name        string        `json:"name"`
	ItemIDs     pq.Int64Array `gorm:"type:bigint[]" json:"item_ids"`
	Occasion    string        `json:"occasion"`
	Confidence  int           `json:"confidence"`
	Description string        `gorm:"type:text" json:"description"`
	StylingTips string        `gorm:"type:text" json:"styling_tips"`
	WeatherNote string        `gorm:"type:text" json:"weather_note"`
}

type ShoppingRecommendation struct {
	JsonModel
	Owner   UserAccount `json:"-"`
	OwnerID uint        `json:"-"`

	Suggestions pq.StringArray `gorm:"type:text[]" json:"suggestions"`
	// mean confidence of the weak outfits that triggered the analysis
	Confidence int `json:"confidence"`
}

// WeatherSnapshot is the immutable per-request weather input to the pipeline.
type WeatherSnapshot struct {
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"` // sunny, cloudy, rainy, snowy
	Humidity     int     `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
}

// WeatherCache keeps the latest fetched snapshot per location with a
// freshness window of ~30 minutes.
type WeatherCache struct {
	JsonModel
	Location     string  `gorm:"uniqueIndex" json:"location"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	Humidity     int     `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
	FetchedAt    time.Time
}

func (w *WeatherCache) Snapshot() *WeatherSnapshot {
	return &WeatherSnapshot{
		TemperatureC: w.TemperatureC,
		Condition:    w.Condition,
		Humidity:     w.Humidity,
		WindSpeed:    w.WindSpeed,
	}
}
