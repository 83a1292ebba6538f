package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rekeystam/StyleAIApp/models"
)

// weatherCacheFreshness is the window during which a stored snapshot is
// served without hitting the upstream API.
const weatherCacheFreshness = 30 * time.Minute

type WeatherServiceProvider interface {
	GetWeather(ctx context.Context, db *gorm.DB, location string) (*models.WeatherSnapshot, error)
}

type OpenWeatherService struct{}

type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// conditionTag maps the upstream condition naming onto the tags the outfit
// pipeline filters on (sunny, cloudy, rainy, snowy).
func conditionTag(main string) string {
	switch strings.ToLower(main) {
	case "rain", "drizzle", "thunderstorm":
		return "rainy"
	case "snow":
		return "snowy"
	case "clear":
		return "sunny"
	default:
		return "cloudy"
	}
}

// GetWeather serves the cached snapshot when fresh, otherwise fetches and
// upserts. A stale cache entry is still returned as a fallback when the
// upstream fetch fails.
func (OpenWeatherService) GetWeather(ctx context.Context, db *gorm.DB, location string) (*models.WeatherSnapshot, error) {
	if location == "" {
		return nil, nil
	}

	var cached models.WeatherCache
	r := db.Limit(1).Find(&cached, "location = ?", location)
	if r.RowsAffected > 0 && time.Since(cached.FetchedAt) < weatherCacheFreshness {
		return cached.Snapshot(), nil
	}

	snapshot, err := fetchOpenWeather(ctx, location)
	if err != nil {
		fmt.Printf("[Weather] Fetch failed for %s: %v\n", location, err)
		if r.RowsAffected > 0 {
			return cached.Snapshot(), nil
		}
		return nil, err
	}

	cached.Location = location
	cached.TemperatureC = snapshot.TemperatureC
	cached.Condition = snapshot.Condition
	cached.Humidity = snapshot.Humidity
	cached.WindSpeed = snapshot.WindSpeed
	cached.FetchedAt = time.Now().UTC()
	if err := db.Save(&cached).Error; err != nil {
		fmt.Printf("[Weather] Failed to cache snapshot for %s: %v\n", location, err)
	}

	return snapshot, nil
}

func fetchOpenWeather(ctx context.Context, location string) (*models.WeatherSnapshot, error) {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY environment variable not set")
	}

	query := url.Values{}
	query.Add("q", location)
	query.Add("appid", apiKey)
	query.Add("units", "metric")

	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.openweathermap.org/data/2.5/weather?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status %d for %s", resp.StatusCode, location)
	}

	var parsed openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error parsing weather response: %v", err)
	}

	condition := "cloudy"
	if len(parsed.Weather) > 0 {
		condition = conditionTag(parsed.Weather[0].Main)
	}

	return &models.WeatherSnapshot{
		TemperatureC: parsed.Main.Temp,
		Condition:    condition,
		Humidity:     parsed.Main.Humidity,
		WindSpeed:    parsed.Wind.Speed,
	}, nil
}
