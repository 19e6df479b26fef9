package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	nwsBaseURL         = "https://api.weather.gov"
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
)

// NWSAlertFeed queries the National Weather Service active-alerts API.
// No credentials required.
type NWSAlertFeed struct {
	baseURL    string
	httpClient *http.Client
}

func NewNWSAlertFeed() *NWSAlertFeed {
	return &NWSAlertFeed{baseURL: nwsBaseURL, httpClient: newHTTPClient()}
}

// NewNWSAlertFeedWithBaseURL overrides the endpoint, useful for tests.
func NewNWSAlertFeedWithBaseURL(baseURL string) *NWSAlertFeed {
	return &NWSAlertFeed{baseURL: baseURL, httpClient: newHTTPClient()}
}

func (c *NWSAlertFeed) Name() string { return "NWS" }

func (c *NWSAlertFeed) ActiveAlerts(ctx context.Context, point types.GeoPoint) ([]types.OfficialAlert, error) {
	fullURL := fmt.Sprintf("%s/alerts/active?point=%.4f,%.4f", c.baseURL, point.Lat, point.Long)

	body, err := getBody(ctx, c.httpClient, fullURL)
	if err != nil {
		return nil, fmt.Errorf("nws alerts: %w", err)
	}

	var decoded struct {
		Features []struct {
			Properties struct {
				Event     string `json:"event"`
				Severity  string `json:"severity"`
				AreaDesc  string `json:"areaDesc"`
				Effective string `json:"effective"`
				Headline  string `json:"headline"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("nws decode: %w", err)
	}

	alerts := make([]types.OfficialAlert, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		alerts = append(alerts, types.OfficialAlert{
			Source:    c.Name(),
			AlertType: f.Properties.Event,
			Severity:  f.Properties.Severity,
			Area:      f.Properties.AreaDesc,
			Issued:    f.Properties.Effective,
			Message:   f.Properties.Headline,
		})
	}
	return alerts, nil
}

// OpenWeatherConditions queries OpenWeather for current conditions.
// Requires an API key; without one the source reports itself unconfigured
// and the validator skips it.
type OpenWeatherConditions struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenWeatherConditions(apiKey string) *OpenWeatherConditions {
	return &OpenWeatherConditions{baseURL: openWeatherBaseURL, apiKey: apiKey, httpClient: newHTTPClient()}
}

// NewOpenWeatherConditionsWithBaseURL overrides the endpoint, useful for tests.
func NewOpenWeatherConditionsWithBaseURL(apiKey, baseURL string) *OpenWeatherConditions {
	return &OpenWeatherConditions{baseURL: baseURL, apiKey: apiKey, httpClient: newHTTPClient()}
}

func (c *OpenWeatherConditions) Name() string { return "OpenWeather" }

// Configured reports whether an API key is present.
func (c *OpenWeatherConditions) Configured() bool { return c.apiKey != "" }

func (c *OpenWeatherConditions) Current(ctx context.Context, point types.GeoPoint) (types.MeteorologicalReading, error) {
	if !c.Configured() {
		return types.MeteorologicalReading{}, fmt.Errorf("openweather: no API key configured")
	}

	params := url.Values{
		"lat":   {strconv.FormatFloat(point.Lat, 'f', 4, 64)},
		"lon":   {strconv.FormatFloat(point.Long, 'f', 4, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	body, err := getBody(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return types.MeteorologicalReading{}, fmt.Errorf("openweather: %w", err)
	}

	var decoded struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Rain struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Visibility float64 `json:"visibility"`
		Weather    []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return types.MeteorologicalReading{}, fmt.Errorf("openweather decode: %w", err)
	}

	reading := types.MeteorologicalReading{
		Source:        c.Name(),
		Temperature:   decoded.Main.Temp,
		Humidity:      decoded.Main.Humidity,
		Pressure:      decoded.Main.Pressure,
		WindSpeed:     decoded.Wind.Speed,
		WindDirection: decoded.Wind.Deg,
		Precipitation: decoded.Rain.OneHour,
		Visibility:    decoded.Visibility,
	}
	if len(decoded.Weather) > 0 {
		reading.Condition = decoded.Weather[0].Description
		if reading.Condition == "" {
			reading.Condition = decoded.Weather[0].Main
		}
	}
	return reading, nil
}
