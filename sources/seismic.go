package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	usgsBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	emscBaseURL = "https://www.seismicportal.eu/fdsnws/event/1/query"
)

// USGSCatalog queries the USGS FDSN event service.
type USGSCatalog struct {
	baseURL    string
	httpClient *http.Client
}

func NewUSGSCatalog() *USGSCatalog {
	return &USGSCatalog{baseURL: usgsBaseURL, httpClient: newHTTPClient()}
}

// NewUSGSCatalogWithBaseURL overrides the endpoint, useful for tests.
func NewUSGSCatalogWithBaseURL(baseURL string) *USGSCatalog {
	return &USGSCatalog{baseURL: baseURL, httpClient: newHTTPClient()}
}

func (c *USGSCatalog) Name() string { return "USGS" }

func (c *USGSCatalog) Query(ctx context.Context, q SeismicQuery) ([]types.SeismicReading, error) {
	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {q.Start.UTC().Format(time.RFC3339)},
		"endtime":      {q.End.UTC().Format(time.RFC3339)},
		"latitude":     {strconv.FormatFloat(q.Center.Lat, 'f', 4, 64)},
		"longitude":    {strconv.FormatFloat(q.Center.Long, 'f', 4, 64)},
		"maxradiuskm":  {strconv.FormatFloat(q.RadiusKM, 'f', 0, 64)},
		"minmagnitude": {strconv.FormatFloat(q.MinMagnitude, 'f', 1, 64)},
	}

	body, err := getBody(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("usgs query: %w", err)
	}

	var decoded struct {
		Features []struct {
			Properties struct {
				Mag     float64 `json:"mag"`
				Place   string  `json:"place"`
				Time    int64   `json:"time"`
				Tsunami int     `json:"tsunami"`
			} `json:"properties"`
			Geometry struct {
				Coordinates []float64 `json:"coordinates"` // [lng, lat, depth]
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("usgs decode: %w", err)
	}

	readings := make([]types.SeismicReading, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		if len(f.Geometry.Coordinates) < 3 {
			continue
		}
		readings = append(readings, types.SeismicReading{
			Source:    c.Name(),
			Magnitude: f.Properties.Mag,
			Depth:     f.Geometry.Coordinates[2],
			Lat:       f.Geometry.Coordinates[1],
			Long:      f.Geometry.Coordinates[0],
			Place:     f.Properties.Place,
			Time:      time.UnixMilli(f.Properties.Time).UTC().Format(time.RFC3339),
			Tsunami:   f.Properties.Tsunami > 0,
		})
	}
	return readings, nil
}

// EMSCCatalog queries the EMSC seismic portal as a secondary regional
// catalog.
type EMSCCatalog struct {
	baseURL    string
	httpClient *http.Client
}

func NewEMSCCatalog() *EMSCCatalog {
	return &EMSCCatalog{baseURL: emscBaseURL, httpClient: newHTTPClient()}
}

// NewEMSCCatalogWithBaseURL overrides the endpoint, useful for tests.
func NewEMSCCatalogWithBaseURL(baseURL string) *EMSCCatalog {
	return &EMSCCatalog{baseURL: baseURL, httpClient: newHTTPClient()}
}

func (c *EMSCCatalog) Name() string { return "EMSC" }

func (c *EMSCCatalog) Query(ctx context.Context, q SeismicQuery) ([]types.SeismicReading, error) {
	params := url.Values{
		"format":    {"json"},
		"starttime": {q.Start.UTC().Format(time.RFC3339)},
		"endtime":   {q.End.UTC().Format(time.RFC3339)},
		"lat":       {strconv.FormatFloat(q.Center.Lat, 'f', 4, 64)},
		"lon":       {strconv.FormatFloat(q.Center.Long, 'f', 4, 64)},
		"maxradius": {strconv.FormatFloat(q.RadiusKM/111.0, 'f', 2, 64)}, // degrees
		"minmag":    {strconv.FormatFloat(q.MinMagnitude, 'f', 1, 64)},
	}

	body, err := getBody(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("emsc query: %w", err)
	}

	var decoded struct {
		Features []struct {
			Properties struct {
				Mag         float64 `json:"mag"`
				FlynnRegion string  `json:"flynn_region"`
				Time        string  `json:"time"`
				Depth       float64 `json:"depth"`
			} `json:"properties"`
			Geometry struct {
				Coordinates []float64 `json:"coordinates"` // [lng, lat, -depth]
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("emsc decode: %w", err)
	}

	readings := make([]types.SeismicReading, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		readings = append(readings, types.SeismicReading{
			Source:    c.Name(),
			Magnitude: f.Properties.Mag,
			Depth:     f.Properties.Depth,
			Lat:       f.Geometry.Coordinates[1],
			Long:      f.Geometry.Coordinates[0],
			Place:     f.Properties.FlynnRegion,
			Time:      f.Properties.Time,
		})
	}
	return readings, nil
}

// getBody performs a GET and returns the body for 2xx responses.
func getBody(ctx context.Context, client *http.Client, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SmartEAS/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, snippet)
	}
	return io.ReadAll(resp.Body)
}
