package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/geo"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const firmsBaseURL = "https://firms.modaps.eosdis.nasa.gov/api/area/csv"

// FIRMSDetector queries the NASA FIRMS active-fire area API (MODIS NRT,
// which reports numeric detection confidence). Requires a MAP_KEY; without
// one the source reports itself unconfigured and the validator skips it.
type FIRMSDetector struct {
	baseURL    string
	mapKey     string
	httpClient *http.Client
}

func NewFIRMSDetector(mapKey string) *FIRMSDetector {
	return &FIRMSDetector{baseURL: firmsBaseURL, mapKey: mapKey, httpClient: newHTTPClient()}
}

// NewFIRMSDetectorWithBaseURL overrides the endpoint, useful for tests.
func NewFIRMSDetectorWithBaseURL(mapKey, baseURL string) *FIRMSDetector {
	return &FIRMSDetector{baseURL: baseURL, mapKey: mapKey, httpClient: newHTTPClient()}
}

func (c *FIRMSDetector) Name() string { return "NASA FIRMS" }

// Configured reports whether a MAP_KEY is present.
func (c *FIRMSDetector) Configured() bool { return c.mapKey != "" }

func (c *FIRMSDetector) Detections(ctx context.Context, point types.GeoPoint, radiusKM float64) ([]FireDetection, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("firms: no MAP_KEY configured")
	}

	// Bounding box around the point; distance is filtered client-side.
	degrees := radiusKM / 111.0
	area := fmt.Sprintf("%.3f,%.3f,%.3f,%.3f",
		point.Long-degrees, point.Lat-degrees,
		point.Long+degrees, point.Lat+degrees)
	fullURL := fmt.Sprintf("%s/%s/MODIS_NRT/%s/1", c.baseURL, c.mapKey, area)

	body, err := getBody(ctx, c.httpClient, fullURL)
	if err != nil {
		return nil, fmt.Errorf("firms query: %w", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("firms csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	latCol, latOK := columns["latitude"]
	lonCol, lonOK := columns["longitude"]
	confCol, confOK := columns["confidence"]
	if !latOK || !lonOK || !confOK {
		return nil, fmt.Errorf("firms csv: missing expected columns")
	}

	var detections []FireDetection
	for _, row := range records[1:] {
		if len(row) <= latCol || len(row) <= lonCol || len(row) <= confCol {
			continue
		}
		lat, errLat := strconv.ParseFloat(row[latCol], 64)
		lon, errLon := strconv.ParseFloat(row[lonCol], 64)
		conf, errConf := strconv.Atoi(strings.TrimSpace(row[confCol]))
		if errLat != nil || errLon != nil || errConf != nil {
			continue
		}
		detections = append(detections, FireDetection{
			Lat:        lat,
			Long:       lon,
			Confidence: conf,
			DistanceKM: geo.HaversineKM(point.Lat, point.Long, lat, lon),
		})
	}
	return detections, nil
}
