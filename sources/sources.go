// Package sources contains clients for the independent authoritative data
// feeds the validator cross-checks classifications against. Every client
// carries a bounded timeout; a failed or unconfigured source degrades to an
// absent vote upstream and never aborts the validation fan-out.
package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const defaultTimeout = 10 * time.Second

// SeismicQuery bounds a seismic catalog search.
type SeismicQuery struct {
	Center       types.GeoPoint
	RadiusKM     float64
	Start        time.Time
	End          time.Time
	MinMagnitude float64
}

// SeismicCatalog is an earthquake catalog queryable by time window, center
// point, radius and minimum magnitude.
type SeismicCatalog interface {
	Name() string
	Query(ctx context.Context, q SeismicQuery) ([]types.SeismicReading, error)
}

// AlertFeed returns official weather alerts active at a point.
type AlertFeed interface {
	Name() string
	ActiveAlerts(ctx context.Context, point types.GeoPoint) ([]types.OfficialAlert, error)
}

// ConditionsSource returns current meteorological conditions at a point.
type ConditionsSource interface {
	Name() string
	Current(ctx context.Context, point types.GeoPoint) (types.MeteorologicalReading, error)
}

// FireDetection is one satellite active-fire record.
type FireDetection struct {
	Lat        float64
	Long       float64
	Confidence int
	DistanceKM float64
}

// FireDetector returns satellite fire detections near a point.
type FireDetector interface {
	Name() string
	Detections(ctx context.Context, point types.GeoPoint, radiusKM float64) ([]FireDetection, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
