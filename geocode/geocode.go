package geocode

import (
	"context"
	"fmt"
	"os"
	"sync"

	"googlemaps.github.io/maps"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

// Result is a resolved location.
type Result struct {
	Point            types.GeoPoint
	FormattedAddress string
}

// Geocoder resolves a free-text location to a coordinate. The boolean is
// false when the service answered but knows no such place; an error means
// the service itself could not be reached.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (Result, bool, error)
}

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
	clientErr  error
)

// MapsGeocoder implements Geocoder with the Google Maps Geocoding API.
type MapsGeocoder struct{}

// initClient initializes the singleton Google Maps client.
func initClient() (*maps.Client, error) {
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			clientErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, clientErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, clientErr
}

func (MapsGeocoder) Geocode(ctx context.Context, location string) (Result, bool, error) {
	client, err := initClient()
	if err != nil {
		return Result{}, false, err
	}

	results, err := client.Geocode(ctx, &maps.GeocodingRequest{Address: location})
	if err != nil {
		return Result{}, false, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(results) == 0 {
		return Result{}, false, nil
	}

	loc := results[0].Geometry.Location
	return Result{
		Point:            types.GeoPoint{Lat: loc.Lat, Long: loc.Lng},
		FormattedAddress: results[0].FormattedAddress,
	}, true, nil
}
