package types

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat  float64 `firestore:"lat" json:"lat"`
	Long float64 `firestore:"long" json:"long"`
}

// AffectedArea is the estimated impact zone around an event.
type AffectedArea struct {
	Center   GeoPoint `firestore:"center" json:"center"`
	RadiusKM float64  `firestore:"radiusKm" json:"radiusKm"`
}

// ValidationSource is one authoritative source's vote on whether the
// claimed disaster is real. Confirmed is the source's own judgment;
// the overall disasterConfirmed decision belongs to fusion alone.
type ValidationSource struct {
	Name       string      `firestore:"name" json:"name"`
	Confirmed  bool        `firestore:"confirmed" json:"confirmed"`
	Confidence int         `firestore:"confidence" json:"confidence"`
	Data       interface{} `firestore:"data,omitempty" json:"data,omitempty"`
	Timestamp  string      `firestore:"timestamp" json:"timestamp"`
}

// OfficialAlert is a government-issued alert returned by a weather source.
type OfficialAlert struct {
	Source    string `firestore:"source" json:"source"`
	AlertType string `firestore:"alertType" json:"alertType"`
	Severity  string `firestore:"severity" json:"severity"`
	Area      string `firestore:"area" json:"area"`
	Issued    string `firestore:"issued" json:"issued"`
	Message   string `firestore:"message" json:"message"`
}

// MeteorologicalReading is a current-conditions snapshot at a point.
type MeteorologicalReading struct {
	Source        string  `firestore:"source" json:"source"`
	Temperature   float64 `firestore:"temperature" json:"temperature"`
	Humidity      float64 `firestore:"humidity" json:"humidity"`
	Pressure      float64 `firestore:"pressure" json:"pressure"`
	WindSpeed     float64 `firestore:"windSpeed" json:"windSpeed"`
	WindDirection float64 `firestore:"windDirection" json:"windDirection"`
	Precipitation float64 `firestore:"precipitation" json:"precipitation"`
	Visibility    float64 `firestore:"visibility" json:"visibility"`
	Condition     string  `firestore:"condition" json:"condition"`
}

// SeismicReading is one earthquake record from a seismic catalog.
type SeismicReading struct {
	Source     string  `firestore:"source" json:"source"`
	Magnitude  float64 `firestore:"magnitude" json:"magnitude"`
	Depth      float64 `firestore:"depth" json:"depth"`
	Lat        float64 `firestore:"lat" json:"lat"`
	Long       float64 `firestore:"long" json:"long"`
	Place      string  `firestore:"place" json:"place"`
	Time       string  `firestore:"time" json:"time"`
	Tsunami    bool    `firestore:"tsunami" json:"tsunami"`
	DistanceKM float64 `firestore:"distanceKm" json:"distanceKm"`
}

// ValidationResult accumulates every source consulted for one event plus
// the fused outcome. Overall confidence, severity and DisasterConfirmed
// are written only by fusion.
type ValidationResult struct {
	Sources           []ValidationSource      `firestore:"sources" json:"sources"`
	OfficialAlerts    []OfficialAlert         `firestore:"officialAlerts" json:"officialAlerts"`
	WeatherData       []MeteorologicalReading `firestore:"weatherData" json:"weatherData"`
	SeismicData       []SeismicReading        `firestore:"seismicData" json:"seismicData"`
	Confidence        int                     `firestore:"confidence" json:"confidence"`
	Severity          Severity                `firestore:"severity" json:"severity"`
	AffectedArea      *AffectedArea           `firestore:"affectedArea,omitempty" json:"affectedArea,omitempty"`
	Recommendations   []string                `firestore:"recommendations" json:"recommendations"`
	DisasterConfirmed bool                    `firestore:"disasterConfirmed" json:"disasterConfirmed"`
	ValidatedAt       string                  `firestore:"validatedAt" json:"validatedAt"`
}

// ConfirmedSources returns the subset of votes whose source confirmed.
func (v ValidationResult) ConfirmedSources() []ValidationSource {
	var confirmed []ValidationSource
	for _, s := range v.Sources {
		if s.Confirmed {
			confirmed = append(confirmed, s)
		}
	}
	return confirmed
}
