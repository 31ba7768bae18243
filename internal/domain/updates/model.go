package updates

// Request carries the optional coordinates for a weather lookup.
type Request struct {
	Lat *float64
	Lon *float64
}

// Response is serialized back to API consumers.
type Response struct {
	Weather Weather  `json:"weather"`
	Market  []Market `json:"market"`
	Schemes []Scheme `json:"schemes"`
}

// Weather is the live forecast snapshot.
type Weather struct {
	TemperatureC *float64 `json:"temperatureC"`
	WindKph      *int     `json:"windKph"`
	Description  string   `json:"description"`
}

// Market is one mock mandi price row.
type Market struct {
	Crop          string  `json:"crop"`
	PricePerKgInr float64 `json:"pricePerKgInr"`
}

// Scheme is one government scheme row.
type Scheme struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Observation is the raw weather reading fetched from upstream. Wind
// speed arrives in m/s and is converted at the domain boundary.
type Observation struct {
	TemperatureC *float64
	WindSpeedMS  *float64
}

// Config wires runtime defaults for the updates domain.
type Config struct {
	DefaultLat float64
	DefaultLon float64
}
