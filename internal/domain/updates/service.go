package updates

import (
	"context"
	"log/slog"
	"math"

	apperrors "github.com/krushisathi/krushi-sathi/pkg/errors"
)

// Service exposes the weather/market/scheme updates feed.
type Service interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// WeatherClient fetches a current observation for coordinates.
type WeatherClient interface {
	Current(ctx context.Context, lat, lon float64) (Observation, error)
}

type service struct {
	cfg     Config
	weather WeatherClient
	logger  *slog.Logger
}

// NewService wires up the updates domain.
func NewService(cfg Config, weather WeatherClient, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		weather: weather,
		logger:  logger.With("component", "updates.service"),
	}
}

func (s *service) Fetch(ctx context.Context, req Request) (Response, error) {
	lat, lon := s.cfg.DefaultLat, s.cfg.DefaultLon
	if req.Lat != nil {
		lat = *req.Lat
	}
	if req.Lon != nil {
		lon = *req.Lon
	}

	obs, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		return Response{}, apperrors.Wrap("weather_error", "failed to fetch updates", err)
	}
	s.logger.Info("weather fetched", "lat", lat, "lon", lon)

	return Response{
		Weather: Weather{
			TemperatureC: obs.TemperatureC,
			WindKph:      toKph(obs.WindSpeedMS),
			Description:  "Live weather from Open-Meteo",
		},
		Market:  marketRows(),
		Schemes: schemeRows(),
	}, nil
}

// toKph converts m/s to km/h rounded to the nearest integer.
func toKph(ms *float64) *int {
	if ms == nil {
		return nil
	}
	kph := int(math.Round(*ms * 3.6))
	return &kph
}

// Market and scheme rows are static in this design; a production feed
// would replace them.
func marketRows() []Market {
	return []Market{
		{Crop: "Tomato", PricePerKgInr: 28},
		{Crop: "Onion", PricePerKgInr: 36},
	}
}

func schemeRows() []Scheme {
	return []Scheme{
		{Title: "PM-Kisan", Status: "Open"},
		{Title: "Pradhan Mantri Fasal Bima Yojana", Status: "Due 30 Sep"},
	}
}
