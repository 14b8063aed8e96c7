package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	pkgerrors "github.com/skycasthq/skycast-backend/pkg/errors"
	"github.com/skycasthq/skycast-backend/pkg/metrics"
)

const (
	defaultBaseURL              = "https://api.weatherapi.com/v1"
	currentEndpoint             = "current.json"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("weatherapi api key is required")

// Client wraps the WeatherAPI.com current conditions API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	circuit    *gobreaker.CircuitBreaker
	metrics    *metrics.ProviderMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured WeatherAPI base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithMetrics attaches provider call metrics.
func WithMetrics(m *metrics.ProviderMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the WeatherAPI client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weatherapi",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Location identifies the place WeatherAPI resolved the query to.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Localtime string  `json:"localtime"`
}

// Condition describes the textual conditions for a reading.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// AirQuality carries the optional pollutant readings.
type AirQuality struct {
	CO           float64 `json:"co"`
	NO2          float64 `json:"no2"`
	O3           float64 `json:"o3"`
	SO2          float64 `json:"so2"`
	PM25         float64 `json:"pm2_5"`
	PM10         float64 `json:"pm10"`
	USEPAIndex   int     `json:"us-epa-index"`
	GBDefraIndex int     `json:"gb-defra-index"`
}

// Current holds the current conditions block returned by WeatherAPI.
type Current struct {
	LastUpdated string      `json:"last_updated"`
	TempC       float64     `json:"temp_c"`
	TempF       float64     `json:"temp_f"`
	IsDay       int         `json:"is_day"`
	Condition   Condition   `json:"condition"`
	WindKph     float64     `json:"wind_kph"`
	WindDegree  int         `json:"wind_degree"`
	WindDir     string      `json:"wind_dir"`
	PressureMb  float64     `json:"pressure_mb"`
	PrecipMm    float64     `json:"precip_mm"`
	Humidity    int         `json:"humidity"`
	Cloud       int         `json:"cloud"`
	FeelsLikeC  float64     `json:"feelslike_c"`
	FeelsLikeF  float64     `json:"feelslike_f"`
	VisKm       float64     `json:"vis_km"`
	UV          float64     `json:"uv"`
	GustKph     float64     `json:"gust_kph"`
	AirQuality  *AirQuality `json:"air_quality,omitempty"`
}

// Observation is the full current-conditions payload.
type Observation struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

// CurrentRequest describes a current conditions lookup.
type CurrentRequest struct {
	// Query is the WeatherAPI q parameter: a city name or "lat,lon" pair.
	Query             string
	IncludeAirQuality bool
}

// Current fetches current conditions for the requested location.
func (c *Client) Current(ctx context.Context, req CurrentRequest) (*Observation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "weatherapi client not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weather query is required")
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", query)
	if req.IncludeAirQuality {
		values.Set("aqi", "yes")
	} else {
		values.Set("aqi", "no")
	}

	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.baseURL, "/"), currentEndpoint, values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build current conditions request")
	}

	start := time.Now()
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(httpReq)
		if execErr != nil {
			return nil, execErr
		}
		return resp, nil
	})
	c.metrics.ObserveDuration(currentEndpoint, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(currentEndpoint)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "weather provider circuit open")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute current conditions request")
	}

	resp, ok := result.(*http.Response)
	if !ok {
		c.metrics.IncFailure(currentEndpoint)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "unexpected circuit breaker result")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncFailure(currentEndpoint)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "current conditions request failed")
	}

	var observation Observation
	if err := json.NewDecoder(resp.Body).Decode(&observation); err != nil {
		c.metrics.IncFailure(currentEndpoint)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode current conditions response")
	}

	c.metrics.IncSuccess(currentEndpoint)
	return &observation, nil
}

// FormatCoordinates renders a lat/lon pair as a WeatherAPI q parameter.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
