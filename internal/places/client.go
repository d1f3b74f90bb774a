package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

var (
	// ErrMissingAPIKey is returned when the client was built without an API key.
	ErrMissingAPIKey = errors.New("places: api key not configured")
	// ErrProvider wraps non-OK responses from the places provider.
	ErrProvider = errors.New("places: provider request failed")
)

// Result is one place returned by a nearby search.
type Result struct {
	PlaceID        string
	Name           string
	Types          []string
	Address        string
	Rating         float64
	Latitude       float64
	Longitude      float64
	PhotoReference string
}

// Config carries the provider settings for the places client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client searches a Google-Places-compatible API for places near a coordinate.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient constructs a places client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Types    []string `json:"types"`
		Vicinity string   `json:"vicinity"`
		Rating   float64  `json:"rating"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

// SearchNearby returns places around the coordinate, optionally narrowed by a
// keyword. Results are requested in Korean.
func (c *Client) SearchNearby(ctx context.Context, lat, lon float64, radiusMeters int, keyword string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if radiusMeters <= 0 {
		radiusMeters = 3000
	}

	query := url.Values{}
	query.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(radiusMeters))
	query.Set("language", "ko")
	query.Set("key", c.apiKey)
	if keyword != "" {
		query.Set("keyword", keyword)
	}

	endpoint := c.baseURL + "/nearbysearch/json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("places: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, string(body))
	}

	var payload nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		c.logger.WarnContext(ctx, "places provider rejected the search", slog.String("status", payload.Status))
		return nil, fmt.Errorf("%w: status %s", ErrProvider, payload.Status)
	}

	results := make([]Result, 0, len(payload.Results))
	for _, item := range payload.Results {
		result := Result{
			PlaceID:   item.PlaceID,
			Name:      item.Name,
			Types:     item.Types,
			Address:   item.Vicinity,
			Rating:    item.Rating,
			Latitude:  item.Geometry.Location.Lat,
			Longitude: item.Geometry.Location.Lng,
		}
		if len(item.Photos) > 0 {
			result.PhotoReference = item.Photos[0].PhotoReference
		}
		results = append(results, result)
	}
	return results, nil
}

// PhotoURL builds the photo fetch URL for a photo reference.
func (c *Client) PhotoURL(reference string, maxWidth int) string {
	if reference == "" || c.apiKey == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	query := url.Values{}
	query.Set("photo_reference", reference)
	query.Set("maxwidth", strconv.Itoa(maxWidth))
	query.Set("key", c.apiKey)
	return c.baseURL + "/photo?" + query.Encode()
}
