package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"homeclean-backend/internal/cache"
	"homeclean-backend/internal/models"
)

const cacheTTL = 24 * time.Hour

type Client struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
	cache      cache.Cache
	logger     *zap.Logger
	backoffs   []time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithCache(store cache.Cache) Option {
	return func(c *Client) { c.cache = store }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithBackoffs(backoffs ...time.Duration) Option {
	return func(c *Client) { c.backoffs = backoffs }
}

func NewClient(baseURL, apiKey, region string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		region:  region,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		cache:    cache.Noop{},
		logger:   zap.NewNop(),
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type apiResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// retryableError marks provider answers worth another attempt.
type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Geocode resolves address to coordinates. Provider-level rejections such as
// ZERO_RESULTS come back as an invalid result; only transport failures and
// exhausted retries return an error.
func (c *Client) Geocode(ctx context.Context, address string) (*models.GeocodeResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &models.GeocodeResponse{Valid: false, Error: "address is required"}, nil
	}

	key := cacheKey(address)
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("geocode cache read failed", zap.Error(err))
	} else if ok {
		var result models.GeocodeResponse
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	var result *models.GeocodeResponse
	err := c.RetryWithBackoff(ctx, func() error {
		var err error
		result, err = c.lookup(ctx, address)
		return err
	}, len(c.backoffs)+1)
	if err != nil {
		return nil, err
	}

	if result.Valid {
		if encoded, err := json.Marshal(result); err == nil {
			if err := c.cache.Set(ctx, key, string(encoded), cacheTTL); err != nil {
				c.logger.Warn("geocode cache write failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (c *Client) lookup(ctx context.Context, address string) (*models.GeocodeResponse, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)
	if c.region != "" {
		query.Set("region", c.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retryableError{fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryableError{fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return nil, retryableError{fmt.Errorf("geocoding failed: status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch decoded.Status {
	case "OK":
		if len(decoded.Results) == 0 {
			return &models.GeocodeResponse{Valid: false, Error: "ZERO_RESULTS"}, nil
		}
		first := decoded.Results[0]
		return &models.GeocodeResponse{
			Valid: true,
			Coordinates: &models.Coordinates{
				Lat: first.Geometry.Location.Lat,
				Lng: first.Geometry.Location.Lng,
			},
			FormattedAddress: first.FormattedAddress,
		}, nil
	case "UNKNOWN_ERROR", "OVER_QUERY_LIMIT":
		return nil, retryableError{fmt.Errorf("geocoding failed: %s", decoded.Status)}
	default:
		msg := decoded.Status
		if decoded.ErrorMessage != "" {
			msg += ": " + decoded.ErrorMessage
		}
		return &models.GeocodeResponse{Valid: false, Error: msg}, nil
	}
}

// RetryWithBackoff runs fn until it succeeds, returns a non-retryable error,
// or maxRetries attempts have been made.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if _, ok := err.(retryableError); !ok {
			return err
		}

		lastErr = err
		if i < len(c.backoffs) && i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoffs[i]):
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
