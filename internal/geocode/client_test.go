package geocode_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/geocode"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Close() {}

const okBody = `{
  "status": "OK",
  "results": [{
    "formatted_address": "1 Martin Pl, Sydney NSW 2000, Australia",
    "geometry": {"location": {"lat": -33.8675, "lng": 151.2070}}
  }]
}`

func TestGeocode_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1 Martin Place Sydney", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "au", r.URL.Query().Get("region"))
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "test-key", "au")
	result, err := client.Geocode(context.Background(), "  1 Martin Place Sydney ")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	require.NotNil(t, result.Coordinates)
	assert.InDelta(t, -33.8675, result.Coordinates.Lat, 1e-6)
	assert.InDelta(t, 151.2070, result.Coordinates.Lng, 1e-6)
	assert.Equal(t, "1 Martin Pl, Sydney NSW 2000, Australia", result.FormattedAddress)
}

func TestGeocode_ZeroResultsIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "test-key", "")
	result, err := client.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Nil(t, result.Coordinates)
	assert.Equal(t, "ZERO_RESULTS", result.Error)
}

func TestGeocode_EmptyAddress(t *testing.T) {
	client := geocode.NewClient("http://unused.invalid", "test-key", "")
	result, err := client.Geocode(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "address is required", result.Error)
}

func TestGeocode_RetriesTransientStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.Write([]byte(`{"status":"UNKNOWN_ERROR"}`))
			return
		}
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "test-key", "", geocode.WithBackoffs(time.Millisecond, time.Millisecond))
	result, err := client.Geocode(context.Background(), "1 Martin Place")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, calls)
}

func TestGeocode_UsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	store := &memoryCache{data: map[string]string{}}
	client := geocode.NewClient(server.URL, "test-key", "", geocode.WithCache(store))

	first, err := client.Geocode(context.Background(), "1 Martin Place")
	require.NoError(t, err)
	second, err := client.Geocode(context.Background(), "1  MARTIN place")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Contains(t, store.data, "geocode:1 martin place")
}

func TestClient_RetryWithBackoff(t *testing.T) {
	client := geocode.NewClient("http://unused.invalid", "test-key", "", geocode.WithBackoffs(time.Millisecond, time.Millisecond))

	callCount := 0
	err := client.RetryWithBackoff(context.Background(), func() error {
		callCount++
		return errors.New("permanent")
	}, 3)

	assert.Error(t, err)
	assert.Equal(t, 1, callCount, "non-retryable errors stop immediately")
}

func TestClient_RetryWithBackoff_Exhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, "test-key", "", geocode.WithBackoffs(time.Millisecond, time.Millisecond))
	_, err := client.Geocode(context.Background(), "1 Martin Place")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}
