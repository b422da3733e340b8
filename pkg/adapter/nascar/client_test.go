//nolint:thelper,whitespace,lll,funlen,gocritic,dupl // ok for tests
package nascar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/racelytics/competitiveness-analyzer-go/pkg/model"
)

func fastClient(baseURL string, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(baseURL),
		WithRetryDelay(time.Millisecond),
		WithFetchPause(0),
	}
	return NewClient(append(base, opts...)...)
}

func TestClient_RetriesUntilSuccess(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "/2023/race_list_basic.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"series_1":[]}`))
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	data, err := c.raceList(context.Background(), 2023)
	assert.NoError(t, err)
	assert.Equal(t, `{"series_1":[]}`, string(data))
	assert.Equal(t, 3, calls)
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := fastClient(srv.URL, WithMaxAttempts(3))
	_, err := c.lapTimes(context.Background(), 2023, 1, 5212)
	assert.ErrorIs(t, err, model.ErrUnavailable)
	assert.Equal(t, 3, calls)
}

func TestClient_LapTimesURL(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	_, err := c.lapTimes(context.Background(), 2023, 1, 5212)
	assert.NoError(t, err)
	assert.Equal(t, "/2023/1/5212/lap-times.json", path)
}

func TestClient_AbortsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := fastClient(srv.URL, WithRetryDelay(time.Minute))
	start := time.Now()
	_, err := c.raceList(ctx, 2023)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestClient_PacesConsecutiveRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	pause := 50 * time.Millisecond
	c := fastClient(srv.URL, WithFetchPause(pause))

	_, err := c.raceList(context.Background(), 2023)
	assert.NoError(t, err)
	start := time.Now()
	_, err = c.raceList(context.Background(), 2024)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), pause/2)
}
