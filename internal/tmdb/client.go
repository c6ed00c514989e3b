// Package tmdb fetches movie-detail records from the TMDB API.
package tmdb

import (
	"bytes"
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

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// DefaultBaseURL is the movie-detail endpoint; ids are appended directly.
const DefaultBaseURL = "https://api.themoviedb.org/3/movie/"

// DefaultConcurrency bounds in-flight requests.
const DefaultConcurrency = 4

// DefaultTimeout applies when NewClient is given no timeout.
const DefaultTimeout = 30 * time.Second

// StatusError reports a non-200 response.
type StatusError struct {
	ID   int64
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("movie %d: TMDB API returned status %d: %s", e.ID, e.Code, e.Body)
}

// Client is a TMDB movie-detail client.
type Client struct {
	BaseURL     string
	APIKey      string
	Concurrency int
	httpClient  *http.Client
}

// NewClient creates a new TMDB client. A zero timeout means DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Concurrency: DefaultConcurrency,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Movie is one fetched record.
type Movie struct {
	ID  int64
	Raw frame.Raw
}

// movieURL builds {BaseURL}{id}?api_key=KEY&append_to_response=credits.
func (c *Client) movieURL(id int64) string {
	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("append_to_response", "credits")
	return c.BaseURL + strconv.FormatInt(id, 10) + "?" + q.Encode()
}

// FetchMovie fetches a single movie with its credits.
func (c *Client) FetchMovie(ctx context.Context, id int64) (frame.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.movieURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for movie %d: %w", id, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{ID: id, Code: resp.StatusCode, Body: string(body)}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var raw frame.Raw
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode movie %d: %w", id, err)
	}
	return raw, nil
}

// FetchMovies fetches ids concurrently. Movies the API rejects are logged
// and skipped; the rest are returned in input order.
func (c *Client) FetchMovies(ctx context.Context, ids []int64) ([]Movie, error) {
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]frame.Raw, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			raw, err := c.FetchMovie(ctx, id)
			var statusErr *StatusError
			switch {
			case errors.As(err, &statusErr):
				slog.Warn("Movie not found", "id", id, "status", statusErr.Code)
				return nil
			case err != nil:
				return err
			}
			slog.Debug("Fetched movie", "id", id, "title", raw["title"])
			results[i] = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	movies := make([]Movie, 0, len(ids))
	for i, raw := range results {
		if raw != nil {
			movies = append(movies, Movie{ID: ids[i], Raw: raw})
		}
	}
	slog.Info("Fetched movies", "requested", len(ids), "fetched", len(movies))
	return movies, nil
}
