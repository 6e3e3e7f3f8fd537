// Package tmdb is a minimal client for the TMDB REST API covering the
// endpoints this service consumes: trending, movie search and TV search.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"log/slog"

	"github.com/cinelog/recommender/lib/validation"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// TrendingItem is a single entry in a trending response. MediaType is
// TMDB's vocabulary ("movie", "tv", "person"), not this service's.
type TrendingItem struct {
	ID         int     `json:"id"`
	MediaType  string  `json:"media_type"`
	Popularity float64 `json:"popularity"`
}

type TrendingResult struct {
	Results []TrendingItem `json:"results"`
}

type SearchResult struct {
	Results []struct {
		ID          int     `json:"id"`
		Title       string  `json:"title"`
		ReleaseDate string  `json:"release_date"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

type TVSearchResult struct {
	Results []struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		FirstAirDate string  `json:"first_air_date"`
		PosterPath   string  `json:"poster_path"`
		VoteAverage  float64 `json:"vote_average"`
	} `json:"results"`
}

func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Trending fetches the trending list for the given media type ("all",
// "movie" or "tv") and time window ("day" or "week"). The response is
// schema-validated before decoding.
func (c *Client) Trending(ctx context.Context, mediaType, timeWindow, language string) (*TrendingResult, error) {
	u := fmt.Sprintf("%s/trending/%s/%s?api_key=%s&language=%s",
		c.baseURL, mediaType, timeWindow, c.apiKey, url.QueryEscape(language))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from TMDB: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := validation.ValidateTrendingResponse(body); err != nil {
		return nil, err
	}

	var result TrendingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) SearchMovie(ctx context.Context, title string, year int) (*SearchResult, error) {
	u := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s&year=%d",
		c.baseURL, c.apiKey, strings.ReplaceAll(title, " ", "+"), year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) SearchTVShow(ctx context.Context, title string, year int) (*TVSearchResult, error) {
	u := fmt.Sprintf("%s/search/tv?api_key=%s&query=%s&first_air_date_year=%d",
		c.baseURL, c.apiKey, strings.ReplaceAll(title, " ", "+"), year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	var result TVSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) GetPosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return fmt.Sprintf("https://image.tmdb.org/t/p/w500%s", posterPath)
}
