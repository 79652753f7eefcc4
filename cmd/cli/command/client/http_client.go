package client

// http_client.go = talks to the CodeConnect API for the read-only CLI commands.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"codeconnect/internal/microservices/http-api/dto"
)

// HTTPClient calls the public API endpoints and unwraps the response envelope
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer; Message is the envelope's message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *dto.Pagination `json:"pagination"`
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// ProjectFilter mirrors the query parameters of GET /api/projects
type ProjectFilter struct {
	Search string
	Tags   string
	SortBy string
	Page   int
	Limit  int
}

func (f ProjectFilter) values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Tags != "" {
		v.Set("tags", f.Tags)
	}
	if f.SortBy != "" {
		v.Set("sortBy", f.SortBy)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

func (c *HTTPClient) ListProjects(ctx context.Context, filter ProjectFilter) ([]dto.ProjectResponse, *dto.Pagination, error) {
	var projects []dto.ProjectResponse
	env, err := c.get(ctx, "/api/projects", filter.values(), &projects)
	if err != nil {
		return nil, nil, err
	}
	return projects, env.Pagination, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	var project dto.ProjectResponse
	if _, err := c.get(ctx, "/api/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) RatingDistribution(ctx context.Context, projectID string) (*dto.RatingDistributionResponse, error) {
	var summary dto.RatingDistributionResponse
	if _, err := c.get(ctx, "/api/projects/"+url.PathEscape(projectID)+"/ratings", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	if _, err := c.get(ctx, "/api/users/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dest interface{}) (*envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach API: %w", err)
	}
	defer response.Body.Close() // Ensure the response body is closed

	var env envelope
	decodeErr := json.NewDecoder(response.Body).Decode(&env)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &APIError{StatusCode: response.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return &env, nil
}
