package streakd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Client is an HTTP client for the streakd server API.
type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// NewClient creates a new streakd API client.
//
// Options:
//   - WithUserID: the acting user, required for everything except Health and RegisterUser
//   - WithHost: sets the server host (default: localhost)
//   - WithPort: sets the server port (default: 7433)
//   - WithTimeout: sets the HTTP client timeout (default: 30s)
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.port)
	}

	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", cfg.host, cfg.port),
		userID:  cfg.userID,
		http: &http.Client{
			Timeout: cfg.timeout,
		},
	}, nil
}

// UserID returns the user the client acts as.
func (c *Client) UserID() string {
	return c.userID
}

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrServerUnhealthy
	}

	return nil
}

// RegisterUser creates a new user at level 1 with zero XP.
func (c *Client) RegisterUser(ctx context.Context, username, email string) (*User, error) {
	var user User
	body := registerUserRequest{Username: username, Email: email}
	if err := c.do(ctx, "register user", http.MethodPost, "/v1/users", body, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the acting user's progression.
func (c *Client) Me(ctx context.Context) (*Progress, error) {
	var progress Progress
	if err := c.do(ctx, "get user", http.MethodGet, "/v1/users/me", nil, http.StatusOK, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// DeleteMe deletes the acting user with all their habits.
func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, "delete user", http.MethodDelete, "/v1/users/me", nil, http.StatusNoContent, nil)
}

// CreateHabit creates a habit for the acting user.
func (c *Client) CreateHabit(ctx context.Context, name string, opts ...CreateHabitOption) (*Habit, error) {
	body := createHabitRequest{Name: name}
	for _, opt := range opts {
		opt(&body)
	}

	var habit Habit
	if err := c.do(ctx, "create habit", http.MethodPost, "/v1/habits", body, http.StatusCreated, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

// GetHabit retrieves one of the acting user's habits.
func (c *Client) GetHabit(ctx context.Context, id string) (*Habit, error) {
	var habit Habit
	if err := c.do(ctx, "get habit", http.MethodGet, "/v1/habits/"+url.PathEscape(id), nil, http.StatusOK, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

// ListHabits lists the acting user's habits.
func (c *Client) ListHabits(ctx context.Context, opts ...ListOption) (*HabitList, error) {
	var resp paginatedResponse[Habit]
	if err := c.do(ctx, "list habits", http.MethodGet, "/v1/habits"+listQuery(opts), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &HabitList{
		Habits:     resp.Data,
		Page:       resp.Pagination.Page,
		PerPage:    resp.Pagination.PerPage,
		Total:      resp.Pagination.Total,
		TotalPages: resp.Pagination.TotalPages,
	}, nil
}

// DeleteHabit deletes a habit and its completions.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, "delete habit", http.MethodDelete, "/v1/habits/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// CompleteHabit marks a habit done for the current period.
func (c *Client) CompleteHabit(ctx context.Context, id string, opts ...CompleteOption) (*CompletionResult, error) {
	var body completeHabitRequest
	for _, opt := range opts {
		opt(&body)
	}

	var result CompletionResult
	path := "/v1/habits/" + url.PathEscape(id) + "/complete"
	if err := c.do(ctx, "complete habit", http.MethodPost, path, body, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCompletions lists a habit's completions, newest first.
func (c *Client) ListCompletions(ctx context.Context, habitID string, opts ...ListOption) (*CompletionList, error) {
	var resp paginatedResponse[Completion]
	path := "/v1/habits/" + url.PathEscape(habitID) + "/completions" + listQuery(opts)
	if err := c.do(ctx, "list completions", http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &CompletionList{
		Completions: resp.Data,
		Page:        resp.Pagination.Page,
		PerPage:     resp.Pagination.PerPage,
		Total:       resp.Pagination.Total,
		TotalPages:  resp.Pagination.TotalPages,
	}, nil
}

// Stats returns aggregate statistics of the acting user's habits.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, "get stats", http.MethodGet, "/v1/habits/stats", nil, http.StatusOK, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func listQuery(opts []ListOption) string {
	o := defaultListOptions()
	for _, opt := range opts {
		opt(o)
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(o.page))
	params.Set("per_page", strconv.Itoa(o.perPage))
	return "?" + params.Encode()
}
