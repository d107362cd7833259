package streakd

import "time"

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	host    string
	port    int
	userID  string
	timeout time.Duration
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		host:    "localhost",
		port:    7433,
		timeout: 30 * time.Second,
	}
}

// WithHost sets the server host.
func WithHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithPort sets the server port.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) {
		c.port = port
	}
}

// WithUserID sets the user the client acts as.
func WithUserID(userID string) ClientOption {
	return func(c *clientConfig) {
		c.userID = userID
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// CreateHabitOption configures a CreateHabit call.
type CreateHabitOption func(*createHabitRequest)

// WithDescription sets the habit description.
func WithDescription(desc string) CreateHabitOption {
	return func(r *createHabitRequest) {
		r.Description = &desc
	}
}

// WithCadence sets the habit cadence. The server defaults to daily.
func WithCadence(cadence Cadence) CreateHabitOption {
	return func(r *createHabitRequest) {
		r.Cadence = &cadence
	}
}

// WithReminderTime sets the reminder time as HH:MM.
func WithReminderTime(hhmm string) CreateHabitOption {
	return func(r *createHabitRequest) {
		r.ReminderTime = &hhmm
	}
}

// CompleteOption configures a CompleteHabit call.
type CompleteOption func(*completeHabitRequest)

// WithReflection attaches a free-text note to the completion.
func WithReflection(text string) CompleteOption {
	return func(r *completeHabitRequest) {
		r.Reflection = &text
	}
}

// ListOption configures list calls.
type ListOption func(*listOptions)

type listOptions struct {
	page    int
	perPage int
}

func defaultListOptions() *listOptions {
	return &listOptions{
		page:    1,
		perPage: 50,
	}
}

// WithPage sets the page number (1-indexed).
func WithPage(page int) ListOption {
	return func(o *listOptions) {
		o.page = page
	}
}

// WithPerPage sets the number of items per page.
func WithPerPage(perPage int) ListOption {
	return func(o *listOptions) {
		o.perPage = perPage
	}
}
