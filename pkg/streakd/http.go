package streakd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
)

// UserHeader carries the acting user's ID.
const UserHeader = "X-Streakd-User"

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userID != "" {
		req.Header.Set(UserHeader, c.userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do sends a request and decodes the response into out when the status is
// want. Any other status is decoded as an API error.
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, want int, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return parseErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

// parseErrorResponse parses an error response from the API into an *Error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Code == "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Code:       ErrorCode(apiErr.Error.Code),
		Message:    apiErr.Error.Message,
		Context:    apiErr.Error.Context,
	}
}

// extractStringSlice extracts a string slice from a context map.
func extractStringSlice(ctx map[string]interface{}, key string) []string {
	val, ok := ctx[key]
	if !ok {
		return nil
	}

	// JSON unmarshals arrays as []interface{}
	slice, ok := val.([]interface{})
	if !ok {
		return nil
	}

	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}
