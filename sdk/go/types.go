package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"habitquest/core"
)

// LogResult is the response of a log submission: the updated profile plus
// the rewards earned by that single log, in presentation order.
type LogResult struct {
	Profile core.Profile  `json:"profile"`
	Rewards []core.Reward `json:"rewards"`
}

// AchievementStatus mirrors the achievements listing entry.
type AchievementStatus struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// APIError is a structured error returned by the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("request failed: status %d", resp.StatusCode)
		}
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// ErrEmptyProfileID is returned when profile id is empty.
var ErrEmptyProfileID = errors.New("profile id is required")
