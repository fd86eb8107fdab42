package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx GitHub API response. The message comes from the
// API's own error body; credentials never appear in it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("github api: %d: %s", e.StatusCode, e.Message)
}

type apiErrorBody struct {
	Message string `json:"message"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return apiErr
	}
	var body apiErrorBody
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
