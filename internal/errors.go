package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx answer or transport failure from the chat backend
type APIError struct {
	Op         string // "send", "list", "delete", "clear", "tools", "history"
	Path       string
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error [%s] %s: %v", e.Op, e.Path, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("api error [%s] %s: status %d: %s", e.Op, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error [%s] %s: status %d", e.Op, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// StateError represents errors reading or writing local client state
type StateError struct {
	Path string
	Op   string // "open", "get", "set", "migrate"
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
