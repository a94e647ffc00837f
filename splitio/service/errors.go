package service

import "fmt"

// HTTPError represents a non-2xx response returned by the remote end
type HTTPError struct {
	Code    int
	Message string
}

func (h *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", h.Code, h.Message)
}
