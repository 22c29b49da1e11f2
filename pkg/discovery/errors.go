package discovery

import "fmt"

const defaultErrorMessage = "discovery request failed"

// TransportError reports a non-2xx HTTP response
type TransportError struct {
	StatusCode int
	Status     string // status text, e.g. "502 Bad Gateway"
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("discovery: HTTP error: %s", e.Status)
}

// APIError reports an envelope whose status is not "success" or that carries no data
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "discovery: " + e.Message
}
