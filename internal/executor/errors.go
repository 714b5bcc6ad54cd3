package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnreachable wraps transport failures talking to the rendering service
	ErrServiceUnreachable = errors.New("rendering service unreachable")

	// ErrImageFetch wraps failures obtaining the bytes of a displayed image
	ErrImageFetch = errors.New("image could not be fetched")
)

// ServiceError is a failure reported by the rendering service. Message is
// meant to be shown to the user as-is.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// DownloadError is a non-2xx answer from the download endpoint
type DownloadError struct {
	Status  int
	Message string
}

func (e *DownloadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("download failed (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("download failed (HTTP %d)", e.Status)
}

func unexpectedResponse(status int) *ServiceError {
	return &ServiceError{
		Status:  status,
		Message: fmt.Sprintf("unexpected response from rendering service (HTTP %d)", status),
	}
}
