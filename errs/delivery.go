package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDeliveryFailed = errors.New("notification delivery failed")
	ErrStorage        = errors.New("file storage failed")
)

// NewDeliveryError wraps a failure of an outbound channel (mail, sms).
func NewDeliveryError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrDeliveryFailed,
		Details:    fmt.Sprintf("Failed to deliver %s", channel),
		Cause:      cause,
	}
}

func NewStorageError(operation, name string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s %s", operation, name),
		Cause:      cause,
	}
}

func IsDeliveryError(err error) bool {
	return errors.Is(err, ErrDeliveryFailed)
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
