// Package apierr maps failures onto API-facing error values.
package apierr

import (
	"errors"

	"go.uber.org/zap"
)

var statusText = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
}

// StatusText returns the phrase for a handled HTTP status, or "Unknown Error".
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Error"
}

// Response is the JSON body returned for a failed request.
type Response struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewResponse builds an error response.
func NewResponse(code, message string) Response {
	return Response{Error: true, Code: code, Message: message}
}

// FromError builds a response from err, falling back to the status phrase
// when err carries no usable message.
func FromError(code string, status int, err error) Response {
	if IsValid(err) {
		return NewResponse(code, err.Error())
	}
	return NewResponse(code, StatusText(status))
}

// IsValid reports whether err is non-nil and has a message.
func IsValid(err error) bool {
	return err != nil && err.Error() != ""
}

// Log records err under message at error level.
func Log(logger *zap.Logger, message string, err error) {
	if logger == nil {
		return
	}
	if err == nil {
		err = errors.New("<nil>")
	}
	logger.Error("[ERROR] "+message, zap.Error(err))
}
