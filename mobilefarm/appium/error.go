package appium

import (
	"errors"
	"fmt"
)

// Error is a W3C WebDriver error returned by the automation server. It is
// handed back to callers as-is so the server's own error code stays visible.
type Error struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("appium: %s (http %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("appium: %s: %s", e.Code, e.Message)
}

// W3C error codes the callers branch on.
const (
	ErrCodeNoSuchElement    = "no such element"
	ErrCodeStaleElement     = "stale element reference"
	ErrCodeTimeout          = "timeout"
	ErrCodeInvalidSession   = "invalid session id"
	ErrCodeUnknownCommand   = "unknown command"
	ErrCodeSessionNotCreate = "session not created"
)

// IsNoSuchElement reports whether err is a "no such element" server error.
func IsNoSuchElement(err error) bool {
	return hasCode(err, ErrCodeNoSuchElement)
}

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
