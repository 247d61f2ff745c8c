package definitions

import (
	"context"
	"time"
)

// Element is a UI element handle returned by a Driver.
type Element interface {
	ID() string
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Rect(ctx context.Context) (Rect, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	SaveScreenshot(ctx context.Context, path string) error
}

// Driver is the remote-control session the tests talk to.
type Driver interface {
	SessionID() string

	FindElement(ctx context.Context, by, value string) (Element, error)
	FindElements(ctx context.Context, by, value string) ([]Element, error)
	ActiveElement(ctx context.Context) (Element, error)

	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)
	Tap(ctx context.Context, positions []Point, duration time.Duration) error
	Swipe(ctx context.Context, startX, startY, endX, endY int, duration time.Duration) error
	ActivateApp(ctx context.Context, appID string) error
	TerminateApp(ctx context.Context, appID string) (bool, error)
	Back(ctx context.Context) error
	OpenNotifications(ctx context.Context) error
	Get(ctx context.Context, url string) error

	CurrentPackage(ctx context.Context) (string, error)
	CurrentActivity(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	WindowSize(ctx context.Context) (Size, error)
	Screenshot(ctx context.Context) ([]byte, error)
	SaveScreenshot(ctx context.Context, path string) error
	ImplicitlyWait(ctx context.Context, timeout time.Duration) error

	// Close closes the current window; Quit ends the session.
	Close(ctx context.Context) error
	Quit(ctx context.Context) error
}
