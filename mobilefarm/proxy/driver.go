// Package proxy wraps a raw driver and its elements so that every mutating
// action is bracketed by screenshots. Methods that are not overridden here are
// promoted from the embedded raw handle and forwarded untouched.
package proxy

import (
	"context"
	"time"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// Driver is an instrumented driver. It owns the raw driver for its lifetime.
type Driver struct {
	definitions.Driver

	capturer *capture.Capturer
}

var _ definitions.Driver = (*Driver)(nil)

// NewDriver wraps raw; screenshots go to screenshotPath, which must exist.
func NewDriver(raw definitions.Driver, screenshotPath string, opts ...capture.Option) *Driver {
	return &Driver{
		Driver:   raw,
		capturer: capture.New(raw, screenshotPath, opts...),
	}
}

// Raw returns the wrapped driver.
func (d *Driver) Raw() definitions.Driver {
	return d.Driver
}

func (d *Driver) ScreenshotPath() string {
	return d.capturer.Dir()
}

// FindElement returns the located element wrapped so that its actions are
// captured too. Lookup itself takes no screenshot.
func (d *Driver) FindElement(ctx context.Context, by, value string) (definitions.Element, error) {
	el, err := d.Driver.FindElement(ctx, by, value)
	if err != nil {
		return nil, err
	}
	return d.wrap(el), nil
}

func (d *Driver) FindElements(ctx context.Context, by, value string) ([]definitions.Element, error) {
	els, err := d.Driver.FindElements(ctx, by, value)
	if err != nil {
		return nil, err
	}
	wrapped := make([]definitions.Element, len(els))
	for i, el := range els {
		wrapped[i] = d.wrap(el)
	}
	return wrapped, nil
}

func (d *Driver) ActiveElement(ctx context.Context) (definitions.Element, error) {
	el, err := d.Driver.ActiveElement(ctx)
	if err != nil {
		return nil, err
	}
	return d.wrap(el), nil
}

func (d *Driver) wrap(el definitions.Element) *Element {
	return &Element{Element: el, driver: d.Driver, capturer: d.capturer}
}

// ExecuteScript covers every "mobile:" gesture (scroll, drag, fling...).
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return capture.Call(ctx, d.capturer, constants.OpExecuteScript, func() (any, error) {
		return d.Driver.ExecuteScript(ctx, script, args...)
	})
}

func (d *Driver) Tap(ctx context.Context, positions []definitions.Point, duration time.Duration) error {
	return d.capturer.Around(ctx, constants.OpTap, func() error {
		return d.Driver.Tap(ctx, positions, duration)
	})
}

func (d *Driver) Swipe(ctx context.Context, startX, startY, endX, endY int, duration time.Duration) error {
	return d.capturer.Around(ctx, constants.OpSwipe, func() error {
		return d.Driver.Swipe(ctx, startX, startY, endX, endY, duration)
	})
}

func (d *Driver) ActivateApp(ctx context.Context, appID string) error {
	return d.capturer.Around(ctx, constants.OpActivateApp, func() error {
		return d.Driver.ActivateApp(ctx, appID)
	})
}

func (d *Driver) TerminateApp(ctx context.Context, appID string) (bool, error) {
	return capture.Call(ctx, d.capturer, constants.OpTerminateApp, func() (bool, error) {
		return d.Driver.TerminateApp(ctx, appID)
	})
}

// Quit captures the last screen and ends the session. There is nothing left
// to capture afterwards.
func (d *Driver) Quit(ctx context.Context) error {
	return d.capturer.Before(ctx, constants.OpQuit, func() error {
		return d.Driver.Quit(ctx)
	})
}
