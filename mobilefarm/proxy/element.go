package proxy

import (
	"context"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// Element is an instrumented element. driver is the raw driver the element
// came from; it is used for stabilization and the full-screen screenshot.
type Element struct {
	definitions.Element

	driver   definitions.Driver
	capturer *capture.Capturer
}

var _ definitions.Element = (*Element)(nil)

// Raw returns the wrapped element.
func (e *Element) Raw() definitions.Element {
	return e.Element
}

func (e *Element) Click(ctx context.Context) error {
	return e.capturer.Around(ctx, constants.OpClick, func() error {
		return e.Element.Click(ctx)
	})
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	return e.capturer.Around(ctx, constants.OpSendKeys, func() error {
		return e.Element.SendKeys(ctx, text)
	})
}

func (e *Element) Clear(ctx context.Context) error {
	return e.capturer.Around(ctx, constants.OpClear, func() error {
		return e.Element.Clear(ctx)
	})
}

// Driver returns the raw driver the element was found with.
func (e *Element) Driver() definitions.Driver {
	return e.driver
}
