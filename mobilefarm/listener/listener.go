// Package listener expresses the capture contract as lifecycle events for
// callers that prefer subscribing to a driver over wrapping it.
package listener

import (
	"context"

	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// EventListener receives driver lifecycle events. op names the element
// operation for value-change events ("send_keys" or "clear").
type EventListener interface {
	OnException(ctx context.Context, err error, driver definitions.Driver)

	BeforeNavigateTo(ctx context.Context, url string, driver definitions.Driver)
	AfterNavigateTo(ctx context.Context, url string, driver definitions.Driver)

	BeforeClick(ctx context.Context, el definitions.Element, driver definitions.Driver)
	AfterClick(ctx context.Context, el definitions.Element, driver definitions.Driver)

	BeforeChangeValueOf(ctx context.Context, op string, el definitions.Element, driver definitions.Driver)
	AfterChangeValueOf(ctx context.Context, op string, el definitions.Element, driver definitions.Driver)

	BeforeExecuteScript(ctx context.Context, script string, driver definitions.Driver)
	AfterExecuteScript(ctx context.Context, script string, driver definitions.Driver)

	BeforeClose(ctx context.Context, driver definitions.Driver)
	AfterClose(ctx context.Context, driver definitions.Driver)

	BeforeQuit(ctx context.Context, driver definitions.Driver)
}

// BaseListener implements every event as a no-op. Embed it to handle a subset.
type BaseListener struct{}

var _ EventListener = BaseListener{}

func (BaseListener) OnException(context.Context, error, definitions.Driver) {}

func (BaseListener) BeforeNavigateTo(context.Context, string, definitions.Driver) {}

func (BaseListener) AfterNavigateTo(context.Context, string, definitions.Driver) {}

func (BaseListener) BeforeClick(context.Context, definitions.Element, definitions.Driver) {}

func (BaseListener) AfterClick(context.Context, definitions.Element, definitions.Driver) {}

func (BaseListener) BeforeChangeValueOf(context.Context, string, definitions.Element, definitions.Driver) {}

func (BaseListener) AfterChangeValueOf(context.Context, string, definitions.Element, definitions.Driver) {}

func (BaseListener) BeforeExecuteScript(context.Context, string, definitions.Driver) {}

func (BaseListener) AfterExecuteScript(context.Context, string, definitions.Driver) {}

func (BaseListener) BeforeClose(context.Context, definitions.Driver) {}

func (BaseListener) AfterClose(context.Context, definitions.Driver) {}

func (BaseListener) BeforeQuit(context.Context, definitions.Driver) {}
