package listener

import (
	"context"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// EventFiringDriver forwards every call to the raw driver and notifies its
// listener around navigation, script execution, close and quit. Failures
// are reported through OnException and returned unchanged.
type EventFiringDriver struct {
	definitions.Driver

	listener EventListener
}

var _ definitions.Driver = (*EventFiringDriver)(nil)

func NewEventFiringDriver(raw definitions.Driver, l EventListener) *EventFiringDriver {
	return &EventFiringDriver{Driver: raw, listener: l}
}

func (d *EventFiringDriver) Raw() definitions.Driver {
	return d.Driver
}

func (d *EventFiringDriver) fail(ctx context.Context, err error) error {
	if err != nil {
		d.listener.OnException(ctx, err, d.Driver)
	}
	return err
}

func (d *EventFiringDriver) wrap(el definitions.Element) *EventFiringElement {
	return &EventFiringElement{Element: el, driver: d}
}

func (d *EventFiringDriver) FindElement(ctx context.Context, by, value string) (definitions.Element, error) {
	el, err := d.Driver.FindElement(ctx, by, value)
	if err != nil {
		return nil, d.fail(ctx, err)
	}
	return d.wrap(el), nil
}

func (d *EventFiringDriver) FindElements(ctx context.Context, by, value string) ([]definitions.Element, error) {
	els, err := d.Driver.FindElements(ctx, by, value)
	if err != nil {
		return nil, d.fail(ctx, err)
	}
	wrapped := make([]definitions.Element, len(els))
	for i, el := range els {
		wrapped[i] = d.wrap(el)
	}
	return wrapped, nil
}

func (d *EventFiringDriver) ActiveElement(ctx context.Context) (definitions.Element, error) {
	el, err := d.Driver.ActiveElement(ctx)
	if err != nil {
		return nil, d.fail(ctx, err)
	}
	return d.wrap(el), nil
}

func (d *EventFiringDriver) Get(ctx context.Context, url string) error {
	d.listener.BeforeNavigateTo(ctx, url, d.Driver)
	if err := d.Driver.Get(ctx, url); err != nil {
		return d.fail(ctx, err)
	}
	d.listener.AfterNavigateTo(ctx, url, d.Driver)
	return nil
}

func (d *EventFiringDriver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	d.listener.BeforeExecuteScript(ctx, script, d.Driver)
	res, err := d.Driver.ExecuteScript(ctx, script, args...)
	if err != nil {
		return res, d.fail(ctx, err)
	}
	d.listener.AfterExecuteScript(ctx, script, d.Driver)
	return res, nil
}

func (d *EventFiringDriver) Close(ctx context.Context) error {
	d.listener.BeforeClose(ctx, d.Driver)
	if err := d.Driver.Close(ctx); err != nil {
		return d.fail(ctx, err)
	}
	d.listener.AfterClose(ctx, d.Driver)
	return nil
}

func (d *EventFiringDriver) Quit(ctx context.Context) error {
	d.listener.BeforeQuit(ctx, d.Driver)
	return d.fail(ctx, d.Driver.Quit(ctx))
}

// EventFiringElement notifies the driver's listener around click and value
// changes.
type EventFiringElement struct {
	definitions.Element

	driver *EventFiringDriver
}

var _ definitions.Element = (*EventFiringElement)(nil)

func (e *EventFiringElement) Raw() definitions.Element {
	return e.Element
}

func (e *EventFiringElement) Click(ctx context.Context) error {
	l, raw := e.driver.listener, e.driver.Driver
	l.BeforeClick(ctx, e.Element, raw)
	if err := e.Element.Click(ctx); err != nil {
		return e.driver.fail(ctx, err)
	}
	l.AfterClick(ctx, e.Element, raw)
	return nil
}

func (e *EventFiringElement) SendKeys(ctx context.Context, text string) error {
	return e.changeValue(ctx, constants.OpSendKeys, func() error {
		return e.Element.SendKeys(ctx, text)
	})
}

func (e *EventFiringElement) Clear(ctx context.Context) error {
	return e.changeValue(ctx, constants.OpClear, func() error {
		return e.Element.Clear(ctx)
	})
}

func (e *EventFiringElement) changeValue(ctx context.Context, op string, fn func() error) error {
	l, raw := e.driver.listener, e.driver.Driver
	l.BeforeChangeValueOf(ctx, op, e.Element, raw)
	if err := fn(); err != nil {
		return e.driver.fail(ctx, err)
	}
	l.AfterChangeValueOf(ctx, op, e.Element, raw)
	return nil
}
