// Package fakedriver provides in-memory definitions.Driver and
// definitions.Element implementations that record every call.
package fakedriver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// PNG is what SaveScreenshot writes.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

var ErrNoSuchElement = errors.New("no such element")

type recorder struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error
}

func (r *recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.errs[call]
}

// Fail makes every later call named call return err.
func (r *recorder) Fail(call string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errs == nil {
		r.errs = map[string]error{}
	}
	r.errs[call] = err
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how often call was made.
func (r *recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

type Driver struct {
	recorder

	Package         string
	Activity        string
	Source          string
	ScriptResult    any
	TerminateResult bool
	Size            definitions.Size

	elemMu   sync.Mutex
	elements map[string]*Element
}

var _ definitions.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{
		Package:         "com.android.settings",
		Activity:        ".Settings",
		Source:          "<hierarchy/>",
		TerminateResult: true,
		Size:            definitions.Size{Width: 1080, Height: 2400},
		elements:        map[string]*Element{},
	}
}

// Element returns the element served for locator value, creating it on first use.
func (d *Driver) Element(value string) *Element {
	d.elemMu.Lock()
	defer d.elemMu.Unlock()
	el, ok := d.elements[value]
	if !ok {
		el = &Element{id: "el-" + value, TextValue: value, Attributes: map[string]string{"resource-id": value}}
		d.elements[value] = el
	}
	return el
}

func (d *Driver) SessionID() string { return "fake-session" }

func (d *Driver) FindElement(_ context.Context, by, value string) (definitions.Element, error) {
	if err := d.record("FindElement"); err != nil {
		return nil, err
	}
	if value == "missing" {
		return nil, fmt.Errorf("%w: %s=%s", ErrNoSuchElement, by, value)
	}
	return d.Element(value), nil
}

func (d *Driver) FindElements(_ context.Context, _, value string) ([]definitions.Element, error) {
	if err := d.record("FindElements"); err != nil {
		return nil, err
	}
	return []definitions.Element{d.Element(value + "#0"), d.Element(value + "#1")}, nil
}

func (d *Driver) ActiveElement(context.Context) (definitions.Element, error) {
	if err := d.record("ActiveElement"); err != nil {
		return nil, err
	}
	return d.Element("active"), nil
}

// ExecuteScript is recorded as "ExecuteScript:<script>".
func (d *Driver) ExecuteScript(_ context.Context, script string, _ ...any) (any, error) {
	if err := d.record("ExecuteScript:" + script); err != nil {
		return nil, err
	}
	return d.ScriptResult, nil
}

func (d *Driver) Tap(context.Context, []definitions.Point, time.Duration) error {
	return d.record("Tap")
}

func (d *Driver) Swipe(context.Context, int, int, int, int, time.Duration) error {
	return d.record("Swipe")
}

func (d *Driver) ActivateApp(context.Context, string) error {
	return d.record("ActivateApp")
}

func (d *Driver) TerminateApp(context.Context, string) (bool, error) {
	if err := d.record("TerminateApp"); err != nil {
		return false, err
	}
	return d.TerminateResult, nil
}

func (d *Driver) Back(context.Context) error { return d.record("Back") }

func (d *Driver) OpenNotifications(context.Context) error { return d.record("OpenNotifications") }

func (d *Driver) Get(context.Context, string) error { return d.record("Get") }

func (d *Driver) CurrentPackage(context.Context) (string, error) {
	return d.Package, d.record("CurrentPackage")
}

func (d *Driver) CurrentActivity(context.Context) (string, error) {
	return d.Activity, d.record("CurrentActivity")
}

func (d *Driver) PageSource(context.Context) (string, error) {
	return d.Source, d.record("PageSource")
}

func (d *Driver) WindowSize(context.Context) (definitions.Size, error) {
	return d.Size, d.record("WindowSize")
}

func (d *Driver) Screenshot(context.Context) ([]byte, error) {
	if err := d.record("Screenshot"); err != nil {
		return nil, err
	}
	return PNG, nil
}

func (d *Driver) SaveScreenshot(_ context.Context, path string) error {
	if err := d.record("SaveScreenshot"); err != nil {
		return err
	}
	return os.WriteFile(path, PNG, 0o644)
}

func (d *Driver) ImplicitlyWait(context.Context, time.Duration) error {
	return d.record("ImplicitlyWait")
}

func (d *Driver) Close(context.Context) error { return d.record("Close") }

func (d *Driver) Quit(context.Context) error { return d.record("Quit") }

type Element struct {
	recorder

	id         string
	TextValue  string
	Attributes map[string]string
	Bounds     definitions.Rect
}

var _ definitions.Element = (*Element)(nil)

func (e *Element) ID() string { return e.id }

func (e *Element) Click(context.Context) error { return e.record("Click") }

func (e *Element) SendKeys(context.Context, string) error { return e.record("SendKeys") }

func (e *Element) Clear(context.Context) error { return e.record("Clear") }

func (e *Element) Text(context.Context) (string, error) {
	return e.TextValue, e.record("Text")
}

func (e *Element) Attribute(_ context.Context, name string) (string, error) {
	return e.Attributes[name], e.record("Attribute")
}

func (e *Element) Rect(context.Context) (definitions.Rect, error) {
	return e.Bounds, e.record("Rect")
}

func (e *Element) IsDisplayed(context.Context) (bool, error) { return true, e.record("IsDisplayed") }

func (e *Element) IsEnabled(context.Context) (bool, error) { return true, e.record("IsEnabled") }

func (e *Element) SaveScreenshot(_ context.Context, path string) error {
	if err := e.record("SaveScreenshot"); err != nil {
		return err
	}
	return os.WriteFile(path, PNG, 0o644)
}
