package proxy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/internal/fakedriver"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDriver(t *testing.T) (*Driver, *fakedriver.Driver, *bytes.Buffer) {
	t.Helper()
	raw := fakedriver.New()
	var logs bytes.Buffer
	d := NewDriver(raw, t.TempDir(),
		capture.WithLogger(zerolog.New(&logs)),
		capture.WithWaiterConfig(capture.WaiterConfig{
			Timeout:         50 * time.Millisecond,
			PollInterval:    5 * time.Millisecond,
			IdleSyncTimeout: 50 * time.Millisecond,
		}),
	)
	return d, raw, &logs
}

// labels returns the capture labels found in dir, sorted.
func labels(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		// <YYYYMMDD>_<HHMMSS>_<ffffff>_<label>.png
		parts := strings.SplitN(strings.TrimSuffix(e.Name(), ".png"), "_", 4)
		require.Len(t, parts, 4, e.Name())
		out = append(out, parts[3])
	}
	sort.Strings(out)
	return out
}

func TestFindElementThenClick(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()

	el, err := d.FindElement(ctx, constants.ByID, "login_button")
	require.NoError(t, err)
	assert.Empty(t, labels(t, d.ScreenshotPath()), "lookup takes no screenshot")

	wrapped, ok := el.(*Element)
	require.True(t, ok, "elements from an instrumented driver are instrumented")

	require.NoError(t, el.Click(ctx))
	assert.Equal(t, []string{"after_click", "before_click"}, labels(t, d.ScreenshotPath()))
	assert.Equal(t, 1, raw.Element("login_button").Count("Click"))

	attr, err := el.Attribute(ctx, "resource-id")
	require.NoError(t, err)
	assert.Equal(t, "login_button", attr)
	assert.Same(t, raw.Element("login_button"), wrapped.Raw())
	assert.Same(t, raw, wrapped.Driver())
	assert.Len(t, labels(t, d.ScreenshotPath()), 2, "attribute reads are not captured")
}

func TestElementActionsCaptureBeforeAndAfter(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()
	el, err := d.FindElement(ctx, constants.ByID, "hour")
	require.NoError(t, err)

	require.NoError(t, el.Clear(ctx))
	require.NoError(t, el.SendKeys(ctx, "07"))

	assert.Equal(t,
		[]string{"after_clear", "after_send_keys", "before_clear", "before_send_keys"},
		labels(t, d.ScreenshotPath()))
	assert.Equal(t, 1, raw.Element("hour").Count("SendKeys"))
	assert.Equal(t, 1, raw.Element("hour").Count("Clear"))
}

func TestFailedActionCapturesOnlyBefore(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()
	boom := errors.New("stale element reference")
	raw.Element("gone").Fail("Click", boom)

	el, err := d.FindElement(ctx, constants.ByID, "gone")
	require.NoError(t, err)

	err = el.Click(ctx)
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"before_click"}, labels(t, d.ScreenshotPath()))
}

func TestDriverActionsCaptureBeforeAndAfter(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()
	raw.ScriptResult = map[string]any{"scrolled": true}

	res, err := d.ExecuteScript(ctx, "mobile: scrollGesture", map[string]any{"direction": "down"})
	require.NoError(t, err)
	assert.Equal(t, raw.ScriptResult, res)

	require.NoError(t, d.Tap(ctx, []definitions.Point{{X: 1, Y: 2}}, 0))
	require.NoError(t, d.Swipe(ctx, 1, 2, 3, 4, time.Second))
	require.NoError(t, d.ActivateApp(ctx, "com.android.settings"))

	ok, err := d.TerminateApp(ctx, "com.android.settings")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{
		"after_activate_app", "after_execute_script", "after_swipe", "after_tap", "after_terminate_app",
		"before_activate_app", "before_execute_script", "before_swipe", "before_tap", "before_terminate_app",
	}, labels(t, d.ScreenshotPath()))

	assert.Equal(t, 1, raw.Count("ExecuteScript:mobile: scrollGesture"))
	assert.Equal(t, 1, raw.Count("Tap"))
	assert.Equal(t, 1, raw.Count("Swipe"))
	assert.Equal(t, 1, raw.Count("ActivateApp"))
	assert.Equal(t, 1, raw.Count("TerminateApp"))
}

func TestDriverErrorsPassThroughUnchanged(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()
	boom := errors.New("app not installed")
	raw.Fail("ActivateApp", boom)
	raw.Fail("TerminateApp", boom)

	assert.Same(t, boom, d.ActivateApp(ctx, "com.example"))
	ok, err := d.TerminateApp(ctx, "com.example")
	assert.Same(t, boom, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"before_activate_app", "before_terminate_app"}, labels(t, d.ScreenshotPath()))

	_, err = d.FindElement(ctx, constants.ByID, "missing")
	assert.ErrorIs(t, err, fakedriver.ErrNoSuchElement)
}

func TestQuitCapturesOnlyBefore(t *testing.T) {
	d, raw, _ := newTestDriver(t)

	require.NoError(t, d.Quit(context.Background()))
	assert.Equal(t, []string{"before_quit"}, labels(t, d.ScreenshotPath()))
	assert.Equal(t, 1, raw.Count("Quit"))
}

func TestScreenshotFailureDoesNotChangeOutcome(t *testing.T) {
	d, raw, logs := newTestDriver(t)
	ctx := context.Background()
	raw.Fail("SaveScreenshot", errors.New("no space left on device"))

	el, err := d.FindElement(ctx, constants.ByID, "ok_button")
	require.NoError(t, err)
	require.NoError(t, el.Click(ctx))

	assert.Equal(t, 1, raw.Element("ok_button").Count("Click"))
	assert.Empty(t, labels(t, d.ScreenshotPath()))
	assert.Equal(t, 2, strings.Count(logs.String(), `"level":"warn"`), "one warning per failed capture")
}

func TestReadOnlyQueriesAreNotCaptured(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	ctx := context.Background()

	pkg, err := d.CurrentPackage(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw.Package, pkg)

	src, err := d.PageSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw.Source, src)

	_, err = d.WindowSize(ctx)
	require.NoError(t, err)
	require.NoError(t, d.Back(ctx))
	require.NoError(t, d.OpenNotifications(ctx))
	assert.Equal(t, "fake-session", d.SessionID())

	el, err := d.FindElement(ctx, constants.ByXPath, "//*[@text='Apps']")
	require.NoError(t, err)
	_, err = el.Text(ctx)
	require.NoError(t, err)
	_, err = el.Rect(ctx)
	require.NoError(t, err)
	_, err = el.IsDisplayed(ctx)
	require.NoError(t, err)

	assert.Empty(t, labels(t, d.ScreenshotPath()))
	assert.Zero(t, raw.Count("SaveScreenshot"))
	assert.Zero(t, raw.Count("ExecuteScript:"+constants.IdleSyncScript), "no stabilization without a capture")
}

func TestFindElementsAndActiveElementAreWrapped(t *testing.T) {
	d, _, _ := newTestDriver(t)
	ctx := context.Background()

	els, err := d.FindElements(ctx, constants.ByClassName, "android.widget.Switch")
	require.NoError(t, err)
	require.Len(t, els, 2)
	for _, el := range els {
		assert.IsType(t, &Element{}, el)
	}

	active, err := d.ActiveElement(ctx)
	require.NoError(t, err)
	require.NoError(t, active.SendKeys(ctx, "42"))
	assert.Equal(t, []string{"after_send_keys", "before_send_keys"}, labels(t, d.ScreenshotPath()))
}

func TestRawReturnsWrappedDriver(t *testing.T) {
	d, raw, _ := newTestDriver(t)
	assert.Same(t, raw, d.Raw())
}
