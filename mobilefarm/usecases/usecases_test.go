package usecases

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/internal/fakedriver"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/mobilefarm/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instrumented(t *testing.T) (*proxy.Driver, *fakedriver.Driver) {
	t.Helper()
	raw := fakedriver.New()
	return proxy.NewDriver(raw, t.TempDir(),
		capture.WithLogger(zerolog.Nop()),
		capture.WithWaiterConfig(capture.WaiterConfig{Disabled: true}),
	), raw
}

func screenshots(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestOpenApplication(t *testing.T) {
	d, raw := instrumented(t)
	require.NoError(t, OpenApplication(context.Background(), definitions.DeviceConfig{AppPackage: "com.google.android.deskclock"}, d))
	assert.Equal(t, 1, raw.Count("ActivateApp"))
	assert.Equal(t, 2, screenshots(t, d.ScreenshotPath()))
}

func TestScrollableText(t *testing.T) {
	assert.Equal(t,
		`new UiScrollable(new UiSelector().scrollable(true)).scrollIntoView(new UiSelector().text("About phone"))`,
		ScrollableText("About phone"))
}

func TestReadBuildNumber(t *testing.T) {
	d, raw := instrumented(t)
	raw.Element(buildNumberXPath).TextValue = "UP1A.231005.007"

	build, err := ReadBuildNumber(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "UP1A.231005.007", build)

	assert.Equal(t, 1, raw.Element(ScrollableText("About phone")).Count("Click"))
	assert.Equal(t, 3, raw.Count("FindElement"))
	// one click, bracketed; lookups and text reads are not captured
	assert.Equal(t, 2, screenshots(t, d.ScreenshotPath()))
}

func TestReadBuildNumberEmpty(t *testing.T) {
	d, raw := instrumented(t)
	raw.Element(buildNumberXPath).TextValue = ""

	_, err := ReadBuildNumber(context.Background(), d)
	assert.ErrorContains(t, err, "empty")
}

func TestReadBuildNumberClickFails(t *testing.T) {
	d, raw := instrumented(t)
	boom := errors.New("stale element reference")
	raw.Element(ScrollableText("About phone")).Fail("Click", boom)

	_, err := ReadBuildNumber(context.Background(), d)
	assert.Same(t, boom, err)
	assert.Equal(t, 1, screenshots(t, d.ScreenshotPath()), "before_click only")
}

func TestSetAlarm(t *testing.T) {
	d, raw := instrumented(t)
	at := time.Date(2026, 10, 17, 15, 7, 0, 0, time.UTC)

	require.NoError(t, SetAlarm(context.Background(), d, at))

	for _, id := range []string{alarmFab, pmButton, "Hour 4 o'clock", minuteDialItem, timePickerOK} {
		assert.Equal(t, 1, raw.Element(id).Count("Click"), id)
	}
	assert.Zero(t, raw.Element(amButton).Count("Click"))

	active := raw.Element("active")
	assert.Equal(t, 2, active.Count("Clear"))
	assert.Equal(t, 2, active.Count("SendKeys"))
	// five clicks, two clears, two send_keys
	assert.Equal(t, 18, raw.Count("SaveScreenshot"))
}

type flakyDriver struct {
	*fakedriver.Driver
	missesLeft int
}

func (f *flakyDriver) FindElement(ctx context.Context, by, value string) (definitions.Element, error) {
	if f.missesLeft > 0 {
		f.missesLeft--
		return nil, fakedriver.ErrNoSuchElement
	}
	return f.Driver.FindElement(ctx, by, value)
}

func TestWaitForElement(t *testing.T) {
	d := &flakyDriver{Driver: fakedriver.New(), missesLeft: 2}
	el, err := WaitForElement(context.Background(), d, constants.ByAccessibilityID, stopAlarm, time.Second, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "el-Stop", el.ID())
}

func TestWaitForElementTimeout(t *testing.T) {
	d := &flakyDriver{Driver: fakedriver.New(), missesLeft: 1 << 30}
	_, err := WaitForElement(context.Background(), d, constants.ByAccessibilityID, stopAlarm, 20*time.Millisecond, 5*time.Millisecond)
	assert.ErrorIs(t, err, fakedriver.ErrNoSuchElement)
}

func TestDismissAlarm(t *testing.T) {
	d, raw := instrumented(t)
	require.NoError(t, DismissAlarm(context.Background(), d, time.Second))
	assert.Equal(t, 1, raw.Count("OpenNotifications"))
	assert.Equal(t, 1, raw.Element(stopAlarm).Count("Click"))
}

func TestDismissAlarmWaitsForRinging(t *testing.T) {
	poll := dismissPoll
	dismissPoll = 5 * time.Millisecond
	t.Cleanup(func() { dismissPoll = poll })

	raw := fakedriver.New()
	d := &flakyDriver{Driver: raw, missesLeft: 3}

	require.NoError(t, DismissAlarm(context.Background(), d, 2*time.Second))
	assert.Equal(t, 1, raw.Count("OpenNotifications"))
	assert.Equal(t, 1, raw.Element(stopAlarm).Count("Click"))
	assert.Zero(t, d.missesLeft)
}
