package mobilefarm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/internal/fakedriver"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/mobilefarm/listener"
	"github.com/spance/mobilefarm-go/mobilefarm/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDialer(raw *fakedriver.Driver, gotURL *string, gotCaps *definitions.Capabilities) Dialer {
	return func(_ context.Context, serverURL string, caps definitions.Capabilities) (definitions.Driver, error) {
		if gotURL != nil {
			*gotURL = serverURL
		}
		if gotCaps != nil {
			*gotCaps = caps
		}
		return raw, nil
	}
}

func quiet() SessionOption {
	return WithCaptureOptions(
		capture.WithLogger(zerolog.Nop()),
		capture.WithWaiterConfig(capture.WaiterConfig{Disabled: true}),
	)
}

func TestNewSessionFactoryCreatesScreenshotPath(t *testing.T) {
	out := t.TempDir()
	f, err := NewSessionFactory(definitions.DeviceConfig{Name: "pixel8_pro"},
		WithOutputDir(out), WithTestName("test_build_number"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "test_build_number"), f.ScreenshotPath())
	info, err := os.Stat(f.ScreenshotPath())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "com.android.settings", f.Capabilities()["appPackage"])
}

func TestNewSessionFactoryErrors(t *testing.T) {
	_, err := NewSessionFactory(definitions.DeviceConfig{}, WithOutputDir(t.TempDir()))
	assert.ErrorContains(t, err, "empty test name")

	_, err = NewSessionFactory(definitions.DeviceConfig{},
		WithOutputDir(t.TempDir()), WithTestName("t"), WithIntegration("telepathy"))
	assert.ErrorContains(t, err, "unknown integration")
}

func TestWebDriverProxy(t *testing.T) {
	raw := fakedriver.New()
	var url string
	var caps definitions.Capabilities
	f, err := NewSessionFactory(definitions.DeviceConfig{AppPackage: "com.google.android.deskclock"},
		WithOutputDir(t.TempDir()), WithTestName("t"),
		WithDialer(fakeDialer(raw, &url, &caps)), quiet())
	require.NoError(t, err)

	d, err := f.WebDriver(context.Background())
	require.NoError(t, err)

	pd, ok := d.(*proxy.Driver)
	require.True(t, ok)
	assert.Same(t, raw, pd.Raw())
	assert.Equal(t, f.ScreenshotPath(), pd.ScreenshotPath())
	assert.Equal(t, constants.AppiumServerURL, url)
	assert.Equal(t, "com.google.android.deskclock", caps["appPackage"])
	assert.Equal(t, 1, raw.Count("ImplicitlyWait"))
}

func TestWebDriverEvents(t *testing.T) {
	raw := fakedriver.New()
	f, err := NewSessionFactory(definitions.DeviceConfig{},
		WithOutputDir(t.TempDir()), WithTestName("t"),
		WithIntegration(IntegrationEvents), WithVerbosity(definitions.Minimal),
		WithServerURL("http://farm:4723"), WithImplicitWait(time.Second),
		WithDialer(fakeDialer(raw, nil, nil)), quiet())
	require.NoError(t, err)

	d, err := f.WebDriver(context.Background())
	require.NoError(t, err)
	ed, ok := d.(*listener.EventFiringDriver)
	require.True(t, ok)
	assert.Same(t, raw, ed.Raw())

	el, err := d.FindElement(context.Background(), constants.ByID, "ok")
	require.NoError(t, err)
	require.NoError(t, el.Click(context.Background()))

	entries, err := os.ReadDir(f.ScreenshotPath())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "minimal tier captures before_click only")
}

func TestWebDriverDialFailure(t *testing.T) {
	boom := errors.New("connection refused")
	f, err := NewSessionFactory(definitions.DeviceConfig{},
		WithOutputDir(t.TempDir()), WithTestName("t"),
		WithDialer(func(context.Context, string, definitions.Capabilities) (definitions.Driver, error) {
			return nil, boom
		}))
	require.NoError(t, err)

	d, err := f.WebDriver(context.Background())
	assert.Nil(t, d)
	assert.ErrorIs(t, err, boom)
}

func TestWebDriverImplicitWaitFailureQuits(t *testing.T) {
	raw := fakedriver.New()
	raw.Fail("ImplicitlyWait", errors.New("invalid timeout"))
	f, err := NewSessionFactory(definitions.DeviceConfig{},
		WithOutputDir(t.TempDir()), WithTestName("t"), WithDialer(fakeDialer(raw, nil, nil)))
	require.NoError(t, err)

	_, err = f.WebDriver(context.Background())
	assert.ErrorContains(t, err, "implicit wait")
	assert.Equal(t, 1, raw.Count("Quit"))
}

func TestParseIntegration(t *testing.T) {
	i, err := ParseIntegration(" Events ")
	require.NoError(t, err)
	assert.Equal(t, IntegrationEvents, i)

	_, err = ParseIntegration("both")
	assert.Error(t, err)
}
