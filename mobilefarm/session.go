package mobilefarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/mobilefarm/helper"
	"github.com/spance/mobilefarm-go/mobilefarm/listener"
	"github.com/spance/mobilefarm-go/mobilefarm/proxy"
)

type SessionOption func(*SessionFactory)

// WithOutputDir sets the artifact root. Empty means <cwd>/results.
func WithOutputDir(dir string) SessionOption {
	return func(f *SessionFactory) { f.outputDir = dir }
}

func WithTestName(name string) SessionOption {
	return func(f *SessionFactory) { f.testName = name }
}

func WithImplicitWait(d time.Duration) SessionOption {
	return func(f *SessionFactory) { f.implicitWait = d }
}

func WithIntegration(i Integration) SessionOption {
	return func(f *SessionFactory) { f.integration = i }
}

// WithVerbosity sets the listener tier. Only IntegrationEvents reads it.
func WithVerbosity(tier definitions.VerbosityTier) SessionOption {
	return func(f *SessionFactory) { f.verbosity = tier }
}

// WithServerURL points the dialer at another server. Sessions normally use
// constants.AppiumServerURL; this exists for tests.
func WithServerURL(url string) SessionOption {
	return func(f *SessionFactory) { f.serverURL = url }
}

func WithDialer(dial Dialer) SessionOption {
	return func(f *SessionFactory) { f.dial = dial }
}

func WithCaptureOptions(opts ...capture.Option) SessionOption {
	return func(f *SessionFactory) { f.captureOpts = append(f.captureOpts, opts...) }
}

// SessionFactory turns a device description into instrumented drivers that
// all write into the same ScreenshotPath.
type SessionFactory struct {
	device         definitions.DeviceConfig
	caps           definitions.Capabilities
	outputDir      string
	testName       string
	screenshotPath string
	implicitWait   time.Duration
	integration    Integration
	verbosity      definitions.VerbosityTier
	serverURL      string
	dial           Dialer
	captureOpts    []capture.Option
}

// NewSessionFactory resolves and creates the ScreenshotPath for the
// configured test name. It fails when the test name is empty.
func NewSessionFactory(device definitions.DeviceConfig, opts ...SessionOption) (*SessionFactory, error) {
	f := &SessionFactory{
		device:       device,
		implicitWait: constants.DefaultImplicitWait,
		integration:  IntegrationProxy,
		verbosity:    definitions.Standard,
		serverURL:    constants.AppiumServerURL,
		dial:         dialAppium,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.integration != IntegrationProxy && f.integration != IntegrationEvents {
		return nil, fmt.Errorf("session: unknown integration %q", f.integration)
	}

	path, err := capture.NewScreenshotPath(f.outputDir, f.testName)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	f.screenshotPath = path
	f.caps = helper.GetCapabilities(device)
	return f, nil
}

func (f *SessionFactory) ScreenshotPath() string {
	return f.screenshotPath
}

func (f *SessionFactory) Capabilities() definitions.Capabilities {
	return f.caps
}

func (f *SessionFactory) Device() definitions.DeviceConfig {
	return f.device
}

// WebDriver opens a session and returns it instrumented. The caller owns the
// driver and must Quit it.
func (f *SessionFactory) WebDriver(ctx context.Context) (Driver, error) {
	raw, err := f.dial(ctx, f.serverURL, f.caps)
	if err != nil {
		return nil, fmt.Errorf("open session on %s: %w", f.serverURL, err)
	}

	if err := raw.ImplicitlyWait(ctx, f.implicitWait); err != nil {
		return nil, errors.Join(fmt.Errorf("set implicit wait: %w", err), raw.Quit(ctx))
	}

	log.Info().
		Str("session", raw.SessionID()).
		Str("device", f.device.Name).
		Str("integration", string(f.integration)).
		Str("screenshots", f.screenshotPath).
		Msg("session ready")

	if f.integration == IntegrationEvents {
		return listener.NewScreenshotDriver(raw, f.screenshotPath, f.verbosity, f.captureOpts...), nil
	}
	return proxy.NewDriver(raw, f.screenshotPath, f.captureOpts...), nil
}
