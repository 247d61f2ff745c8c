// Package harness ties instrumented sessions to Go tests: one ScreenshotPath
// per test, and a teardown that closes the app and the session.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// EnvOutputDir overrides the artifact root, like --save-console-logs.
const EnvOutputDir = "MOBILEFARM_SAVE_CONSOLE_LOGS"

// ErrAttachmentSaved is returned by Teardown for a test that saved an
// attachment, whatever its actions did.
var ErrAttachmentSaved = errors.New("this test saved an attachment")

// TestDetails is the per-test context shared between the test body and its
// teardown.
type TestDetails struct {
	TestName string
	Saved    bool

	mu        sync.Mutex
	artifacts []definitions.CapturedArtifact
}

// MarkSaved flags that the test stored an attachment (a new baseline, for
// instance). Teardown will fail.
func (d *TestDetails) MarkSaved() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Saved = true
}

func (d *TestDetails) saved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Saved
}

func (d *TestDetails) record(a definitions.CapturedArtifact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifacts = append(d.artifacts, a)
}

// Artifacts returns the screenshots written so far, oldest first.
func (d *TestDetails) Artifacts() []definitions.CapturedArtifact {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]definitions.CapturedArtifact(nil), d.artifacts...)
}

// SanitizeTestName turns a testing.T name into a directory name.
func SanitizeTestName(name string) string {
	return strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
}

// OutputDir returns the artifact root from the environment, or "" for the
// default.
func OutputDir() string {
	return os.Getenv(EnvOutputDir)
}

// TB is the part of testing.TB that Run needs.
type TB interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

type Fixture struct {
	Details *TestDetails
	Device  definitions.DeviceConfig
	Driver  mobilefarm.Driver

	factory *mobilefarm.SessionFactory
}

// Setup opens an instrumented session for testName. opts are applied after
// the harness defaults, so they can override the output dir.
func Setup(ctx context.Context, device definitions.DeviceConfig, testName string, opts ...mobilefarm.SessionOption) (*Fixture, error) {
	details := &TestDetails{TestName: SanitizeTestName(testName)}

	opts = append([]mobilefarm.SessionOption{
		mobilefarm.WithOutputDir(OutputDir()),
		mobilefarm.WithTestName(details.TestName),
		mobilefarm.WithCaptureOptions(capture.WithObserver(details.record)),
	}, opts...)

	factory, err := mobilefarm.NewSessionFactory(device, opts...)
	if err != nil {
		return nil, err
	}
	driver, err := factory.WebDriver(ctx)
	if err != nil {
		return nil, err
	}
	return &Fixture{Details: details, Device: device, Driver: driver, factory: factory}, nil
}

func (f *Fixture) ScreenshotPath() string {
	return f.factory.ScreenshotPath()
}

// Teardown terminates the app under test, quits the session and then
// reports ErrAttachmentSaved if the test saved an attachment. All failures
// are joined.
func (f *Fixture) Teardown(ctx context.Context) error {
	var errs []error

	pkg := lo.CoalesceOrEmpty(f.Device.AppPackage, constants.DefaultAppPackage)
	if _, err := f.Driver.TerminateApp(ctx, pkg); err != nil {
		errs = append(errs, fmt.Errorf("terminate %s: %w", pkg, err))
	}
	if err := f.Driver.Quit(ctx); err != nil {
		errs = append(errs, fmt.Errorf("quit: %w", err))
	}

	log.Info().
		Str("test", f.Details.TestName).
		Int("screenshots", len(f.Details.Artifacts())).
		Str("path", f.ScreenshotPath()).
		Msg("session closed")

	if f.Details.saved() {
		log.Error().Str("test", f.Details.TestName).Msg(ErrAttachmentSaved.Error())
		errs = append(errs, ErrAttachmentSaved)
	}
	return errors.Join(errs...)
}

// Run executes body against a fresh fixture named after tb and fails tb if
// setup or teardown fail.
func Run(tb TB, device definitions.DeviceConfig, body func(ctx context.Context, f *Fixture), opts ...mobilefarm.SessionOption) {
	tb.Helper()
	ctx := context.Background()

	f, err := Setup(ctx, device, tb.Name(), opts...)
	if err != nil {
		tb.Fatalf("setup: %v", err)
		return
	}
	defer func() {
		if err := f.Teardown(ctx); err != nil {
			tb.Errorf("teardown: %v", err)
		}
	}()

	body(ctx, f)
}
