// Package usecases holds reusable device flows written against the
// instrumented driver.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

const buildNumberXPath = `//android.widget.TextView[@resource-id="android:id/title" and @text="Build number"]` +
	`/following-sibling::android.widget.TextView[@resource-id="android:id/summary"]`

// OpenApplication brings the device's app under test to the foreground.
func OpenApplication(ctx context.Context, device definitions.DeviceConfig, driver definitions.Driver) error {
	return driver.ActivateApp(ctx, lo.CoalesceOrEmpty(device.AppPackage, constants.DefaultAppPackage))
}

// ScrollableText is a UiAutomator locator that scrolls the first scrollable
// container until an element with the given text is visible.
func ScrollableText(text string) string {
	return fmt.Sprintf(`new UiScrollable(new UiSelector().scrollable(true)).scrollIntoView(new UiSelector().text(%q))`, text)
}

func ScrollIntoView(ctx context.Context, driver definitions.Driver, text string) (definitions.Element, error) {
	return driver.FindElement(ctx, constants.ByAndroidUIAutomator, ScrollableText(text))
}

// ReadBuildNumber opens Settings > About phone and returns the build number.
func ReadBuildNumber(ctx context.Context, driver definitions.Driver) (string, error) {
	about, err := ScrollIntoView(ctx, driver, "About phone")
	if err != nil {
		return "", err
	}
	if err := about.Click(ctx); err != nil {
		return "", err
	}

	if _, err := ScrollIntoView(ctx, driver, "Build number"); err != nil {
		return "", err
	}
	value, err := driver.FindElement(ctx, constants.ByXPath, buildNumberXPath)
	if err != nil {
		return "", err
	}
	build, err := value.Text(ctx)
	if err != nil {
		return "", err
	}
	if build == "" {
		return "", errors.New("build number is empty")
	}

	log.Info().Str("build", build).Msg("Build number")
	return build, nil
}

// WaitForElement polls for an element until it is found or timeout passes.
// The implicit wait of the session applies to every attempt.
func WaitForElement(ctx context.Context, driver definitions.Driver, by, value string, timeout, poll time.Duration) (definitions.Element, error) {
	var (
		found   definitions.Element
		lastErr error
	)
	locate := func(ctx context.Context, _ int) bool {
		found, lastErr = driver.FindElement(ctx, by, value)
		return lastErr == nil
	}
	if locate(ctx, 0) {
		return found, nil
	}

	if _, elapsed, ok := lo.WaitForWithContext(ctx, locate, timeout, poll); !ok {
		return nil, fmt.Errorf("element %s=%q not found after %s: %w", by, value, elapsed.Round(time.Millisecond), lastErr)
	}
	return found, nil
}
