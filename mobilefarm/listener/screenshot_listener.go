package listener

import (
	"context"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/capture"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// ScreenshotListener captures screenshots on driver events. Which events
// capture depends on the tier it was built with:
//
//	minimal:  OnException, BeforeClick
//	standard: minimal + AfterChangeValueOf
//	verbose:  every event
//
// Labels match the ones proxy.Driver writes for the same operations.
type ScreenshotListener struct {
	BaseListener

	capturer *capture.Capturer
	tier     definitions.VerbosityTier
}

var _ EventListener = (*ScreenshotListener)(nil)

func NewScreenshotListener(capturer *capture.Capturer, tier definitions.VerbosityTier) *ScreenshotListener {
	return &ScreenshotListener{capturer: capturer, tier: tier}
}

func (l *ScreenshotListener) Tier() definitions.VerbosityTier {
	return l.tier
}

func (l *ScreenshotListener) capture(ctx context.Context, want definitions.VerbosityTier, label string) {
	if l.tier.AtLeast(want) {
		l.capturer.Capture(ctx, label)
	}
}

func (l *ScreenshotListener) OnException(ctx context.Context, _ error, _ definitions.Driver) {
	l.capture(ctx, definitions.Minimal, constants.LabelOnException)
}

func (l *ScreenshotListener) BeforeNavigateTo(ctx context.Context, _ string, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.BeforeLabel(constants.OpNavigateTo))
}

func (l *ScreenshotListener) AfterNavigateTo(ctx context.Context, _ string, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.AfterLabel(constants.OpNavigateTo))
}

func (l *ScreenshotListener) BeforeClick(ctx context.Context, _ definitions.Element, _ definitions.Driver) {
	l.capture(ctx, definitions.Minimal, constants.BeforeLabel(constants.OpClick))
}

func (l *ScreenshotListener) AfterClick(ctx context.Context, _ definitions.Element, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.AfterLabel(constants.OpClick))
}

func (l *ScreenshotListener) BeforeChangeValueOf(ctx context.Context, op string, _ definitions.Element, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.BeforeLabel(op))
}

func (l *ScreenshotListener) AfterChangeValueOf(ctx context.Context, op string, _ definitions.Element, _ definitions.Driver) {
	l.capture(ctx, definitions.Standard, constants.AfterLabel(op))
}

func (l *ScreenshotListener) BeforeExecuteScript(ctx context.Context, _ string, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.BeforeLabel(constants.OpExecuteScript))
}

func (l *ScreenshotListener) AfterExecuteScript(ctx context.Context, _ string, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.AfterLabel(constants.OpExecuteScript))
}

func (l *ScreenshotListener) BeforeClose(ctx context.Context, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.BeforeLabel(constants.OpClose))
}

func (l *ScreenshotListener) AfterClose(ctx context.Context, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.AfterLabel(constants.OpClose))
}

func (l *ScreenshotListener) BeforeQuit(ctx context.Context, _ definitions.Driver) {
	l.capture(ctx, definitions.Verbose, constants.BeforeLabel(constants.OpQuit))
}

// NewScreenshotDriver attaches a ScreenshotListener to raw, storing
// screenshots under screenshotPath.
func NewScreenshotDriver(raw definitions.Driver, screenshotPath string, tier definitions.VerbosityTier, opts ...capture.Option) *EventFiringDriver {
	return NewEventFiringDriver(raw, NewScreenshotListener(capture.New(raw, screenshotPath, opts...), tier))
}
