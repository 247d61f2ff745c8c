package constants

import "time"

// Operation names. Capture labels are derived from them.
const (
	OpClick         = "click"
	OpSendKeys      = "send_keys"
	OpClear         = "clear"
	OpExecuteScript = "execute_script"
	OpTap           = "tap"
	OpSwipe         = "swipe"
	OpActivateApp   = "activate_app"
	OpTerminateApp  = "terminate_app"
	OpQuit          = "quit"
	OpNavigateTo    = "navigate_to"
	OpClose         = "close"

	LabelOnException = "on_exception"
)

const (
	ArtifactNameTemplate    = "{timestamp}_{label}.{ext}"
	ArtifactTimestampLayout = "20060102_150405"
	ScreenshotExt           = "png"
)

// Stabilization defaults.
const (
	IdleSyncScript          = "mobile: waitForIdleSync"
	IdleSyncTimeoutMs       = 5000
	DefaultStabilizeTimeout = 2 * time.Second
	DefaultStabilizePoll    = 500 * time.Millisecond
	DefaultIdleSyncTimeout  = IdleSyncTimeoutMs * time.Millisecond
)

func BeforeLabel(op string) string {
	return "before_" + op
}

func AfterLabel(op string) string {
	return "after_" + op
}
