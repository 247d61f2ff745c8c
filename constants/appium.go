package constants

import "time"

// AppiumServerURL is the local automation service every session is created against.
const AppiumServerURL = "http://localhost:4723"

// Capability defaults.
const (
	PlatformAndroid        = "Android"
	AutomationUiAutomator2 = "UiAutomator2"
	DefaultDeviceName      = "Android"
	DefaultLanguage        = "en"
	DefaultLocale          = "US"
	DefaultAppPackage      = "com.android.settings"
	DefaultAppActivity     = ".Settings"
	DefaultNoReset         = true

	// AppiumVendorPrefix is prepended to non-W3C capability names on the wire.
	AppiumVendorPrefix = "appium:"
)

const (
	DefaultImplicitWait = 20 * time.Second
	DefaultResultsDir   = "results"
)

// Locator strategies understood by the UiAutomator2 driver.
const (
	ByID                 = "id"
	ByXPath              = "xpath"
	ByAccessibilityID    = "accessibility id"
	ByClassName          = "class name"
	ByAndroidUIAutomator = "-android uiautomator"
)

// W3C element reference keys.
const (
	W3CElementKey    = "element-6066-11e4-a52e-4f735466cecf"
	LegacyElementKey = "ELEMENT"
)
