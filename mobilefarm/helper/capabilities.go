// Package helper builds what a session needs before it is dialed: the
// capability set and the device description it comes from.
package helper

import (
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// GetCapabilities returns the capabilities for device. Empty app fields fall
// back to the Settings app.
func GetCapabilities(device definitions.DeviceConfig) definitions.Capabilities {
	return definitions.Capabilities{
		"platformName":   constants.PlatformAndroid,
		"automationName": constants.AutomationUiAutomator2,
		"deviceName":     constants.DefaultDeviceName,
		"appPackage":     lo.CoalesceOrEmpty(device.AppPackage, constants.DefaultAppPackage),
		"appActivity":    lo.CoalesceOrEmpty(device.AppActivity, constants.DefaultAppActivity),
		"noReset":        constants.DefaultNoReset,
		"language":       constants.DefaultLanguage,
		"locale":         constants.DefaultLocale,
	}
}

// DeviceForApp resolves a known app name (see constants.APP_PACKAGES_ANDROID)
// into the app fields of device.
func DeviceForApp(device definitions.DeviceConfig, appName string) (definitions.DeviceConfig, bool) {
	app, ok := constants.GetAppByName(appName)
	if !ok {
		return device, false
	}
	device.AppPackage = app.Package
	device.AppActivity = app.Activity
	return device, true
}
