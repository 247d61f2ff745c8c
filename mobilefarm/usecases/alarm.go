package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

const (
	clockIDPrefix  = "com.google.android.deskclock:id/"
	alarmFab       = clockIDPrefix + "fab"
	amButton       = clockIDPrefix + "material_clock_period_am_button"
	pmButton       = clockIDPrefix + "material_clock_period_pm_button"
	timePickerOK   = clockIDPrefix + "material_timepicker_ok_button"
	minuteDialItem = "Minute 0 minutes"
	stopAlarm      = "Stop"
)

var dismissPoll = time.Second

// SetAlarm creates an alarm for the wall-clock time of at in the Clock app,
// which must be in the foreground.
func SetAlarm(ctx context.Context, driver definitions.Driver, at time.Time) error {
	hour12 := at.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	pm := at.Hour() >= 12
	log.Info().Msgf("Set alarm time to %02d:%02d %s", hour12, at.Minute(), lo.Ternary(pm, "PM", "AM"))

	if err := click(ctx, driver, constants.ByID, alarmFab); err != nil {
		return err
	}
	period := amButton
	if pm {
		period = pmButton
	}
	if err := click(ctx, driver, constants.ByID, period); err != nil {
		return err
	}

	// Tapping a dial item switches the picker to text input for that field.
	hourDial := fmt.Sprintf("Hour %d o'clock", at.Hour()%12+1)
	if err := click(ctx, driver, constants.ByAccessibilityID, hourDial); err != nil {
		return err
	}
	if err := replaceActive(ctx, driver, fmt.Sprintf("%02d", hour12)); err != nil {
		return err
	}

	if err := click(ctx, driver, constants.ByAccessibilityID, minuteDialItem); err != nil {
		return err
	}
	if err := replaceActive(ctx, driver, fmt.Sprintf("%02d", at.Minute())); err != nil {
		return err
	}

	return click(ctx, driver, constants.ByID, timePickerOK)
}

// DismissAlarm opens the notification shade and stops the ringing alarm,
// waiting up to timeout for it to go off.
func DismissAlarm(ctx context.Context, driver definitions.Driver, timeout time.Duration) error {
	if err := driver.OpenNotifications(ctx); err != nil {
		return err
	}
	stop, err := WaitForElement(ctx, driver, constants.ByAccessibilityID, stopAlarm, timeout, dismissPoll)
	if err != nil {
		log.Warn().Err(err).Msg("Alarm did not trigger within expected time frame")
		return err
	}
	return stop.Click(ctx)
}

func click(ctx context.Context, driver definitions.Driver, by, value string) error {
	el, err := driver.FindElement(ctx, by, value)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

func replaceActive(ctx context.Context, driver definitions.Driver, text string) error {
	el, err := driver.ActiveElement(ctx)
	if err != nil {
		return err
	}
	if err := el.Clear(ctx); err != nil {
		return err
	}
	return el.SendKeys(ctx, text)
}
