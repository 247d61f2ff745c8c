package capture

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
)

// StateReader is what the Waiter needs from the raw driver.
type StateReader interface {
	CurrentPackage(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)
}

type WaiterConfig struct {
	// Timeout bounds the foreground/page-source poll.
	Timeout      time.Duration
	PollInterval time.Duration
	// IdleSyncTimeout bounds the "mobile: waitForIdleSync" request.
	IdleSyncTimeout time.Duration
	// Disabled skips both steps.
	Disabled bool
}

func DefaultWaiterConfig() WaiterConfig {
	return WaiterConfig{
		Timeout:         constants.DefaultStabilizeTimeout,
		PollInterval:    constants.DefaultStabilizePoll,
		IdleSyncTimeout: constants.DefaultIdleSyncTimeout,
	}
}

// Waiter gives the UI a bounded chance to settle before a screenshot.
type Waiter struct {
	driver StateReader
	cfg    WaiterConfig
	logger zerolog.Logger
}

func NewWaiter(driver StateReader, cfg WaiterConfig) *Waiter {
	return &Waiter{driver: driver, cfg: cfg, logger: log.Logger}
}

// Wait polls until the foreground package is unchanged and the page source is
// readable, then asks the driver for an idle sync. Each step has its own
// deadline. The returned error is advisory only.
func (w *Waiter) Wait(ctx context.Context) error {
	if w.cfg.Disabled {
		return nil
	}
	return errors.Join(w.stabilize(ctx), w.idleSync(ctx))
}

func (w *Waiter) stabilize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	initial, err := w.driver.CurrentPackage(ctx)
	if err != nil {
		return &DiagnosticError{Op: "stabilize", Err: err}
	}

	settled := func(ctx context.Context, _ int) bool {
		source, err := w.driver.PageSource(ctx)
		if err != nil || source == "" {
			return false
		}
		pkg, err := w.driver.CurrentPackage(ctx)
		return err == nil && pkg == initial
	}
	if settled(ctx, 0) {
		return nil
	}

	iterations, elapsed, ok := lo.WaitForWithContext(ctx, settled, w.cfg.Timeout, w.cfg.PollInterval)
	if !ok {
		w.logger.Debug().Int("polls", iterations).Dur("elapsed", elapsed).Msg("ui not settled")
		return &DiagnosticError{Op: "stabilize", Err: errUnstable}
	}
	return nil
}

func (w *Waiter) idleSync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.IdleSyncTimeout)
	defer cancel()

	args := map[string]any{"timeout": w.cfg.IdleSyncTimeout.Milliseconds()}
	if _, err := w.driver.ExecuteScript(ctx, constants.IdleSyncScript, args); err != nil {
		return &DiagnosticError{Op: "idle_sync", Err: err}
	}
	return nil
}
