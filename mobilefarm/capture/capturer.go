package capture

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// Target is the raw handle a Capturer observes.
type Target interface {
	StateReader
	Screenshotter
}

// Capturer runs the Waiter and then the Sink for each capture. It is the
// boundary where diagnostic errors stop: none of its methods add an error of
// their own to what the wrapped action returns.
type Capturer struct {
	waiter   *Waiter
	sink     *Sink
	logger   zerolog.Logger
	observer func(definitions.CapturedArtifact)
}

type Option func(*Capturer)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Capturer) {
		c.logger = logger
		c.waiter.logger = logger
	}
}

func WithWaiterConfig(cfg WaiterConfig) Option {
	return func(c *Capturer) {
		c.waiter.cfg = cfg
	}
}

// WithClock replaces time.Now for artifact timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Capturer) {
		c.sink.now = now
	}
}

// WithObserver is called with every artifact that was written.
func WithObserver(fn func(definitions.CapturedArtifact)) Option {
	return func(c *Capturer) {
		c.observer = fn
	}
}

func New(target Target, dir string, opts ...Option) *Capturer {
	c := &Capturer{
		waiter: NewWaiter(target, DefaultWaiterConfig()),
		sink:   NewSink(target, dir),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Capturer) Dir() string {
	return c.sink.Dir()
}

// Capture waits for the UI to settle and saves one screenshot labelled label.
// ok is false when nothing was written.
func (c *Capturer) Capture(ctx context.Context, label string) (definitions.CapturedArtifact, bool) {
	if err := c.waiter.Wait(ctx); err != nil {
		c.logger.Debug().Err(err).Str("label", label).Msg("stabilization skipped")
	}

	artifact, err := c.sink.Save(ctx, label)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", artifact.Path).Msg("Failed to capture screenshot")
		return artifact, false
	}
	c.logger.Debug().Str("path", artifact.Path).Msg("Screenshot saved")

	if c.observer != nil {
		c.observer(artifact)
	}
	return artifact, true
}

// Around captures before_<op>, runs fn, and captures after_<op> only if fn
// succeeded. fn's error is returned untouched.
func (c *Capturer) Around(ctx context.Context, op string, fn func() error) error {
	c.Capture(ctx, constants.BeforeLabel(op))
	if err := fn(); err != nil {
		return err
	}
	c.Capture(ctx, constants.AfterLabel(op))
	return nil
}

// Before captures before_<op> and runs fn. Used where no after state exists.
func (c *Capturer) Before(ctx context.Context, op string, fn func() error) error {
	c.Capture(ctx, constants.BeforeLabel(op))
	return fn()
}

// Call is Around for operations that return a value.
func Call[T any](ctx context.Context, c *Capturer, op string, fn func() (T, error)) (T, error) {
	var result T
	err := c.Around(ctx, op, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}
