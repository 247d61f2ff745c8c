// Package mobilefarm opens instrumented automation sessions: every
// interactive call made through the returned driver leaves a before and an
// after screenshot under <output_dir>/<test_name>.
package mobilefarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/spance/mobilefarm-go/mobilefarm/appium"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

type Driver = definitions.Driver
type Element = definitions.Element

// Integration selects how capture is attached to a raw driver. A session
// uses exactly one.
type Integration string

const (
	// IntegrationProxy wraps the driver and its elements.
	IntegrationProxy Integration = "proxy"
	// IntegrationEvents attaches a tier-gated screenshot listener.
	IntegrationEvents Integration = "events"
)

func ParseIntegration(s string) (Integration, error) {
	switch Integration(strings.ToLower(strings.TrimSpace(s))) {
	case IntegrationProxy:
		return IntegrationProxy, nil
	case IntegrationEvents:
		return IntegrationEvents, nil
	default:
		return "", fmt.Errorf("invalid integration: %s. Must be 'proxy' or 'events'", s)
	}
}

// Dialer opens a raw session on the automation server at serverURL.
type Dialer func(ctx context.Context, serverURL string, caps definitions.Capabilities) (definitions.Driver, error)

func dialAppium(ctx context.Context, serverURL string, caps definitions.Capabilities) (definitions.Driver, error) {
	d, err := appium.NewSession(ctx, serverURL, caps, nil)
	if err != nil {
		return nil, err
	}
	return d, nil
}
