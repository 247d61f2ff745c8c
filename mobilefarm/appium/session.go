package appium

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/utils"
)

// w3cCapabilities are sent without the vendor prefix.
var w3cCapabilities = []string{
	"platformName", "browserName", "browserVersion", "platformVersion",
	"acceptInsecureCerts", "pageLoadStrategy", "proxy", "setWindowRect",
	"timeouts", "strictFileInteractability", "unhandledPromptBehavior",
}

// W3CCapabilities prefixes every non-standard capability with "appium:".
func W3CCapabilities(caps definitions.Capabilities) map[string]any {
	return lo.MapKeys(caps, func(_ any, key string) string {
		if lo.Contains(w3cCapabilities, key) || strings.Contains(key, ":") {
			return key
		}
		return constants.AppiumVendorPrefix + key
	})
}

// NewSession creates a session on the server at serverURL.
func NewSession(ctx context.Context, serverURL string, caps definitions.Capabilities, httpClient *http.Client) (*Driver, error) {
	client := NewClient(serverURL, httpClient)

	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": W3CCapabilities(caps),
			"firstMatch":  []any{map[string]any{}},
		},
	}
	log.Debug().Str("server", client.BaseURL()).Str("capabilities", utils.JsonString(body)).Msg("[NewSession] request")

	value, err := client.Do(ctx, http.MethodPost, "/session", body)
	if err != nil {
		log.Error().Err(err).Msg("[NewSession] create session failed")
		return nil, err
	}

	sessionID := utils.AnyToString(utils.AnyToMap(value)["sessionId"])
	if sessionID == "" {
		return nil, fmt.Errorf("new session: server at %s returned no session id", client.BaseURL())
	}
	log.Info().Str("session", sessionID).Msg("appium session created")

	return &Driver{client: client, sessionID: sessionID}, nil
}

// Status reports whether the server answers and is ready for new sessions.
func Status(ctx context.Context, serverURL string, httpClient *http.Client) (bool, error) {
	value, err := NewClient(serverURL, httpClient).Do(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return false, err
	}
	return utils.AnyToBool(utils.AnyToMap(value)["ready"]), nil
}
