package appium

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/utils"
)

// Driver is a raw Appium session. It satisfies definitions.Driver and adds no
// behaviour on top of the server's.
type Driver struct {
	client    *Client
	sessionID string
}

var _ definitions.Driver = (*Driver)(nil)

// Attach binds a Driver to an already created session.
func Attach(client *Client, sessionID string) *Driver {
	return &Driver{client: client, sessionID: sessionID}
}

func (r *Driver) SessionID() string {
	return r.sessionID
}

func (r *Driver) path(suffix string) string {
	return "/session/" + url.PathEscape(r.sessionID) + suffix
}

func (r *Driver) do(ctx context.Context, op, method, suffix string, body any) (any, error) {
	log.Debug().Str("cmd", fmt.Sprintf("[%s] %s %s", op, method, r.path(suffix))).Msg("")
	value, err := r.client.Do(ctx, method, r.path(suffix), body)
	if err != nil {
		log.Debug().Err(err).Str("op", op).Msg("command failed")
	}
	return value, err
}

func (r *Driver) FindElement(ctx context.Context, by, value string) (definitions.Element, error) {
	res, err := r.do(ctx, "FindElement", http.MethodPost, "/element", map[string]any{"using": by, "value": value})
	if err != nil {
		return nil, err
	}
	el, err := r.elementFrom(res)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (r *Driver) FindElements(ctx context.Context, by, value string) ([]definitions.Element, error) {
	res, err := r.do(ctx, "FindElements", http.MethodPost, "/elements", map[string]any{"using": by, "value": value})
	if err != nil {
		return nil, err
	}
	elements := make([]definitions.Element, 0, len(utils.AnyToSlice(res)))
	for _, item := range utils.AnyToSlice(res) {
		el, err := r.elementFrom(item)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

func (r *Driver) ActiveElement(ctx context.Context) (definitions.Element, error) {
	res, err := r.do(ctx, "ActiveElement", http.MethodGet, "/element/active", nil)
	if err != nil {
		return nil, err
	}
	el, err := r.elementFrom(res)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (r *Driver) elementFrom(value any) (*Element, error) {
	ref := utils.AnyToMap(value)
	id := utils.AnyToString(ref[constants.W3CElementKey])
	if id == "" {
		id = utils.AnyToString(ref[constants.LegacyElementKey])
	}
	if id == "" {
		return nil, fmt.Errorf("server returned no element reference: %s", utils.JsonString(value))
	}
	return &Element{driver: r, id: id}, nil
}

func (r *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return r.do(ctx, "ExecuteScript", http.MethodPost, "/execute/sync", map[string]any{"script": script, "args": args})
}

func (r *Driver) Tap(ctx context.Context, positions []definitions.Point, duration time.Duration) error {
	if len(positions) == 0 {
		return fmt.Errorf("tap: no positions given")
	}
	_, err := r.do(ctx, "Tap", http.MethodPost, "/actions", tapActions(positions, duration))
	return err
}

func (r *Driver) Swipe(ctx context.Context, startX, startY, endX, endY int, duration time.Duration) error {
	start := definitions.Point{X: startX, Y: startY}
	end := definitions.Point{X: endX, Y: endY}
	_, err := r.do(ctx, "Swipe", http.MethodPost, "/actions", swipeActions(start, end, duration))
	return err
}

func (r *Driver) ActivateApp(ctx context.Context, appID string) error {
	_, err := r.do(ctx, "ActivateApp", http.MethodPost, "/appium/device/activate_app", map[string]any{"appId": appID})
	return err
}

func (r *Driver) TerminateApp(ctx context.Context, appID string) (bool, error) {
	res, err := r.do(ctx, "TerminateApp", http.MethodPost, "/appium/device/terminate_app", map[string]any{"appId": appID})
	if err != nil {
		return false, err
	}
	return utils.AnyToBool(res), nil
}

func (r *Driver) Back(ctx context.Context) error {
	_, err := r.do(ctx, "Back", http.MethodPost, "/back", nil)
	return err
}

func (r *Driver) OpenNotifications(ctx context.Context) error {
	_, err := r.do(ctx, "OpenNotifications", http.MethodPost, "/appium/device/open_notifications", nil)
	return err
}

func (r *Driver) Get(ctx context.Context, target string) error {
	_, err := r.do(ctx, "Get", http.MethodPost, "/url", map[string]any{"url": target})
	return err
}

func (r *Driver) CurrentPackage(ctx context.Context) (string, error) {
	res, err := r.do(ctx, "CurrentPackage", http.MethodGet, "/appium/device/current_package", nil)
	return utils.AnyToString(res), err
}

func (r *Driver) CurrentActivity(ctx context.Context) (string, error) {
	res, err := r.do(ctx, "CurrentActivity", http.MethodGet, "/appium/device/current_activity", nil)
	return utils.AnyToString(res), err
}

func (r *Driver) PageSource(ctx context.Context) (string, error) {
	res, err := r.do(ctx, "PageSource", http.MethodGet, "/source", nil)
	return utils.AnyToString(res), err
}

func (r *Driver) WindowSize(ctx context.Context) (definitions.Size, error) {
	res, err := r.do(ctx, "WindowSize", http.MethodGet, "/window/rect", nil)
	if err != nil {
		return definitions.Size{}, err
	}
	m := utils.AnyToMap(res)
	return definitions.Size{Width: utils.AnyToInt(m["width"]), Height: utils.AnyToInt(m["height"])}, nil
}

func (r *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	res, err := r.do(ctx, "Screenshot", http.MethodGet, "/screenshot", nil)
	if err != nil {
		return nil, err
	}
	return decodePNG(res)
}

func (r *Driver) SaveScreenshot(ctx context.Context, path string) error {
	data, err := r.Screenshot(ctx)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func (r *Driver) ImplicitlyWait(ctx context.Context, timeout time.Duration) error {
	_, err := r.do(ctx, "ImplicitlyWait", http.MethodPost, "/timeouts", map[string]any{"implicit": timeout.Milliseconds()})
	return err
}

func (r *Driver) Close(ctx context.Context) error {
	_, err := r.do(ctx, "Close", http.MethodDelete, "/window", nil)
	return err
}

func (r *Driver) Quit(ctx context.Context) error {
	_, err := r.do(ctx, "Quit", http.MethodDelete, "", nil)
	if err == nil {
		log.Info().Str("session", r.sessionID).Msg("appium session closed")
	}
	return err
}

func decodePNG(value any) ([]byte, error) {
	encoded := utils.AnyToString(value)
	if encoded == "" {
		return nil, fmt.Errorf("server returned an empty screenshot")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return data, nil
}

// writeFileAtomic writes through a uniquely named temp file so a reader never
// sees a half-written image under the final name.
func writeFileAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".screenshot_%s.tmp", uuid.New().String()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
