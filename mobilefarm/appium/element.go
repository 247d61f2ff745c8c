package appium

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
	"github.com/spance/mobilefarm-go/utils"
)

// Element is a raw element reference inside a Driver's session.
type Element struct {
	driver *Driver
	id     string
}

var _ definitions.Element = (*Element)(nil)

func (e *Element) ID() string {
	return e.id
}

func (e *Element) suffix(rest string) string {
	return "/element/" + url.PathEscape(e.id) + rest
}

func (e *Element) Click(ctx context.Context) error {
	_, err := e.driver.do(ctx, "Click", http.MethodPost, e.suffix("/click"), nil)
	return err
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	body := map[string]any{
		"text":  text,
		"value": strings.Split(text, ""),
	}
	_, err := e.driver.do(ctx, "SendKeys", http.MethodPost, e.suffix("/value"), body)
	return err
}

func (e *Element) Clear(ctx context.Context) error {
	_, err := e.driver.do(ctx, "Clear", http.MethodPost, e.suffix("/clear"), nil)
	return err
}

func (e *Element) Text(ctx context.Context) (string, error) {
	res, err := e.driver.do(ctx, "Text", http.MethodGet, e.suffix("/text"), nil)
	return utils.AnyToString(res), err
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	res, err := e.driver.do(ctx, "Attribute", http.MethodGet, e.suffix("/attribute/"+url.PathEscape(name)), nil)
	return utils.AnyToString(res), err
}

func (e *Element) Rect(ctx context.Context) (definitions.Rect, error) {
	res, err := e.driver.do(ctx, "Rect", http.MethodGet, e.suffix("/rect"), nil)
	if err != nil {
		return definitions.Rect{}, err
	}
	m := utils.AnyToMap(res)
	return definitions.Rect{
		X:      utils.AnyToInt(m["x"]),
		Y:      utils.AnyToInt(m["y"]),
		Width:  utils.AnyToInt(m["width"]),
		Height: utils.AnyToInt(m["height"]),
	}, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	res, err := e.driver.do(ctx, "IsDisplayed", http.MethodGet, e.suffix("/displayed"), nil)
	return utils.AnyToBool(res), err
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	res, err := e.driver.do(ctx, "IsEnabled", http.MethodGet, e.suffix("/enabled"), nil)
	return utils.AnyToBool(res), err
}

func (e *Element) SaveScreenshot(ctx context.Context, path string) error {
	res, err := e.driver.do(ctx, "ElementScreenshot", http.MethodGet, e.suffix("/screenshot"), nil)
	if err != nil {
		return err
	}
	data, err := decodePNG(res)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
