package appium

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

const defaultHTTPTimeout = 2 * time.Minute

// Client speaks the W3C WebDriver wire protocol to one automation server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type response struct {
	Value     any    `json:"value"`
	SessionID string `json:"sessionId,omitempty"`
}

// Do sends one command and returns the decoded "value" member of the reply.
func (c *Client) Do(ctx context.Context, method, path string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	} else if method == http.MethodPost {
		reader = strings.NewReader("{}")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	log.Trace().Str("method", method).Str("path", path).Msg("[Client] request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var decoded response
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return nil, &Error{Code: "unknown error", Message: strings.TrimSpace(string(raw)), StatusCode: resp.StatusCode}
			}
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(decoded.Value, resp.StatusCode)
	}
	return decoded.Value, nil
}

func decodeError(value any, status int) *Error {
	e := &Error{Code: "unknown error", StatusCode: status}
	m, ok := value.(map[string]any)
	if !ok {
		return e
	}
	if code, ok := m["error"].(string); ok && code != "" {
		e.Code = code
	}
	if msg, ok := m["message"].(string); ok {
		e.Message = msg
	}
	if st, ok := m["stacktrace"].(string); ok {
		e.Stacktrace = st
	}
	return e
}
