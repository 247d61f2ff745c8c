package utils

import "testing"

func TestAnyConverters(t *testing.T) {
	if got := AnyToString("x"); got != "x" {
		t.Errorf("AnyToString = %q", got)
	}
	if got := AnyToString(1); got != "" {
		t.Errorf("AnyToString(non-string) = %q", got)
	}
	if got := AnyToInt(float64(42)); got != 42 {
		t.Errorf("AnyToInt = %d", got)
	}
	if !AnyToBool(true) || AnyToBool("true") {
		t.Errorf("AnyToBool mismatch")
	}
	if m := AnyToMap(nil); m == nil || len(m) != 0 {
		t.Errorf("AnyToMap(nil) = %v", m)
	}
	if s := AnyToSlice([]any{1, 2}); len(s) != 2 {
		t.Errorf("AnyToSlice = %v", s)
	}
}

func TestJsonRoundTrip(t *testing.T) {
	type payload struct {
		Value string `json:"value"`
	}
	s := JsonString(payload{Value: "ok"})
	if s != `{"value":"ok"}` {
		t.Errorf("JsonString = %s", s)
	}
	p, err := JsonDecode[payload]([]byte(s))
	if err != nil || p.Value != "ok" {
		t.Errorf("JsonDecode = %+v, %v", p, err)
	}
}
