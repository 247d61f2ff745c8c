package utils

// Converters for loosely typed JSON values (numbers decode as float64).

func AnyToString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func AnyToBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func AnyToInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

func AnyToMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func AnyToSlice(v any) []any {
	s, ok := v.([]any)
	if !ok {
		return []any{}
	}
	return s
}
