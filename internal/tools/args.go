package tools

// Argument maps arrive schema-validated, but JSON decoding leaves numbers
// as float64 and nested objects as map[string]any. These helpers coerce
// without re-validating.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
