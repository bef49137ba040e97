package logging

import "log/slog"

// Attribute keys whose values are credentials and must never appear in
// full in log output.
var sensitiveKeys = map[string]bool{
	"key":     true,
	"api_key": true,
	"apikey":  true,
	"token":   true,
}

// redactAttr masks credential-bearing attributes. Enough of the key
// survives to correlate log lines with configuration entries.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if !sensitiveKeys[a.Key] {
		return a
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	a.Value = slog.StringValue(MaskKey(a.Value.String()))
	return a
}

// MaskKey replaces the middle of a credential with asterisks, keeping the
// first and last four characters. Short keys are masked entirely.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***" + key[len(key)-4:]
}
