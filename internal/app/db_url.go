package app

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// normalizeDBURL appends the lib/pq flag that disables binary-format
// prepared results, unless the connection string already sets it.
// Both URL-style and key=value DSN strings are accepted.
func normalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary || strings.Contains(raw, preparedBinaryParam) {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return strings.TrimSpace(raw) + " " + preparedBinaryParam + "=yes"
	}

	query := parsed.Query()
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL extracts the database name for the otelsql span
// attributes. Returns "" when the connection string carries none.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/")
	}

	for _, field := range strings.Fields(raw) {
		if value, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}
