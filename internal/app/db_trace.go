package app

import "strings"

// Traced queries are flattened to one line and truncated so the bulky
// match upserts do not bloat span payloads.
const maxTracedQueryLen = 512

func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	flat := strings.Join(fields, " ")
	if len(flat) > maxTracedQueryLen {
		flat = flat[:maxTracedQueryLen] + "..."
	}
	return flat
}
