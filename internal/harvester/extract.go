package harvester

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// safeExtract pulls a string field out of a raw listing entry. Absent or
// null fields yield the empty string; values of other types are stringified.
// Whitespace is trimmed.
func safeExtract(raw []byte, key string) string {
	value := gjson.GetBytes(raw, key)
	if !value.Exists() || value.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(value.String())
}

// normalizeNumericID renders a job ID as a plain decimal integer string.
// Upstream serializes large IDs in scientific notation, so the value is
// routed through float64 first. Anything that does not parse as a number
// passes through unchanged.
func normalizeNumericID(value string) string {
	if value == "" {
		return ""
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return strconv.FormatInt(int64(f), 10)
}
