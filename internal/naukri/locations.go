package naukri

import "strings"

// locationIDs maps well-known city names to the search API's internal
// location identifiers.
var locationIDs = map[string]string{
	"bangalore": "4",
	"mumbai":    "1",
	"delhi":     "2",
	"pune":      "3",
	"hyderabad": "5",
	"chennai":   "6",
	"kolkata":   "7",
	"gurugram":  "2050",
	"gurgaon":   "2050",
	"noida":     "2051",
}

// ResolveLocation converts a free-text location into the API's location ID.
// Unmapped locations pass through lower-cased; the upstream API accepts
// free-text fallback.
func ResolveLocation(location string) string {
	key := strings.ToLower(location)
	if id, ok := locationIDs[key]; ok {
		return id
	}
	return key
}
