package naukri

import "encoding/json"

// SearchResponse is the decoded body of one search API page. Listing entries
// are kept as raw JSON because the upstream shape is not under our control;
// normalization extracts fields defensively.
type SearchResponse struct {
	List       []json.RawMessage `json:"list"`
	TotalJobs  int               `json:"totaljobs"`
	TotalPages int               `json:"totalpages"`
}

// PageRequest describes one page fetch against the search endpoint.
type PageRequest struct {
	Keyword  string
	Location string // free text; resolved to a location ID by the client
	Page     int
	PageSize int
}
