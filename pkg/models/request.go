package models

// HarvestRequest represents the request payload for starting a harvest
type HarvestRequest struct {
	Keyword    string `json:"keyword" validate:"required"`
	Location   string `json:"location,omitempty"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=1000"`
}
