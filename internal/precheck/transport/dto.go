// Package transport holds the request and response types of the pre-check flow.
package transport

import (
	"time"

	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/internal/scoring"
)

// MaxSites is the largest number of addresses one pre-check may hold.
const MaxSites = 20

// CreatePrecheckRequest starts a pre-check for a list of addresses.
type CreatePrecheckRequest struct {
	Language  string   `json:"language" validate:"required,locale"`
	Role      string   `json:"role" validate:"required,oneof=partner owner other"`
	Addresses []string `json:"addresses" validate:"required,min=1,max=20,dive,required,min=3,max=200"`
}

// SetAnswersRequest merges answers into one site. A null answer clears it.
type SetAnswersRequest struct {
	Answers map[string]scoring.Answer `json:"answers" validate:"required"`
}

// SetRoofAreaRequest overrides the measured roof area. Null clears the override.
type SetRoofAreaRequest struct {
	RoofAreaM2 *float64 `json:"roofAreaM2" validate:"omitempty,gte=0,lte=1000000"`
}

// ScoreRequest scores sites without a session.
type ScoreRequest struct {
	Sites []scoring.SiteAnswerSet `json:"sites" validate:"required,min=1,max=20"`
}

// SiteResponse is one site of a session.
type SiteResponse struct {
	Index              int                       `json:"index"`
	Address            string                    `json:"address"`
	Roof               *roofdata.RoofData        `json:"roof,omitempty"`
	RoofAreaM2         *float64                  `json:"roofAreaM2"`
	RoofAreaOverridden bool                      `json:"roofAreaOverridden"`
	Answers            map[string]scoring.Answer `json:"answers"`
}

// SessionResponse is a pre-check session.
type SessionResponse struct {
	ID        string         `json:"id"`
	Language  string         `json:"language"`
	Role      string         `json:"role"`
	Sites     []SiteResponse `json:"sites"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SiteResult is the scoring outcome of one site.
type SiteResult struct {
	Index      int                    `json:"index"`
	Address    string                 `json:"address"`
	Canton     string                 `json:"canton,omitempty"`
	RoofAreaM2 *float64               `json:"roofAreaM2"`
	Rank       int                    `json:"rank"`
	Breakdown  scoring.ScoreBreakdown `json:"breakdown"`
}

// Recommendation points at the best scoring site.
type Recommendation struct {
	SiteIndex      int          `json:"siteIndex"`
	Address        string       `json:"address"`
	CompositeScore float64      `json:"compositeScore"`
	Tier           scoring.Tier `json:"tier"`
}

// ResultsResponse is the full result of a pre-check.
type ResultsResponse struct {
	SessionID      string         `json:"sessionId"`
	Sites          []SiteResult   `json:"sites"`
	Ranking        []int          `json:"ranking"`
	CompositeScore float64        `json:"compositeScore"`
	Tier           scoring.Tier   `json:"tier"`
	Top            Recommendation `json:"top"`
}
