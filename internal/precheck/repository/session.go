// Package repository stores pre-check sessions.
package repository

import (
	"time"

	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/internal/scoring"

	"github.com/google/uuid"
)

// Site is one address of a pre-check with its roof data and answers.
type Site struct {
	Address string             `json:"address"`
	Roof    *roofdata.RoofData `json:"roof,omitempty"`
	// RoofAreaOverrideM2 replaces the measured roof area when set.
	RoofAreaOverrideM2 *float64                  `json:"roofAreaOverrideM2,omitempty"`
	Answers            map[string]scoring.Answer `json:"answers"`
}

// RoofAreaM2 returns the roof area used for scoring: the override if set,
// else the measured area, else nil.
func (s Site) RoofAreaM2() *float64 {
	if s.RoofAreaOverrideM2 != nil {
		return s.RoofAreaOverrideM2
	}
	if s.Roof != nil && s.Roof.Found {
		return s.Roof.SurfaceAreaM2
	}
	return nil
}

// AnswerSet converts the site into the scoring input.
func (s Site) AnswerSet() scoring.SiteAnswerSet {
	answers := make(map[string]scoring.Answer, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	var area *float64
	if a := s.RoofAreaM2(); a != nil {
		v := *a
		area = &v
	}
	return scoring.SiteAnswerSet{RoofAreaM2: area, Answers: answers}
}

// Session is a pre-check in progress.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Language  string    `json:"language"`
	Role      string    `json:"role"`
	Sites     []Site    `json:"sites"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
