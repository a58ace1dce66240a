package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answer is a single raw answer: either text (an option id or a display text
// in any language) or a number. The zero value is an absent answer.
type Answer struct {
	text    string
	number  float64
	numeric bool
}

// TextAnswer builds a text answer.
func TextAnswer(s string) Answer {
	return Answer{text: s}
}

// NumberAnswer builds a numeric answer.
func NumberAnswer(f float64) Answer {
	return Answer{number: f, numeric: true}
}

// IsAbsent reports whether the answer carries nothing usable.
func (a Answer) IsAbsent() bool {
	if a.numeric {
		return math.IsNaN(a.number)
	}
	return strings.TrimSpace(a.text) == ""
}

// Number returns the numeric value, parsing text answers when possible.
func (a Answer) Number() (float64, bool) {
	if a.numeric {
		return a.number, !math.IsNaN(a.number) && !math.IsInf(a.number, 0)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the text form of the answer.
func (a Answer) String() string {
	if a.numeric {
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	}
	return a.text
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.IsAbsent():
		return []byte("null"), nil
	case a.numeric:
		return json.Marshal(a.number)
	default:
		return json.Marshal(a.text)
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("answer must be a string or a number: %w", err)
	}
	*a = NumberAnswer(f)
	return nil
}

// UnmarshalJSON decodes a site leniently: the roof area may be a number or a
// numeric string. Anything else leaves the roof unmeasured.
func (s *SiteAnswerSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		RoofAreaM2 json.RawMessage   `json:"roofAreaM2"`
		Answers    map[string]Answer `json:"answers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.RoofAreaM2 = parseArea(raw.RoofAreaM2)
	s.Answers = raw.Answers
	return nil
}

func parseArea(data json.RawMessage) *float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var text string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	} else {
		text = string(data)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
