package transport

import "solar21_precheck/internal/scoring"

// ListQuestionsRequest filters the question list.
type ListQuestionsRequest struct {
	Category string `form:"category" validate:"omitempty,oneof=structure consumption"`
	Lang     string `form:"lang" validate:"omitempty,locale"`
}

// GetQuestionRequest selects the display language of a single question.
type GetQuestionRequest struct {
	Lang string `form:"lang" validate:"omitempty,locale"`
}

// QuestionRequest is a full question definition sent by an administrator.
// Field rules are enforced by scoring.ValidateDefinition.
type QuestionRequest struct {
	scoring.QuestionDefinition
}

// OptionView is an option with its text resolved to one language.
type OptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// QuestionView is a definition plus its display text in the requested language.
type QuestionView struct {
	scoring.QuestionDefinition
	Position     int          `json:"position"`
	Label        string       `json:"label"`
	HelpText     string       `json:"helpText,omitempty"`
	OptionLabels []OptionView `json:"optionLabels,omitempty"`
}

// QuestionListResponse lists questions in catalog order.
type QuestionListResponse struct {
	Items []QuestionView `json:"items"`
	Total int            `json:"total"`
}

// ValidateQuestionResponse returns the normalized form of a definition.
type ValidateQuestionResponse struct {
	Valid    bool                       `json:"valid"`
	Question scoring.QuestionDefinition `json:"question"`
}
