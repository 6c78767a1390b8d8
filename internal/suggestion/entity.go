package suggestion

import "github.com/google/uuid"

type Suggestion struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

type SuggestionRequest struct {
	Count   int    `json:"count"`
	Context string `json:"context"`
}

type SuggestionResponse struct {
	HabitID     uuid.UUID    `json:"habit_id"`
	Suggestions []Suggestion `json:"suggestions"`
}
