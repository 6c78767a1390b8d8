package suggestion

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/chronos-habits/internal/habit"
)

const (
	defaultCount = 3
	maxCount     = 10
)

const systemPrompt = `
You help people break a habit into small, concrete steps (sub-habits) for a habit tracker.

Rules:
1. Every step must be an action that can be ticked off on the same day the habit is done.
2. Keep each name short (at most 60 characters) and start it with a verb.
3. Do not repeat steps the user already has.
4. Add a one-sentence "reason" explaining how the step supports the habit.

Answer with pure, valid JSON only, no text outside the JSON:

[
  {"name": "<step>", "reason": "<why it helps>"}
]
`

func clampCount(n int) int {
	if n <= 0 {
		return defaultCount
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

func BuildUserPrompt(h *habit.Habit, req SuggestionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d sub-habits for the habit %q", clampCount(req.Count), h.Name)
	if h.Description != "" {
		fmt.Fprintf(&b, " (%s)", h.Description)
	}
	fmt.Fprintf(&b, ", scheduled %s", h.Frequency)
	if days := h.CustomDays.Days(); len(days) > 0 && h.Frequency != habit.FrequencyDaily {
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = weekdayNames[d]
		}
		fmt.Fprintf(&b, " on %s", strings.Join(names, ", "))
	}
	b.WriteString(".")

	if len(h.SubHabits) > 0 {
		existing := make([]string, len(h.SubHabits))
		for i, s := range h.SubHabits {
			existing[i] = s.Name
		}
		fmt.Fprintf(&b, " Existing steps: %s.", strings.Join(existing, "; "))
	}
	if ctx := strings.TrimSpace(req.Context); ctx != "" {
		fmt.Fprintf(&b, " Extra context from the user: %s.", ctx)
	}
	return b.String()
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
