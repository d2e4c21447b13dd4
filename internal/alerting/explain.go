package alerting

import (
	"fmt"
	"strings"
)

const (
	ExplanationAllClear = "All clear today. We’ll keep gently tracking for you."
	ExplanationDefault  = "All looks steady. We’ll keep an eye on things for you."
)

// Explain renders the user-facing summary of the facts behind a level.
func Explain(f Facts) string {
	var parts []string
	if f.LowMoodDays > 0 {
		parts = append(parts, fmt.Sprintf("You’ve had %d lower-energy day(s) recently.", f.LowMoodDays))
	}
	if f.MissedCheckins > 0 {
		parts = append(parts, fmt.Sprintf("We noticed %d day(s) without a check-in.", f.MissedCheckins))
	}
	if f.SurveyTotal != nil {
		parts = append(parts, fmt.Sprintf("Your recent weekly check-in total is %d.", *f.SurveyTotal))
	}
	if len(parts) == 0 {
		return ExplanationAllClear
	}
	return strings.Join(parts, " ")
}
