package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedRoll(v float64) func() float64 {
	return func() float64 { return v }
}

func TestStandardMode(t *testing.T) {
	b := NewBuilderWithRoll(fixedRoll(0.9))
	got := b.Build(false, "what is gravity", "en", nil)

	require.Contains(t, got, "T.E.S.S.A.")
	require.Contains(t, got, "STANDARD MODE")
	require.Contains(t, got, "Respond in clear English.")
	require.NotContains(t, got, "CREATOR MODE")
	require.NotContains(t, got, "DASHBOARD")
}

func TestLanguageDirectives(t *testing.T) {
	b := NewBuilderWithRoll(fixedRoll(0.9))

	require.Contains(t, b.Build(false, "", "hi", nil), "Devanagari")
	require.Contains(t, b.Build(false, "", "hinglish", nil), "Hinglish")
	require.Contains(t, b.Build(false, "", "fr", nil), "clear English")
}

func TestCreatorModeWithDashboard(t *testing.T) {
	today := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	dash := &Dashboard{
		Today:       today,
		Calories:    860,
		MealsLogged: 2,
		SleepHours:  6.5,
		Exams: []Exam{
			{Subject: "Physics", Date: "2026-07-01", Completed: true},
			{Subject: "Maths", Date: "2026-08-31"},
			{Subject: "Chemistry", Date: "2026-08-30"},
			{Subject: "History", Date: "2026-01-01"}, // past, dropped
		},
		Deadlines: []DeadlineItem{
			{Name: "Scholarship form", Deadline: "2026-09-04"},
		},
	}

	b := NewBuilderWithRoll(fixedRoll(0.9))
	got := b.Build(true, "hello", "en", dash)

	require.Contains(t, got, "CREATOR MODE")
	require.Contains(t, got, "Calories today: 860 / 2200 cal")
	require.Contains(t, got, "Sleep last night: 6.5h")
	require.Contains(t, got, "Chemistry: TODAY! (2026-08-30)")
	require.Contains(t, got, "Maths: TOMORROW! (2026-08-31)")
	require.Contains(t, got, "Completed: Physics")
	require.NotContains(t, got, "History:")
	require.Contains(t, got, "Scholarship form: 5 days left")

	// Nearest exam listed first.
	require.Less(t, strings.Index(got, "Chemistry:"), strings.Index(got, "Maths:"))
}

func TestSassyHintSuppression(t *testing.T) {
	// Low roll would normally enable the opener.
	b := NewBuilderWithRoll(fixedRoll(0.1))

	withHint := b.Build(true, "what's 2+2", "en", nil)
	require.Contains(t, withHint, "OPTIONAL OPENING HOOK")

	serious := b.Build(true, "i'm really stressed about tomorrow", "en", nil)
	require.NotContains(t, serious, "OPTIONAL OPENING HOOK")
}

func TestMinimalFallback(t *testing.T) {
	require.Contains(t, Minimal(), "Tessa")
}
