// Package memory extracts long-lived facts from conversation turns.
//
// Extraction is table-driven: an ordered list of independent regex rules is
// applied to the user message, and every rule that matches yields one fact.
// Rules may overlap (a goal statement inside a stress statement produces
// both facts); the only dedup is case-insensitive fact-text equality at the
// persistence layer.
package memory

import (
	"regexp"
	"strings"
)

// Category is the closed set of fact categories.
type Category string

const (
	CategoryExam       Category = "exam"
	CategoryHealth     Category = "health"
	CategoryPreference Category = "preference"
	CategoryEvent      Category = "event"
	CategoryMood       Category = "mood"
	CategoryStudy      Category = "study"
	CategoryPersonal   Category = "personal"
	CategoryGoal       Category = "goal"
)

// Extracted is a fact matched from a single message.
type Extracted struct {
	Fact     string
	Category Category
	Source   string
}

// sourceLimit bounds the stored snippet of the originating message.
const sourceLimit = 80

var (
	examPattern = regexp.MustCompile(`(?i)(?:my\s+)?(\w+(?:\s+\w+)?)\s+exam\s+(?:is\s+)?(?:on\s+)?(.{3,20})`)

	stressTrigger = regexp.MustCompile(`(?i)i(?:'m| am)\s+(?:really\s+)?(?:stressed|worried|anxious|nervous)\s+(?:about\s+)?(.+)`)
	stressTopic   = regexp.MustCompile(`(?i)(?:stressed|worried|anxious|nervous).*?about\s+(.+?)(?:\.|$)`)

	goalTrigger = regexp.MustCompile(`(?i)i\s+(?:want to|need to|have to|plan to|am going to)\s+(.{5,50})`)
	goalTopic   = regexp.MustCompile(`(?i)(?:want|need|plan|going)\s+to\s+(.{5,50}?)(?:\.|,|$)`)

	preferencePattern = regexp.MustCompile(`(?i)i\s+(love|hate|like|dislike|prefer|enjoy)\s+(.{3,40}?)(?:\.|,|$)`)

	birthdayPattern = regexp.MustCompile(`(?i)my\s+(?:birthday|bday)\s+is\s+(.{3,20}?)(?:\.|,|$)`)

	locationPattern = regexp.MustCompile(`(?i)i\s+(?:live|stay|am)\s+in\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	studyPattern = regexp.MustCompile(`(?i)studied\s+(.{3,30}?)\s+(?:for\s+)?(\d+)\s*hours?`)
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Extract scans a user message (and the assistant reply, unused today but
// part of the contract) for fact patterns. A single message may yield zero,
// one, or several facts.
func Extract(userMessage, _ string) []Extracted {
	source := truncate(userMessage, sourceLimit)
	out := []Extracted{}

	if m := examPattern.FindStringSubmatch(userMessage); m != nil {
		out = append(out, Extracted{
			Fact:     m[1] + " exam is on " + strings.TrimSpace(m[2]),
			Category: CategoryExam,
			Source:   source,
		})
	}

	if stressTrigger.MatchString(userMessage) {
		topic := "something"
		if m := stressTopic.FindStringSubmatch(userMessage); m != nil {
			topic = truncate(strings.TrimSpace(m[1]), 50)
		}
		out = append(out, Extracted{
			Fact:     "User was stressed about " + topic,
			Category: CategoryMood,
			Source:   source,
		})
	}

	if goalTrigger.MatchString(userMessage) {
		if m := goalTopic.FindStringSubmatch(userMessage); m != nil && m[1] != "" {
			out = append(out, Extracted{
				Fact:     "User wants to " + strings.TrimSpace(m[1]),
				Category: CategoryGoal,
				Source:   source,
			})
		}
	}

	if m := preferencePattern.FindStringSubmatch(userMessage); m != nil && m[2] != "" {
		verb := strings.ToLower(m[1])
		out = append(out, Extracted{
			Fact:     "User " + verb + "s " + strings.TrimSpace(m[2]),
			Category: CategoryPreference,
			Source:   source,
		})
	}

	if m := birthdayPattern.FindStringSubmatch(userMessage); m != nil && m[1] != "" {
		out = append(out, Extracted{
			Fact:     "User's birthday is " + strings.TrimSpace(m[1]),
			Category: CategoryPersonal,
			Source:   source,
		})
	}

	if m := locationPattern.FindStringSubmatch(userMessage); m != nil && m[1] != "" {
		out = append(out, Extracted{
			Fact:     "User lives in " + m[1],
			Category: CategoryPersonal,
			Source:   source,
		})
	}

	if m := studyPattern.FindStringSubmatch(userMessage); m != nil {
		out = append(out, Extracted{
			Fact:     "Studied " + strings.TrimSpace(m[1]) + " for " + m[2] + " hours",
			Category: CategoryStudy,
			Source:   source,
		})
	}

	return out
}
