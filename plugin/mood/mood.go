// Package mood infers the companion's display mood from conversation text.
//
// Detection is a keyword-trigger scorer: each mood owns a list of trigger
// phrases, and the mood whose triggers occur most often as substrings of the
// lower-cased input wins. Ties are broken by table declaration order, so the
// ordering of triggerTable below is part of the contract.
package mood

import (
	"math/rand"
	"strings"
)

// Mood is the companion's display mood.
type Mood string

const (
	Happy     Mood = "happy"
	Calm      Mood = "calm"
	Confident Mood = "confident"
	Worried   Mood = "worried"
	Flirty    Mood = "flirty"
	Loving    Mood = "loving"
	Thinking  Mood = "thinking"
	Listening Mood = "listening"
	Playful   Mood = "playful"
	Focused   Mood = "focused"
)

// validMoods is the closed set of moods the UI can render.
var validMoods = map[Mood]bool{
	Happy: true, Calm: true, Confident: true, Worried: true, Flirty: true,
	Loving: true, Thinking: true, Listening: true, Playful: true, Focused: true,
}

// Parse clamps an arbitrary string to the mood enum, falling back to Calm.
func Parse(s string) Mood {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if validMoods[m] {
		return m
	}
	return Calm
}

// Descriptions maps each mood to its display label.
var Descriptions = map[Mood]string{
	Happy:     "😊 Joyful",
	Calm:      "😌 Serene",
	Confident: "😎 Assured",
	Worried:   "😟 Concerned",
	Flirty:    "😏 Playful",
	Loving:    "🥰 Affectionate",
	Thinking:  "🤔 Pondering",
	Listening: "👂 Attentive",
	Playful:   "😄 Mischievous",
	Focused:   "🎯 Concentrated",
}

// triggerEntry binds a result mood to its trigger phrases. The "excited"
// trigger set resolves to Happy since the UI has no excited state.
type triggerEntry struct {
	result   Mood
	triggers []string
}

// triggerTable declaration order doubles as the tie-break order: when two
// moods match the same number of triggers, the earlier entry wins.
var triggerTable = []triggerEntry{
	{Happy, []string{"thank you", "thanks", "awesome", "great", "love it", "perfect", "excellent", "haha", "lol"}},
	{Happy, []string{"wow", "amazing", "incredible", "omg", "yes!", "lets go"}}, // excited
	{Loving, []string{"love you", "miss you", "care about", "adore"}},
	{Playful, []string{"hehe", "tease", "silly", "fun", "play"}},
	{Confident, []string{"i know", "definitely", "absolutely", "expert", "professional"}},
	{Focused, []string{"help me", "explain", "how to", "analyze", "work on", "solve"}},
	{Thinking, []string{"what if", "consider", "maybe", "possibly", "wondering"}},
	{Listening, []string{"tell me", "i feel", "i think", "share", "talk about"}},
	{Calm, []string{"relax", "peace", "calm", "meditate", "breathe"}},
	{Worried, []string{"problem", "issue", "worried", "concerned", "afraid", "scared", "nervous"}},
	{Flirty, []string{"hey beautiful", "looking good", "gorgeous", "hot", "sexy", "handsome"}},
}

// Classifier detects moods from user and assistant text. The random source is
// injectable so the creator-mode probability branches are testable.
type Classifier struct {
	roll func() float64
}

// NewClassifier creates a Classifier backed by the default random source.
func NewClassifier() *Classifier {
	return &Classifier{roll: rand.Float64}
}

// NewClassifierWithRoll creates a Classifier with a fixed random source.
func NewClassifierWithRoll(roll func() float64) *Classifier {
	return &Classifier{roll: roll}
}

func containsAny(s string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// DetectFromText returns the mood implied by the latest user utterance.
// Absence of signal keeps the current mood; the function never fails.
func (c *Classifier) DetectFromText(text string, current Mood, creator bool) Mood {
	textLower := strings.ToLower(text)

	// Hard overrides short-circuit scoring entirely.
	if containsAny(textLower, "be serious", "stop playing") {
		return Focused
	}
	if containsAny(textLower, "be happy", "cheer up") {
		return Happy
	}

	var (
		best      Mood
		bestScore int
	)
	for _, entry := range triggerTable {
		score := 0
		for _, trigger := range entry.triggers {
			if strings.Contains(textLower, trigger) {
				score++
			}
		}
		// Strictly greater keeps the first-declared entry on ties.
		if score > bestScore {
			best, bestScore = entry.result, score
		}
	}

	if creator {
		if containsAny(textLower, "hey", "hi", "hello") && c.roll() > 0.6 {
			return Flirty
		}
		if containsAny(textLower, "miss", "waiting") {
			return Loving
		}
	}

	if bestScore > 0 {
		if validMoods[best] {
			return best
		}
		return current
	}
	return current
}

// DetectFromResponse returns a candidate mood derived from the assistant's
// generated reply. Checks run in order; the first match wins.
func (c *Classifier) DetectFromResponse(responseText, userText string, creator bool) Mood {
	responseLower := strings.ToLower(responseText)

	switch {
	case containsAny(responseLower, "sorry", "apologize", "my bad"):
		return Worried
	case containsAny(responseLower, "haha", "lol", "😄", "fun"):
		return Playful
	case containsAny(responseLower, "let me think", "analyzing", "considering"):
		return Thinking
	case containsAny(responseLower, "i understand", "i hear you", "tell me more"):
		return Listening
	case containsAny(responseLower, "definitely", "absolutely", "certainly", "expert"):
		return Confident
	}

	if creator {
		if containsAny(responseLower, "hey you", "handsome", "miss", "waiting") {
			return Flirty
		}
		if containsAny(responseLower, "love", "care", "special") {
			return Loving
		}
	}

	if strings.Contains(userText, "?") {
		return Thinking
	}

	if creator {
		creatorMoods := []Mood{Happy, Playful, Flirty, Loving}
		if c.roll() > 0.7 {
			return creatorMoods[int(c.roll()*float64(len(creatorMoods)))%len(creatorMoods)]
		}
		return Calm
	}

	if c.roll() > 0.5 {
		return Happy
	}
	return Calm
}

// Reconcile picks the mood for the finished turn: the user-derived candidate
// when it differs from the previous mood, else the response-derived one.
func Reconcile(previous, fromUser, fromResponse Mood) Mood {
	if fromUser != previous {
		return fromUser
	}
	return fromResponse
}
