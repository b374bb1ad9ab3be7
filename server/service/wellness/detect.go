package wellness

import (
	"regexp"
	"strconv"
	"strings"
)

var mealPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:ate|had|eating)\s+([a-z\s]+?)(?:\.|,|$|\s+and)`),
	regexp.MustCompile(`(?i)(?:just|already)\s+(?:ate|had)\s+([a-z\s]+?)(?:\.|,|$)`),
	regexp.MustCompile(`(?i)([a-z\s]+?)\s+for\s+(?:breakfast|lunch|dinner|meal)`),
}

// Checked after the phrase patterns, in order.
var directFoods = []string{
	"rice", "roti", "chapati", "dal", "biryani", "paratha", "dosa", "idli",
	"samosa", "sandwich", "pizza", "burger", "noodles", "pasta", "chicken",
	"egg", "paneer", "bread", "fruit", "salad",
}

// DetectMeal spots a food mention in free text. Returns the food name and
// whether anything was found.
func DetectMeal(message string) (string, bool) {
	for _, p := range mealPhrasePatterns {
		if m := p.FindStringSubmatch(message); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1]), true
		}
	}
	lower := strings.ToLower(message)
	for _, food := range directFoods {
		if strings.Contains(lower, food) {
			return food, true
		}
	}
	return "", false
}

var (
	sleepHoursPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)`)
	sleepSpanPattern  = regexp.MustCompile(`(?i)(?:slept|sleep)\s+(?:at|around)\s+(\d+).*?(?:woke|wake)\s+(?:at|around)\s+(\d+)`)
)

// DetectSleep extracts a sleep duration from free text, either "X hours" or
// a "slept at X ... woke at Y" span (overnight wraps).
func DetectSleep(message string) (float64, bool) {
	if m := sleepHoursPattern.FindStringSubmatch(message); m != nil {
		hours, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return hours, true
		}
	}
	if m := sleepSpanPattern.FindStringSubmatch(message); m != nil {
		sleptAt, err1 := strconv.Atoi(m[1])
		wokeAt, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			hours := wokeAt - sleptAt
			if hours < 0 {
				hours += 24
			}
			return float64(hours), true
		}
	}
	return 0, false
}

// SleepReaction maps a sleep duration to a tiered companion reaction.
func SleepReaction(hours float64) string {
	switch {
	case hours < 5:
		return "Less than 5 hours?! 😠 That's not okay! You need to sleep more, I'm serious! Your health is important to me! 💢"
	case hours < 6:
		return "That's not enough sleep 😤 You know I get worried when you don't sleep properly! Promise me you'll sleep more tonight? 💝"
	case hours < 7:
		return "Mmm, could be better honestly 😒 You should aim for at least 7-8 hours! I want you healthy and energized! 💕"
	case hours <= 8:
		return "Good job! 😊 That's the way, taking care of yourself! Keep it up! 💝"
	case hours <= 10:
		return "Wow, someone was tired! 😏 That's actually perfect! Glad you got good rest! 💕"
	default:
		return "Umm... that's a LOT of sleep 🤨 Were you feeling okay? Or just being lazy? 😏"
	}
}
