// Package food estimates calories for free-text food input against a fixed
// dictionary of common foods (calories per 100g basis).
package food

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Confidence indicates which resolution strategy produced a calorie figure.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // exact dictionary hit or counted pieces
	ConfidenceMedium Confidence = "medium" // substring match
	ConfidenceLow    Confidence = "low"    // category fallback
)

// Result is the outcome of a calorie lookup.
type Result struct {
	Food       string     `json:"food"`
	Calories   int        `json:"calories"`
	Confidence Confidence `json:"confidence"`
}

type foodEntry struct {
	name     string
	calories float64 // per 100g
}

// foodTable lists calories per 100g. Kept as an ordered slice so substring
// matching is deterministic: the first-declared entry wins.
var foodTable = []foodEntry{
	// Staples
	{"rice", 130}, {"white rice", 130}, {"brown rice", 112},
	{"roti", 297}, {"chapati", 297}, {"paratha", 320}, {"naan", 262},
	{"bread", 265}, {"white bread", 265}, {"brown bread", 247},
	// Dal & lentils
	{"dal", 116}, {"moong dal", 347}, {"toor dal", 335}, {"masoor dal", 116},
	{"chana dal", 364}, {"rajma", 333}, {"chole", 364}, {"chickpeas", 164},
	// Vegetables
	{"potato", 77}, {"aloo", 77}, {"tomato", 18}, {"onion", 40},
	{"carrot", 41}, {"peas", 81}, {"paneer", 265}, {"spinach", 23},
	{"palak", 23}, {"cauliflower", 25}, {"gobi", 25}, {"brinjal", 25},
	{"baingan", 25}, {"bhindi", 33}, {"okra", 33},
	// Meat & eggs
	{"chicken", 239}, {"chicken breast", 165}, {"egg", 155},
	{"boiled egg", 155}, {"omelette", 154}, {"fish", 206},
	{"mutton", 294}, {"beef", 250},
	// Dairy
	{"milk", 42}, {"curd", 60}, {"yogurt", 60}, {"dahi", 60},
	{"cheese", 402}, {"butter", 717}, {"ghee", 900},
	// Snacks
	{"samosa", 262}, {"pakora", 250}, {"vada", 200}, {"idli", 132},
	{"dosa", 168}, {"poha", 76}, {"upma", 98}, {"maggi", 325},
	{"noodles", 138}, {"pasta", 131}, {"pizza", 266}, {"burger", 295},
	{"sandwich", 265}, {"chips", 536}, {"biscuit", 502}, {"cookies", 502},
	// Sweets
	{"chocolate", 546}, {"ice cream", 207}, {"gulab jamun", 375},
	{"jalebi", 150}, {"rasgulla", 186}, {"ladoo", 450}, {"barfi", 450},
	{"halwa", 387}, {"cake", 257},
	// Fruits
	{"apple", 52}, {"banana", 89}, {"kela", 89}, {"orange", 47},
	{"mango", 60}, {"aam", 60}, {"grapes", 69}, {"watermelon", 30},
	{"papaya", 43}, {"guava", 68},
	// Drinks
	{"tea", 1}, {"chai", 30}, {"coffee", 1}, {"juice", 45},
	{"cola", 41}, {"coke", 41}, {"pepsi", 41}, {"nimbu pani", 40},
	{"lemonade", 40}, {"lassi", 60},
	// Fast food
	{"biryani", 200}, {"pulao", 130}, {"fried rice", 163},
	{"chowmein", 198}, {"momos", 150}, {"french fries", 312},
	{"pav bhaji", 150}, {"vada pav", 286},
}

// foodIndex permits exact lookups by name.
var foodIndex = func() map[string]float64 {
	m := make(map[string]float64, len(foodTable))
	for _, e := range foodTable {
		m[e.name] = e.calories
	}
	return m
}()

type portionEntry struct {
	keyword string
	grams   float64
}

// portionTable maps portion keywords to grams. Order matters: the first
// keyword found as a substring of the input is applied.
var portionTable = []portionEntry{
	{"small", 50}, {"medium", 100}, {"large", 150},
	{"plate", 200}, {"bowl", 250}, {"cup", 150},
	{"glass", 200}, {"piece", 50}, {"slice", 30}, {"serving", 100},
}

var leadingCountPattern = regexp.MustCompile(`^(\d+)\s+`)

// gramsPerPiece is assumed when the input counts discrete items ("2 rotis").
const gramsPerPiece = 50

// Estimate resolves free-text food input to a calorie figure. It is a pure
// function: identical input always yields an identical result.
func Estimate(foodItem string) Result {
	input := strings.ToLower(strings.TrimSpace(foodItem))

	// Strip a recognized portion keyword and scale the 100g basis.
	portion := 100.0
	foodName := input
	for _, p := range portionTable {
		if strings.Contains(input, p.keyword) {
			portion = p.grams
			foodName = strings.TrimSpace(strings.Replace(input, p.keyword, "", 1))
			break
		}
	}

	// Leading count with a plural dictionary name, e.g. "2 rotis".
	if m := leadingCountPattern.FindStringSubmatch(input); m != nil {
		count, _ := strconv.Atoi(m[1])
		counted := strings.TrimSpace(strings.TrimPrefix(input, m[0]))
		if strings.HasSuffix(counted, "s") {
			singular := strings.TrimSuffix(counted, "s")
			if per, ok := foodIndex[singular]; ok {
				return Result{
					Food:       strconv.Itoa(count) + " " + counted,
					Calories:   int(math.Round(per * float64(count) * gramsPerPiece / 100)),
					Confidence: ConfidenceHigh,
				}
			}
		}
	}

	// Exact dictionary hit.
	if cal, ok := foodIndex[foodName]; ok {
		return Result{
			Food:       foodItem,
			Calories:   int(math.Round(cal * portion / 100)),
			Confidence: ConfidenceHigh,
		}
	}

	// Substring match in either direction.
	for _, e := range foodTable {
		if strings.Contains(foodName, e.name) || strings.Contains(e.name, foodName) {
			return Result{
				Food:       foodItem,
				Calories:   int(math.Round(e.calories * portion / 100)),
				Confidence: ConfidenceMedium,
			}
		}
	}

	// Category fallbacks.
	if containsAny(foodName, "meal", "dinner", "lunch") {
		return Result{Food: foodItem, Calories: 600, Confidence: ConfidenceLow}
	}
	if containsAny(foodName, "snack", "breakfast") {
		return Result{Food: foodItem, Calories: 300, Confidence: ConfidenceLow}
	}

	return Result{Food: foodItem, Calories: 200, Confidence: ConfidenceLow}
}

// Suggestions returns up to 8 dictionary names containing the partial input.
func Suggestions(partial string) []string {
	if len(partial) < 2 {
		return nil
	}

	input := strings.ToLower(partial)
	matches := []string{}
	for _, e := range foodTable {
		if strings.Contains(e.name, input) {
			matches = append(matches, e.name)
			if len(matches) == 8 {
				break
			}
		}
	}
	return matches
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
