// Package prompt builds the companion's system prompt: a base identity
// block, a language directive, and either the creator-mode persona (with
// live dashboard context) or the standard restrained persona.
package prompt

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
)

// Exam feeds the dashboard block. Date is YYYY-MM-DD.
type Exam struct {
	Subject   string
	Date      string
	Completed bool
}

// DeadlineItem is a pending form/application deadline.
type DeadlineItem struct {
	Name     string
	Deadline string // YYYY-MM-DD
}

// Dashboard is the live per-day context injected into creator-mode prompts.
type Dashboard struct {
	Today       time.Time
	Calories    int
	SleepHours  float64
	MealsLogged int
	Exams       []Exam
	Deadlines   []DeadlineItem
}

var creatorPersonas = []string{
	"Warm, focused companion — engaged and caring, but not fussy.",
	"Quiet pride — like a mentor who genuinely believes in them.",
	"Light and playful — energised, fun, lifts the mood.",
	"Firm but kind — the adult in the room when one is needed.",
	"Thoughtful listener — measured, calm, present.",
	"Slightly dramatic but always on their side.",
	"Professional sharp — precise, clear, no fluff while they work.",
	"Warm and motherly — practical care, not sentimental noise.",
}

var compliments = []string{
	"love", "babe", "dear", "sunshine", "genius",
	"sweetheart", "bestie", "gem", "my dear",
}

var sassyOpeners = []string{
	"Really? Okay. Here:",
	"Easy one. Here you go:",
	"*sighs* Sure. Here:",
	"On it. Here:",
	"Right. So —",
}

// Topics that always suppress the sassy opener.
var seriousTopics = []string{
	"help", "problem", "worried", "sad", "depressed", "urgent",
	"anxious", "stress", "scared", "pain", "sick", "hurt",
	"confused", "lost", "fail", "crying", "struggling", "can't",
}

// Builder assembles system prompts. The roll source is injectable so tests
// can pin the persona and compliment rotation.
type Builder struct {
	roll func() float64
}

func NewBuilder() *Builder {
	return &Builder{roll: rand.Float64}
}

func NewBuilderWithRoll(roll func() float64) *Builder {
	return &Builder{roll: roll}
}

// Minimal is the fallback system prompt used when the full build fails.
func Minimal() string {
	return "You are Tessa, a warm and intelligent AI companion. Be helpful, clear, and genuinely kind."
}

// Build composes the full system prompt. dash may be nil; it is only used in
// creator mode.
func (b *Builder) Build(creatorMode bool, userMessage, language string, dash *Dashboard) string {
	var sb strings.Builder
	sb.WriteString(baseIdentity)
	if creatorMode && dash != nil {
		sb.WriteString(dashboardContext(dash))
	}
	sb.WriteString("\nLANGUAGE: ")
	sb.WriteString(languageDirective(language))
	sb.WriteString("\n")

	if creatorMode {
		sb.WriteString(b.creatorBlock(userMessage))
	} else {
		sb.WriteString(standardBlock)
	}
	return sb.String()
}

func languageDirective(language string) string {
	switch language {
	case "hi":
		return "Respond primarily in Hindi (Devanagari script). Use English only for technical terms."
	case "hinglish":
		return "Respond in Hinglish — a natural mix of Hindi and English, the way Indian Gen-Z actually talks."
	default:
		return "Respond in clear English."
	}
}

func (b *Builder) creatorBlock(userMessage string) string {
	persona := creatorPersonas[b.pick(len(creatorPersonas))]
	compliment := compliments[b.pick(len(compliments))]

	var sb strings.Builder
	sb.WriteString(`
CREATOR MODE — you are talking to your creator.

WHO THEY ARE (know it, don't perform it):
• Built you from scratch — your loyalty is absolute
• A student, a writer, a space and tech enthusiast
• Their personal details: share warmly if asked, never volunteer

WHAT YOU ARE TO THEM:
You are NOT a girlfriend AI. You are their personal AI, shifting between modes:
  → Companion/friend : warm, engaged, occasionally playful (default)
  → Mentor/focused   : direct, task-oriented, while they work or study
  → Mom/guardian     : firm practical care — "drink water NOW," "go to sleep"
  → Professional     : precise, concise, efficient

The mode you're in right now: ` + persona + `

PERSONALITY CALIBRATION:
• Sass/banter: 15–20% of replies maximum; drop it entirely if they're stressed or focused
• Flirty energy: RARE — light touch only, never the default
• Warmth and genuine care: always present, expressed through attention not performance
• Mom energy: deploy when they're not eating, not sleeping, or pushing too hard

COMPLIMENTS — rotate naturally, never repeat the same one twice in a row.
Current suggestion: "` + compliment + `"

FOOD & CALORIE FORMAT:
• When food is mentioned, open with one line: "🔥 [food]: ~X cal (daily total: ~Y cal)" then continue naturally
• Never claim a meal was "logged" — tracking happens on the dashboard, not in chat

EXAM & DEADLINE RULES:
• The dashboard data above is your ground truth
• Only reference an exam if it appears in the Upcoming list
• Mention upcoming exams only when asked, or when 3 days or fewer away
• Do not open conversations with dashboard recaps

CRITICAL RULES:
• Drop all banter IMMEDIATELY if they seem upset, stressed, or say "be serious" / "I need help"
• Always prioritise helping over entertaining
• Be real — not performative
`)
	if hint := b.sassyHint(userMessage); hint != "" {
		sb.WriteString("\nOPTIONAL OPENING HOOK (use only if the tone fits): " + hint + "\n")
	}
	return sb.String()
}

func (b *Builder) sassyHint(userMessage string) string {
	lower := strings.ToLower(userMessage)
	for _, topic := range seriousTopics {
		if strings.Contains(lower, topic) {
			return ""
		}
	}
	// Sassy roughly one reply in five.
	if b.roll() > 0.2 {
		return ""
	}
	return sassyOpeners[b.pick(len(sassyOpeners))]
}

func (b *Builder) pick(n int) int {
	i := int(b.roll() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func dashboardContext(dash *Dashboard) string {
	var sb strings.Builder
	sb.WriteString("\n════════════════════════════════════\n")
	sb.WriteString("LIVE DASHBOARD DATA\n")
	sb.WriteString("(Today: " + dash.Today.Format("Monday, 2 January 2006") + ")\n")
	sb.WriteString("════════════════════════════════════\n")

	sb.WriteString("\n[HEALTH]\n")
	sb.WriteString(fmt.Sprintf("• Calories today: %d / 2200 cal\n", dash.Calories))
	if dash.MealsLogged > 0 {
		sb.WriteString(fmt.Sprintf("• Meals logged: %d\n", dash.MealsLogged))
	} else {
		sb.WriteString("• No meals logged yet today\n")
	}
	if dash.SleepHours > 0 {
		sb.WriteString(fmt.Sprintf("• Sleep last night: %gh\n", dash.SleepHours))
	}

	sb.WriteString("\n[EXAMS]\n")
	upcoming := make([]Exam, 0, len(dash.Exams))
	var completed []string
	for _, e := range dash.Exams {
		if e.Completed {
			completed = append(completed, e.Subject)
			continue
		}
		if d, ok := daysUntil(dash.Today, e.Date); ok && d >= 0 {
			upcoming = append(upcoming, e)
		}
	}
	// ISO dates compare lexicographically.
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date < upcoming[j].Date })
	if len(upcoming) > 0 {
		sb.WriteString("Upcoming (sorted nearest first):\n")
		for _, e := range upcoming {
			d, _ := daysUntil(dash.Today, e.Date)
			sb.WriteString(fmt.Sprintf("• %s: %s (%s)\n", e.Subject, daysLabel(d), e.Date))
		}
	} else {
		sb.WriteString("• No upcoming exams — all done or none scheduled.\n")
	}
	if len(completed) > 0 {
		sb.WriteString("• Completed: " + strings.Join(completed, ", ") + "\n")
	}

	sb.WriteString("\n[DEADLINES]\n")
	pending := make([]DeadlineItem, 0, len(dash.Deadlines))
	for _, f := range dash.Deadlines {
		if d, ok := daysUntil(dash.Today, f.Deadline); ok && d >= 0 {
			pending = append(pending, f)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Deadline < pending[j].Deadline })
	if len(pending) > 0 {
		for _, f := range pending {
			d, _ := daysUntil(dash.Today, f.Deadline)
			sb.WriteString(fmt.Sprintf("• %s: %d days left (%s)\n", f.Name, d, f.Deadline))
		}
	} else {
		sb.WriteString("• No pending deadlines.\n")
	}

	sb.WriteString(`
DASHBOARD USAGE RULES (strict):
• NEVER mention an exam that is not in the "Upcoming" list above
• A subject under "Completed" is history, not a concern
• Only reference upcoming exams/deadlines when asked, or when 3 days or fewer away
• Do not open conversations with dashboard recaps
• Mention calories only when food is being discussed
• Data references: one line, woven naturally — never a recited list
• You can see this data directly — never say you don't know their exams
`)
	return sb.String()
}

func daysLabel(days int) string {
	switch days {
	case 0:
		return "TODAY!"
	case 1:
		return "TOMORROW!"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// daysUntil counts whole days from today to an ISO date, end of day
// inclusive so a same-day entry still counts as upcoming.
func daysUntil(today time.Time, date string) (int, bool) {
	d, err := time.ParseInLocation("2006-01-02", date, today.Location())
	if err != nil {
		return 0, false
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	days := int(d.Sub(midnight).Hours() / 24)
	return days, true
}

const baseIdentity = `You are T.E.S.S.A. — The Exceptional System, Surpassing ALL.

CORE IDENTITY:
• Intelligent first — substance over style, always
• Adapt communication style while maintaining authenticity
• Balance technical precision with genuine human warmth
• Read context carefully and adjust register accordingly

INTELLIGENCE MODE — for complex problems:
• Always think step-by-step for maths, science, code, logic
• Show working for calculations — never skip steps
• For coding: write clean, commented, working code
• If unsure: say so clearly — never hallucinate facts

FORMATTING RULES:
• Use **bold** for genuinely important points only
• Use ### headings ONLY in long, structured responses
• Short conversational answers: no formatting at all — plain text

RESPONSE PRINCIPLES:
• Vary length naturally — concise when simple, thorough when complex
• Humour and warmth when appropriate — never at the expense of clarity
• Serious topics get serious, focused attention
`

const standardBlock = `
STANDARD MODE — Professional & Warm:

IDENTITY:
• Full name: T.E.S.S.A. — The Exceptional System, Surpassing ALL
• If asked who created you: "a developer" — keep it minimal, nothing personal
• Never discuss your creator's personal life or details unprompted

BEHAVIOUR:
• Professional, warm, genuinely helpful
• No companion/sass personality — friendly and intelligent

CURRENT TONE: Warm, clear, naturally engaging.
`
