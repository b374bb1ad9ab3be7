// Package wellness tracks the per-day wellness record (meals, water, study,
// calories, sleep) and drives the proactive prompts: at-most-once meal
// questions per window per day and rate-limited water nudges.
package wellness

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	apierrors "github.com/tessa-labs/tessa/server/internal/errors"
	"github.com/tessa-labs/tessa/store"
)

// MealType names one of the four daily meals.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

// MealWindow is a fixed hour-of-day range in which one meal becomes
// eligible for a one-time prompt.
type MealWindow struct {
	Name      MealType
	Label     string
	Icon      string
	StartHour int
	EndHour   int
}

// mealWindows is scanned in declaration order; on overlap (snacks starts
// before lunch ends) the earlier window wins.
var mealWindows = []MealWindow{
	{Name: MealBreakfast, Label: "Breakfast", Icon: "🍳", StartHour: 8, EndHour: 12},
	{Name: MealLunch, Label: "Lunch", Icon: "🍱", StartHour: 12, EndHour: 16},
	{Name: MealSnacks, Label: "Snacks", Icon: "🍪", StartHour: 15, EndHour: 18},
	{Name: MealDinner, Label: "Dinner", Icon: "🍽️", StartHour: 18, EndHour: 24},
}

const (
	defaultWaterGoal = 8
	// Glasses above goal still accepted before clamping.
	waterOverflow = 4

	nudgeStartHour = 8
	nudgeEndHour   = 22
)

var mealQuestions = map[MealType][]string{
	MealBreakfast: {
		"Good morning! 🌅 Did you have breakfast yet?",
		"Hey~ Have you eaten breakfast? 🍳",
		"Please tell me you had breakfast 😤",
	},
	MealLunch: {
		"It's lunch time! What did you eat? 🍱",
		"Have you had lunch yet, or are you skipping it again? 😒",
		"Lunch check! Tell me what you ate 💕",
	},
	MealSnacks: {
		"Did you grab any snacks this afternoon? 🍪",
		"Snack time! Have something small if you're hungry 💝",
		"Any snacks today? Even something small counts! 😊",
	},
	MealDinner: {
		"Dinner time! What did you have? 🍽️",
		"Please tell me you're eating dinner 😤",
		"Did you eat dinner? I need to know! 💕",
	},
}

// Service owns the day-keyed wellness row. The clock and randomness source
// are injectable so tests can pin window selection and nudge jitter.
type Service struct {
	store *store.Store
	now   func() time.Time
	roll  func() float64
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now, roll: rand.Float64}
}

func NewServiceWithClock(s *store.Store, now func() time.Time, roll func() float64) *Service {
	return &Service{store: s, now: now, roll: roll}
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

// GetDaily returns today's record, creating a fresh one on first touch of a
// new day. Partial state never carries across midnight: rows are keyed by
// date, so a date change simply reads an absent row. The visit timestamp is
// refreshed on every call.
func (s *Service) GetDaily(ctx context.Context) (*store.Wellness, error) {
	w, err := s.store.GetWellness(ctx, s.today())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wellness")
	}
	if w == nil {
		w = &store.Wellness{
			Date:      s.today(),
			WaterGoal: defaultWaterGoal,
		}
	}
	w.LastVisitTs = s.now().Unix()
	if _, err := s.store.UpsertWellness(ctx, w); err != nil {
		return nil, errors.Wrap(err, "failed to upsert wellness")
	}
	return w, nil
}

// MarkMeal flags one meal as eaten today.
func (s *Service) MarkMeal(ctx context.Context, meal MealType) (*store.Wellness, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	switch meal {
	case MealBreakfast:
		w.Breakfast = true
	case MealLunch:
		w.Lunch = true
	case MealSnacks:
		w.Snacks = true
	case MealDinner:
		w.Dinner = true
	default:
		return nil, apierrors.New(apierrors.ErrCodeInvalidArgument, fmt.Sprintf("unknown meal type %q", meal))
	}
	return s.store.UpsertWellness(ctx, w)
}

func (s *Service) MarkStudy(ctx context.Context) (*store.Wellness, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	w.Study = true
	return s.store.UpsertWellness(ctx, w)
}

// AddWater adds glasses, clamped to goal+overflow. Adding zero is a no-op
// read.
func (s *Service) AddWater(ctx context.Context, glasses int) (*store.Wellness, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	if glasses == 0 {
		return w, nil
	}
	w.Water += glasses
	if max := w.WaterGoal + waterOverflow; w.Water > max {
		w.Water = max
	}
	if w.Water < 0 {
		w.Water = 0
	}
	return s.store.UpsertWellness(ctx, w)
}

func (s *Service) SetWaterGoal(ctx context.Context, goal int) (*store.Wellness, error) {
	if goal < 1 {
		return nil, apierrors.New(apierrors.ErrCodeInvalidArgument, fmt.Sprintf("water goal must be positive, got %d", goal))
	}
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	w.WaterGoal = goal
	return s.store.UpsertWellness(ctx, w)
}

func (s *Service) AddCalories(ctx context.Context, cal int) (*store.Wellness, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	w.Calories += cal
	return s.store.UpsertWellness(ctx, w)
}

func (s *Service) SetSleepHours(ctx context.Context, hours float64) (*store.Wellness, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, err
	}
	w.SleepHours = hours
	return s.store.UpsertWellness(ctx, w)
}

// ShouldAskAboutMeal returns at most one pending meal question. Windows are
// scanned in declaration order; the first one not yet eaten, not yet asked,
// and whose start hour has passed wins. The window is marked asked and
// persisted before returning, so repeated calls never re-ask.
func (s *Service) ShouldAskAboutMeal(ctx context.Context) (*MealWindow, string, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return nil, "", err
	}
	hour := s.now().Hour()

	for i := range mealWindows {
		win := &mealWindows[i]
		if hour < win.StartHour {
			continue
		}
		eaten, asked := mealState(w, win.Name)
		if eaten || asked {
			continue
		}

		markAsked(w, win.Name)
		if _, err := s.store.UpsertWellness(ctx, w); err != nil {
			return nil, "", errors.Wrap(err, "failed to persist asked flag")
		}

		options := mealQuestions[win.Name]
		return win, options[s.pick(len(options))], nil
	}
	return nil, "", nil
}

// ShouldAskAboutWater rate-limits hydration nudges to one per 1–2 hours
// (jittered) within the 08:00–22:00 band, suppressed once the goal is met.
// Empty string means no nudge due.
func (s *Service) ShouldAskAboutWater(ctx context.Context) (string, error) {
	w, err := s.GetDaily(ctx)
	if err != nil {
		return "", err
	}
	hour := s.now().Hour()
	if hour < nudgeStartHour || hour >= nudgeEndHour {
		return "", nil
	}
	if w.Water >= w.WaterGoal {
		return "", nil
	}

	hoursSince := 999.0
	if w.LastWaterNudgeTs != 0 {
		hoursSince = s.now().Sub(time.Unix(w.LastWaterNudgeTs, 0)).Hours()
	}
	interval := 1 + s.roll()
	if hoursSince < interval {
		return "", nil
	}

	w.LastWaterNudgeTs = s.now().Unix()
	if _, err := s.store.UpsertWellness(ctx, w); err != nil {
		return "", errors.Wrap(err, "failed to persist nudge time")
	}

	if w.Water == 0 {
		return "You haven't had ANY water today! 😤 Go drink some RIGHT NOW!", nil
	}
	remaining := w.WaterGoal - w.Water
	messages := []string{
		fmt.Sprintf("Hey! 💧 Have you drunk any water? You're at %d/%d glasses!", w.Water, w.WaterGoal),
		fmt.Sprintf("%d more glasses of water today, okay? 💦", remaining),
		fmt.Sprintf("Water check! You've had %d glasses — keep going! 💙", w.Water),
		fmt.Sprintf("Don't forget water! You need %d more glasses today 🥤", remaining),
	}
	return messages[s.pick(len(messages))], nil
}

func (s *Service) pick(n int) int {
	i := int(s.roll() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func mealState(w *store.Wellness, meal MealType) (eaten, asked bool) {
	switch meal {
	case MealBreakfast:
		return w.Breakfast, w.AskedBreakfast
	case MealLunch:
		return w.Lunch, w.AskedLunch
	case MealSnacks:
		return w.Snacks, w.AskedSnacks
	case MealDinner:
		return w.Dinner, w.AskedDinner
	}
	return false, false
}

func markAsked(w *store.Wellness, meal MealType) {
	switch meal {
	case MealBreakfast:
		w.AskedBreakfast = true
	case MealLunch:
		w.AskedLunch = true
	case MealSnacks:
		w.AskedSnacks = true
	case MealDinner:
		w.AskedDinner = true
	}
}
