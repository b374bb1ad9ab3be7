// Package memory is the persistence service over extracted facts: dedupe,
// capacity eviction, and the grouped context block injected into the system
// prompt.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	memoryplugin "github.com/tessa-labs/tessa/plugin/memory"
	apierrors "github.com/tessa-labs/tessa/server/internal/errors"
	"github.com/tessa-labs/tessa/store"
)

// maxMemories caps stored facts; the oldest are evicted first.
const maxMemories = 80

// contextPerCategory bounds facts per category in the prompt block.
const contextPerCategory = 10

// categoryOrder fixes the grouping order of the context block.
var categoryOrder = []memoryplugin.Category{
	memoryplugin.CategoryExam,
	memoryplugin.CategoryHealth,
	memoryplugin.CategoryPreference,
	memoryplugin.CategoryEvent,
	memoryplugin.CategoryMood,
	memoryplugin.CategoryStudy,
	memoryplugin.CategoryPersonal,
	memoryplugin.CategoryGoal,
}

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// NewServiceWithClock pins the clock for tests.
func NewServiceWithClock(s *store.Store, now func() time.Time) *Service {
	return &Service{store: s, now: now}
}

// Remember persists one fact. A fact whose text already exists
// (case-insensitive) is skipped and nil is returned without error. After a
// successful insert the store is truncated back to capacity.
func (s *Service) Remember(ctx context.Context, fact string, category memoryplugin.Category, source string) (*store.Memory, error) {
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return nil, apierrors.New(apierrors.ErrCodeInvalidArgument, "fact must not be empty")
	}

	existing, err := s.store.ListMemories(ctx, &store.FindMemory{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list memories")
	}
	lower := strings.ToLower(fact)
	for _, m := range existing {
		if strings.ToLower(m.Fact) == lower {
			return nil, nil
		}
	}

	created, err := s.store.CreateMemory(ctx, &store.Memory{
		UID:       shortuuid.New(),
		Fact:      fact,
		Category:  string(category),
		Source:    source,
		CreatedTs: s.now().Unix(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create memory")
	}

	if err := s.store.TruncateMemories(ctx, maxMemories); err != nil {
		return nil, errors.Wrap(err, "failed to truncate memories")
	}
	return created, nil
}

// List returns all facts, newest first.
func (s *Service) List(ctx context.Context) ([]*store.Memory, error) {
	return s.store.ListMemories(ctx, &store.FindMemory{})
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	return s.store.DeleteMemory(ctx, &store.DeleteMemory{UID: &uid})
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.DeleteMemory(ctx, &store.DeleteMemory{})
}

// BuildContext renders the remembered facts grouped by category for the
// system prompt. Empty string when nothing is remembered.
func (s *Service) BuildContext(ctx context.Context) (string, error) {
	memories, err := s.store.ListMemories(ctx, &store.FindMemory{})
	if err != nil {
		return "", errors.Wrap(err, "failed to list memories")
	}
	if len(memories) == 0 {
		return "", nil
	}

	grouped := map[string][]*store.Memory{}
	for _, m := range memories {
		grouped[m.Category] = append(grouped[m.Category], m)
	}

	lines := []string{"THINGS YOU REMEMBER ABOUT THE USER:"}
	for _, cat := range categoryOrder {
		items := grouped[string(cat)]
		if len(items) == 0 {
			continue
		}
		if len(items) > contextPerCategory {
			items = items[:contextPerCategory]
		}
		lines = append(lines, "\n["+strings.ToUpper(string(cat))+"]")
		for _, item := range items {
			date := time.Unix(item.CreatedTs, 0).Format("2/1/2006")
			lines = append(lines, fmt.Sprintf("• %s (%s)", item.Fact, date))
		}
	}
	lines = append(lines, "\nUse these naturally in conversation when relevant — never dump them all at once.")
	return strings.Join(lines, "\n"), nil
}

// ExtractAndSave runs fact extraction over a conversation turn and persists
// every new fact. It returns how many facts were newly saved; individual
// save failures abort with the error.
func (s *Service) ExtractAndSave(ctx context.Context, userMessage, aiResponse string) (int, error) {
	saved := 0
	for _, e := range memoryplugin.Extract(userMessage, aiResponse) {
		created, err := s.Remember(ctx, e.Fact, e.Category, e.Source)
		if err != nil {
			return saved, err
		}
		if created != nil {
			saved++
		}
	}
	return saved, nil
}
