package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/tessa-labs/tessa/internal/profile"
	"github.com/tessa-labs/tessa/store"
	"github.com/tessa-labs/tessa/store/db"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    t.TempDir() + "/tessa_test.db",
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.CreateMemory(ctx, &store.Memory{
		UID:       shortuuid.New(),
		Fact:      "User loves filter coffee",
		Category:  "preference",
		Source:    "i love filter coffee",
		CreatedTs: 100,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := s.CreateMemory(ctx, &store.Memory{
		UID:       shortuuid.New(),
		Fact:      "physics exam is on feb 20",
		Category:  "exam",
		CreatedTs: 200,
	})
	require.NoError(t, err)

	list, err := s.ListMemories(ctx, &store.FindMemory{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	require.Equal(t, second.UID, list[0].UID)

	category := "exam"
	exams, err := s.ListMemories(ctx, &store.FindMemory{Category: &category})
	require.NoError(t, err)
	require.Len(t, exams, 1)

	require.NoError(t, s.DeleteMemory(ctx, &store.DeleteMemory{UID: &first.UID}))
	list, err = s.ListMemories(ctx, &store.FindMemory{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteMemory(ctx, &store.DeleteMemory{}))
	list, err = s.ListMemories(ctx, &store.FindMemory{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestTruncateMemories(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := s.CreateMemory(ctx, &store.Memory{
			UID:       shortuuid.New(),
			Fact:      shortuuid.New(),
			Category:  "personal",
			CreatedTs: int64(i + 1),
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.TruncateMemories(ctx, 3))
	list, err := s.ListMemories(ctx, &store.FindMemory{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	// The oldest rows were evicted.
	require.EqualValues(t, 5, list[0].CreatedTs)
	require.EqualValues(t, 3, list[2].CreatedTs)
}

func TestWellnessUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.GetWellness(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Nil(t, got)

	w := &store.Wellness{Date: "2026-08-30", WaterGoal: 8, Water: 2, Breakfast: true}
	_, err = s.UpsertWellness(ctx, w)
	require.NoError(t, err)

	got, err = s.GetWellness(ctx, "2026-08-30")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Breakfast)
	require.Equal(t, 2, got.Water)

	w.Water = 3
	w.AskedLunch = true
	_, err = s.UpsertWellness(ctx, w)
	require.NoError(t, err)

	got, err = s.GetWellness(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Equal(t, 3, got.Water)
	require.True(t, got.AskedLunch)
}

func TestExamCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exam, err := s.CreateExam(ctx, &store.Exam{
		UID:     shortuuid.New(),
		Subject: "Physics",
		Date:    "2026-09-10",
	})
	require.NoError(t, err)
	require.False(t, exam.Completed)

	completed := true
	updated, err := s.UpdateExam(ctx, &store.UpdateExam{UID: exam.UID, Completed: &completed})
	require.NoError(t, err)
	require.True(t, updated.Completed)

	pending := false
	list, err := s.ListExams(ctx, &store.FindExam{Completed: &pending})
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, s.DeleteExam(ctx, &store.DeleteExam{UID: exam.UID}))
	list, err = s.ListExams(ctx, &store.FindExam{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDeadlineCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	deadline, err := s.CreateDeadline(ctx, &store.Deadline{
		UID:      shortuuid.New(),
		Name:     "Scholarship form",
		Deadline: "2026-09-05",
	})
	require.NoError(t, err)
	require.Equal(t, store.DeadlineStatusPending, deadline.Status)

	done := store.DeadlineStatusDone
	updated, err := s.UpdateDeadline(ctx, &store.UpdateDeadline{UID: deadline.UID, Status: &done})
	require.NoError(t, err)
	require.Equal(t, store.DeadlineStatusDone, updated.Status)

	pendingStatus := store.DeadlineStatusPending
	list, err := s.ListDeadlines(ctx, &store.FindDeadline{Status: &pendingStatus})
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, s.DeleteDeadline(ctx, &store.DeleteDeadline{UID: deadline.UID}))
}
