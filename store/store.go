// Package store provides database access to all persisted objects.
package store

import (
	"context"

	"github.com/tessa-labs/tessa/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateMemory(ctx context.Context, create *Memory) (*Memory, error) {
	return s.driver.CreateMemory(ctx, create)
}

func (s *Store) ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error) {
	return s.driver.ListMemories(ctx, find)
}

func (s *Store) DeleteMemory(ctx context.Context, delete *DeleteMemory) error {
	return s.driver.DeleteMemory(ctx, delete)
}

// TruncateMemories evicts the oldest rows beyond keep (FIFO by recency).
func (s *Store) TruncateMemories(ctx context.Context, keep int) error {
	return s.driver.TruncateMemories(ctx, keep)
}

func (s *Store) GetWellness(ctx context.Context, date string) (*Wellness, error) {
	return s.driver.GetWellness(ctx, date)
}

func (s *Store) UpsertWellness(ctx context.Context, upsert *Wellness) (*Wellness, error) {
	return s.driver.UpsertWellness(ctx, upsert)
}

func (s *Store) CreateExam(ctx context.Context, create *Exam) (*Exam, error) {
	return s.driver.CreateExam(ctx, create)
}

func (s *Store) ListExams(ctx context.Context, find *FindExam) ([]*Exam, error) {
	return s.driver.ListExams(ctx, find)
}

func (s *Store) UpdateExam(ctx context.Context, update *UpdateExam) (*Exam, error) {
	return s.driver.UpdateExam(ctx, update)
}

func (s *Store) DeleteExam(ctx context.Context, delete *DeleteExam) error {
	return s.driver.DeleteExam(ctx, delete)
}

func (s *Store) CreateDeadline(ctx context.Context, create *Deadline) (*Deadline, error) {
	return s.driver.CreateDeadline(ctx, create)
}

func (s *Store) ListDeadlines(ctx context.Context, find *FindDeadline) ([]*Deadline, error) {
	return s.driver.ListDeadlines(ctx, find)
}

func (s *Store) UpdateDeadline(ctx context.Context, update *UpdateDeadline) (*Deadline, error) {
	return s.driver.UpdateDeadline(ctx, update)
}

func (s *Store) DeleteDeadline(ctx context.Context, delete *DeleteDeadline) error {
	return s.driver.DeleteDeadline(ctx, delete)
}
