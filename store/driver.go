package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	CreateMemory(ctx context.Context, create *Memory) (*Memory, error)
	ListMemories(ctx context.Context, find *FindMemory) ([]*Memory, error)
	DeleteMemory(ctx context.Context, delete *DeleteMemory) error
	TruncateMemories(ctx context.Context, keep int) error

	GetWellness(ctx context.Context, date string) (*Wellness, error)
	UpsertWellness(ctx context.Context, upsert *Wellness) (*Wellness, error)

	CreateExam(ctx context.Context, create *Exam) (*Exam, error)
	ListExams(ctx context.Context, find *FindExam) ([]*Exam, error)
	UpdateExam(ctx context.Context, update *UpdateExam) (*Exam, error)
	DeleteExam(ctx context.Context, delete *DeleteExam) error

	CreateDeadline(ctx context.Context, create *Deadline) (*Deadline, error)
	ListDeadlines(ctx context.Context, find *FindDeadline) ([]*Deadline, error)
	UpdateDeadline(ctx context.Context, update *UpdateDeadline) (*Deadline, error)
	DeleteDeadline(ctx context.Context, delete *DeleteDeadline) error
}
