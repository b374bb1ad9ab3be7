package store

// DeadlineStatus is the lifecycle state of a tracked deadline.
type DeadlineStatus string

const (
	DeadlineStatusPending DeadlineStatus = "pending"
	DeadlineStatusDone    DeadlineStatus = "done"
)

// Deadline is a user-entered form/application deadline.
type Deadline struct {
	ID        int32
	UID       string
	Name      string
	Deadline  string // YYYY-MM-DD
	Status    DeadlineStatus
	CreatedTs int64
}

type FindDeadline struct {
	UID    *string
	Status *DeadlineStatus
}

type UpdateDeadline struct {
	UID      string
	Name     *string
	Deadline *string
	Status   *DeadlineStatus
}

type DeleteDeadline struct {
	UID string
}
