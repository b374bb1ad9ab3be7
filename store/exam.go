package store

// Exam is a user-entered upcoming exam. Exams are day-independent: unlike
// wellness rows they survive day rollover until deleted.
type Exam struct {
	ID        int32
	UID       string
	Subject   string
	Date      string // YYYY-MM-DD
	Completed bool
	CreatedTs int64
}

type FindExam struct {
	UID       *string
	Completed *bool
}

type UpdateExam struct {
	UID       string
	Subject   *string
	Date      *string
	Completed *bool
}

type DeleteExam struct {
	UID string
}
