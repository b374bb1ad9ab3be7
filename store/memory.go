package store

// Memory is one remembered fact about the user, extracted from conversation
// or entered manually.
type Memory struct {
	ID        int32
	UID       string
	Fact      string
	Category  string
	Source    string
	CreatedTs int64
}

type FindMemory struct {
	UID      *string
	Category *string
	Limit    *int
}

type DeleteMemory struct {
	UID *string
}
