package store

import "time"

type User struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         string
	IsStaff      bool
	CreatedAt    time.Time
}

type Profile struct {
	ID        string
	UserID    string
	Role      string
	CreatedAt time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
	IdeaCount   int
	CreatedAt   time.Time
}

type Idea struct {
	ID             string
	Title          string
	Description    string
	CategoryID     *string
	CategoryName   string
	SubmitterID    string
	SubmitterName  string
	SubmissionDate time.Time
	Status         string
	// Computed from current vote/comment rows, never stored.
	Upvotes      int
	Downvotes    int
	VoteScore    int
	CommentCount int
}

type Vote struct {
	ID       string
	IdeaID   string
	UserID   string
	VoteType string
	VotedAt  time.Time
}

// VoteOutcome reports what CastVote did with an existing or new row.
type VoteOutcome string

const (
	VoteRecorded VoteOutcome = "recorded"
	VoteRemoved  VoteOutcome = "removed"
)

type Comment struct {
	ID              string
	IdeaID          string
	UserID          string
	AuthorName      string
	Content         string
	ParentCommentID *string
	CreatedAt       time.Time
	Replies         []Comment
}

// IdeaFilter narrows ListIdeas. Zero values mean "no filter".
type IdeaFilter struct {
	CategoryID  string
	Status      string
	Search      string
	SubmitterID string
}
