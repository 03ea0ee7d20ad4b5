package models

import "time"

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	PassHash  []byte
	IsMember  bool
	IsAdmin   bool
	JoinedAt  time.Time
}

type Message struct {
	ID        int64
	Title     string
	Text      string
	UserID    int64
	CreatedAt time.Time
}

// MessageWithAuthor carries the author columns joined from the users table.
// Whether the caller gets to see them is a projection decision made above
// the storage layer.
type MessageWithAuthor struct {
	Message
	AuthorFirstName string
	AuthorLastName  string
	AuthorEmail     string
}

// Session binds an opaque token to a user id. The user id is a weak
// reference: resolving a session whose user no longer exists yields an
// anonymous identity, not an error.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Identity is the outcome of session resolution. A nil User means the
// request is anonymous; expired and orphaned sessions collapse into the
// same anonymous state.
type Identity struct {
	User *User
}

func (i Identity) Anonymous() bool {
	return i.User == nil
}

func (i Identity) Member() bool {
	return i.User != nil && i.User.IsMember
}

func (i Identity) Admin() bool {
	return i.User != nil && i.User.IsAdmin
}

type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalMembers  int64 `json:"total_members"`
	TotalMessages int64 `json:"total_messages"`
}
