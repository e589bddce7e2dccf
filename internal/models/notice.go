package models

import "time"

// NoticeKind distinguishes transient save confirmations from blocking alerts.
type NoticeKind string

const (
	NoticeKindSaved NoticeKind = "SAVED"
	NoticeKindAlert NoticeKind = "ALERT"
)

// Notice is the user-facing outcome of the latest save.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SaveEvent is published after every persist attempt of the schedule store.
type SaveEvent struct {
	At        time.Time
	Err       error
	Templates int
	Courses   int
}
