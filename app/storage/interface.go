package storage

import (
	"context"
	"time"
)

type Interface interface {
	SaveVerdict(ctx context.Context, verdict Verdict) error
	StatsByChat(ctx context.Context) ([]ChatStat, error)
}

// Actions recorded with a verdict.
const (
	ActionWarned   = "warned"
	ActionCounted  = "counted"
	ActionPromoted = "promoted"
)

// Verdict is one classification outcome, kept for auditing and the
// report command. The allowlist itself stays in its flat file.
type Verdict struct {
	ID        string    `json:"id" db:"id"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	MessageID int64     `json:"message_id" db:"message_id"`
	SpamScore int       `json:"spam_score" db:"spam_score"`
	Notes     string    `json:"notes" db:"notes"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatStat is an aggregate row: how many times a given action was taken
// for a user within a chat.
type ChatStat struct {
	ChatID int64  `json:"chat_id" db:"chat_id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Action string `json:"action" db:"action"`
	Count  int    `json:"count" db:"count"`
}
