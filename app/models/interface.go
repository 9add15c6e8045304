package models

import "context"

type Interface interface {
	CheckSpam(ctx context.Context, text string) (*SpamVerdict, error)
}

// SpamVerdict is the classifier's answer for a single message. It is
// produced fresh per message and never cached.
type SpamVerdict struct {
	SpamScore int    `json:"spam_score"`
	Notes     string `json:"notes"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
