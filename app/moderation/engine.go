package moderation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"GoSpamGuard/app/allowlist"
	"GoSpamGuard/app/models"
	"GoSpamGuard/app/storage"
	"GoSpamGuard/app/utils"
)

// Sender is the normalized account behind an inbound message.
type Sender struct {
	ID       int64
	IsBot    bool
	Username string
}

// Message is the platform-independent slice of an inbound chat event
// that the engine needs. Transport framing stays in the clients.
type Message struct {
	ID     int64
	ChatID int64
	Sender *Sender
	Text   string
}

// Notifier delivers a text to a chat, fire and forget. replyTo is the
// message to reference when non-zero; platforms without reply semantics
// may ignore it. Failures are logged by the engine and never propagated.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string, replyTo int64) error
}

// Policy is the immutable moderation configuration the engine runs with.
type Policy struct {
	SpamThreshold       int
	ReputationThreshold uint32
	EchoHam             bool
	Mention             string
	NotifyChatID        int64
	MaxClassifyChars    int
}

// Hub bundles the shared moderation state. Platform clients subscribe
// to it and get an Engine bound to their own notifier, so a warning
// always goes back through the platform the message came from.
type Hub struct {
	Classifier models.Interface
	Allowlist  *allowlist.Store
	Reputation *Reputation
	Audit      storage.Interface
	Policy     Policy
}

func (h *Hub) NewEngine(notifier Notifier) *Engine {
	return &Engine{
		classifier: h.Classifier,
		allowlist:  h.Allowlist,
		reputation: h.Reputation,
		audit:      h.Audit,
		notifier:   notifier,
		policy:     h.Policy,
	}
}

// Engine runs the per-message moderation decision. It is memoryless
// across messages except through the allowlist and reputation stores,
// both of which are safe for concurrent callers, so one engine may
// handle many messages at once.
type Engine struct {
	classifier models.Interface
	allowlist  *allowlist.Store
	reputation *Reputation
	audit      storage.Interface
	notifier   Notifier
	policy     Policy
}

// HandleMessage walks one message through the admission pipeline:
// blank text, missing sender and bot senders are dropped, allowlisted
// users bypass the classifier, then the spam score decides between a
// warning and a reputation bump that may promote the user onto the
// allowlist. An unavailable classifier fails open: the message passes
// with no mutation and no notification.
func (e *Engine) HandleMessage(ctx context.Context, msg Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	if msg.Sender == nil {
		return nil
	}
	if msg.Sender.IsBot {
		return nil
	}

	userID := msg.Sender.ID
	if e.allowlist.Contains(userID) {
		log.Printf("✅ User %d is allowlisted, skipping classification", userID)
		return nil
	}

	verdict, err := e.classifier.CheckSpam(ctx, utils.TruncateRunes(text, e.policy.MaxClassifyChars))
	if err != nil {
		// Fail open: the chat stays usable when the classifier does not.
		log.Printf("⚠️ Spam check unavailable for message %d: %v", msg.ID, err)
		return nil
	}
	log.Printf("🔎 Spam score for user %d: %d%%, notes: %s", userID, verdict.SpamScore, verdict.Notes)

	if verdict.SpamScore >= e.policy.SpamThreshold {
		e.recordVerdict(ctx, msg, verdict, storage.ActionWarned)

		mention := ""
		if e.policy.Mention != "" {
			mention = "@" + strings.TrimPrefix(e.policy.Mention, "@") + " "
		}
		warning := fmt.Sprintf("%sSPAM (%d%%). Reason: %s", mention, verdict.SpamScore, verdict.Notes)
		if err = e.notifier.Send(ctx, msg.ChatID, warning, msg.ID); err != nil {
			log.Printf("⚠️ Error sending spam warning to chat %d: %v", msg.ChatID, err)
		}
		return nil
	}

	count := e.reputation.Increment(userID)

	if e.policy.EchoHam {
		ack := fmt.Sprintf("Looks clean (%d/%d)", count, e.policy.ReputationThreshold)
		if err = e.notifier.Send(ctx, msg.ChatID, ack, msg.ID); err != nil {
			log.Printf("⚠️ Error echoing ham count to chat %d: %v", msg.ChatID, err)
		}
	}

	if count < e.policy.ReputationThreshold {
		e.recordVerdict(ctx, msg, verdict, storage.ActionCounted)
		return nil
	}

	added, err := e.allowlist.Add(userID)
	if err != nil {
		return fmt.Errorf("promote user %d: %w", userID, err)
	}
	if !added {
		e.recordVerdict(ctx, msg, verdict, storage.ActionCounted)
		return nil
	}
	e.recordVerdict(ctx, msg, verdict, storage.ActionPromoted)

	tag := fmt.Sprintf("id %d", userID)
	if msg.Sender.Username != "" {
		tag = "@" + msg.Sender.Username
	}
	target := msg.ChatID
	if e.policy.NotifyChatID != 0 {
		target = e.policy.NotifyChatID
	}
	notice := fmt.Sprintf("User %s added to the allowlist after %d clean messages", tag, e.policy.ReputationThreshold)
	if err = e.notifier.Send(ctx, target, notice, 0); err != nil {
		log.Printf("⚠️ Error sending promotion notice to chat %d: %v", target, err)
	}
	return nil
}

func (e *Engine) recordVerdict(ctx context.Context, msg Message, verdict *models.SpamVerdict, action string) {
	if e.audit == nil {
		return
	}
	v := storage.NewVerdict(uuid.NewString(), msg.ChatID, msg.Sender.ID, msg.ID,
		verdict.SpamScore, verdict.Notes, action)
	if err := e.audit.SaveVerdict(ctx, v); err != nil {
		log.Printf("⚠️ Error recording verdict for message %d: %v", msg.ID, err)
	}
}
