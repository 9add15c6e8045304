package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"GoSpamGuard/app/moderation"
	"GoSpamGuard/app/utils/restclient"
)

// pollBackoff is how long the loop waits after a failed getUpdates
// before fetching again.
const pollBackoff = 2 * time.Second

var _ Interface = &TelegramClient{}
var _ moderation.Notifier = &TelegramClient{}

// TelegramClient long-polls the Bot API for updates and doubles as the
// engine's notifier for chats on Telegram.
type TelegramClient struct {
	rest     *restclient.RestClient
	engine   *moderation.Engine
	offset   int64
	stop     chan struct{}
	stopOnce sync.Once
}

func NewTelegramClientFromConfig(cfg map[string]string) (*TelegramClient, error) {
	token := cfg["token"]
	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("telegram: missing bot token")
	}

	baseURL := cfg["base_url"]
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramClient{
		// 75s keeps the 60s long poll inside the client deadline.
		rest: restclient.NewRestClient(baseURL+"/bot"+token, nil, 75*time.Second),
		stop: make(chan struct{}),
	}, nil
}

func (c *TelegramClient) Subscribe(hub *moderation.Hub) {
	c.engine = hub.NewEngine(c)
	go c.pollLoop()
}

func (c *TelegramClient) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

type tgUser struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

type tgChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type tgMessage struct {
	MessageID int64   `json:"message_id"`
	From      *tgUser `json:"from"`
	Chat      tgChat  `json:"chat"`
	Text      string  `json:"text"`
}

type tgUpdate struct {
	UpdateID int64      `json:"update_id"`
	Message  *tgMessage `json:"message"`
}

type tgUpdatesResponse struct {
	OK     bool       `json:"ok"`
	Result []tgUpdate `json:"result"`
}

func (c *TelegramClient) pollLoop() {
	ctx := context.Background()

	if err := c.deleteWebhook(ctx); err != nil {
		log.Printf("⚠️ deleteWebhook error: %v", err)
	}
	if err := c.getMe(ctx); err != nil {
		log.Printf("⚠️ getMe error: %v", err)
	}
	log.Println("🤖 Telegram client started. Waiting for messages...")

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		updates, err := c.getUpdates(ctx, c.offset)
		if err != nil {
			log.Printf("⚠️ getUpdates error: %v. Retrying in %s...", err, pollBackoff)
			select {
			case <-c.stop:
				return
			case <-time.After(pollBackoff):
			}
			continue
		}

		// Messages within a batch are independent; the engine's stores
		// keep concurrent runs safe.
		var wg sync.WaitGroup
		for _, upd := range updates {
			c.offset = upd.UpdateID + 1
			if upd.Message == nil {
				continue
			}
			msg := normalizeTelegramMessage(upd.Message)
			wg.Add(1)
			go func(m moderation.Message) {
				defer wg.Done()
				if err := c.engine.HandleMessage(ctx, m); err != nil {
					log.Printf("❌ Handler error for message %d: %v", m.ID, err)
				}
			}(msg)
		}
		wg.Wait()
	}
}

func normalizeTelegramMessage(msg *tgMessage) moderation.Message {
	out := moderation.Message{
		ID:     msg.MessageID,
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		out.Sender = &moderation.Sender{
			ID:       msg.From.ID,
			IsBot:    msg.From.IsBot,
			Username: msg.From.Username,
		}
	}
	return out
}

func (c *TelegramClient) getUpdates(ctx context.Context, offset int64) ([]tgUpdate, error) {
	payload := map[string]any{
		"timeout":         60,
		"offset":          offset,
		"allowed_updates": []string{"message"},
	}
	response, status, err := c.rest.Post(ctx, "/getUpdates", payload, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("getUpdates HTTP %d: %s", status, string(response))
	}

	var parsed tgUpdatesResponse
	if err = json.Unmarshal(response, &parsed); err != nil {
		return nil, fmt.Errorf("getUpdates parse: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("getUpdates not ok: %s", string(response))
	}
	return parsed.Result, nil
}

// Send implements moderation.Notifier over the Bot API sendMessage call.
func (c *TelegramClient) Send(ctx context.Context, chatID int64, text string, replyTo int64) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if replyTo != 0 {
		payload["reply_to_message_id"] = replyTo
		payload["allow_sending_without_reply"] = true
	}
	response, status, err := c.rest.Post(ctx, "/sendMessage", payload, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("sendMessage HTTP %d: %s", status, string(response))
	}
	return nil
}

func (c *TelegramClient) deleteWebhook(ctx context.Context) error {
	_, _, err := c.rest.Post(ctx, "/deleteWebhook", map[string]any{"drop_pending_updates": false}, nil)
	return err
}

func (c *TelegramClient) getMe(ctx context.Context) error {
	response, status, err := c.rest.Get(ctx, "/getMe", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("getMe HTTP %d: %s", status, string(response))
	}

	var parsed struct {
		OK     bool `json:"ok"`
		Result struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"result"`
	}
	if err = json.Unmarshal(response, &parsed); err != nil {
		return fmt.Errorf("getMe parse: %w", err)
	}
	log.Printf("🤖 getMe: id=%d, username=%q", parsed.Result.ID, parsed.Result.Username)
	return nil
}
