package clients

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"GoSpamGuard/app/moderation"
)

var _ Interface = &DiscordClient{}
var _ moderation.Notifier = &DiscordClient{}

// DiscordClient feeds guild messages into the moderation engine. Snowflake
// IDs parse into int64, so Discord users and channels share the engine's
// numeric identifier space with Telegram.
type DiscordClient struct {
	session *discordgo.Session
	engine  *moderation.Engine
}

func NewDiscordClientFromConfig(cfg map[string]string) (*DiscordClient, error) {
	token := cfg["token"]
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("discord: missing bot token")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}

	dc := &DiscordClient{session: session}
	session.AddHandler(dc.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return dc, nil
}

func (c *DiscordClient) Subscribe(hub *moderation.Hub) {
	c.engine = hub.NewEngine(c)
	if err := c.session.Open(); err != nil {
		log.Printf("❌ Error opening Discord session: %v", err)
		return
	}
	log.Println("🤖 Discord client started. Listening for messages...")
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func (c *DiscordClient) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	msg, err := normalizeDiscordMessage(m)
	if err != nil {
		log.Printf("⚠️ Skipping Discord message %s: %v", m.ID, err)
		return
	}

	if err := c.engine.HandleMessage(context.Background(), msg); err != nil {
		log.Printf("❌ Handler error for Discord message %s: %v", m.ID, err)
	}
}

func normalizeDiscordMessage(m *discordgo.MessageCreate) (moderation.Message, error) {
	messageID, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return moderation.Message{}, fmt.Errorf("parse message id %q: %w", m.ID, err)
	}
	channelID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		return moderation.Message{}, fmt.Errorf("parse channel id %q: %w", m.ChannelID, err)
	}
	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return moderation.Message{}, fmt.Errorf("parse author id %q: %w", m.Author.ID, err)
	}

	return moderation.Message{
		ID:     messageID,
		ChatID: channelID,
		Sender: &moderation.Sender{
			ID:       userID,
			IsBot:    m.Author.Bot,
			Username: m.Author.Username,
		},
		Text: m.Content,
	}, nil
}

// Send implements moderation.Notifier on a Discord channel.
func (c *DiscordClient) Send(_ context.Context, chatID int64, text string, replyTo int64) error {
	channelID := strconv.FormatInt(chatID, 10)
	if replyTo != 0 {
		_, err := c.session.ChannelMessageSendReply(channelID, text, &discordgo.MessageReference{
			MessageID: strconv.FormatInt(replyTo, 10),
			ChannelID: channelID,
		})
		return err
	}
	_, err := c.session.ChannelMessageSend(channelID, text)
	return err
}
