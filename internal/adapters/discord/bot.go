// Package discord wires the orchestration engine to the Discord gateway.
// Message delivery and per-user rate limiting live here; session and
// launch semantics live in the application layer.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fulcrumlabs/fulcrumbot/internal/application"
)

const startCommand = "start"

type Options struct {
	Token         string
	ChannelID     string
	CommandPrefix string
	UserCooldown  time.Duration
	Dev           bool
	ChannelReport bool
}

type Bot struct {
	session   *discordgo.Session
	engine    *application.Engine
	logger    *slog.Logger
	limiter   *userLimiter
	opts      Options
	startedAt time.Time
}

func New(engine *application.Engine, logger *slog.Logger, opts Options) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CommandPrefix == "" {
		opts.CommandPrefix = "!"
	}

	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session:   session,
		engine:    engine,
		logger:    logger,
		limiter:   newUserLimiter(opts.UserCooldown),
		opts:      opts,
		startedAt: time.Now(),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)

	return b, nil
}

// Run opens the gateway connection and blocks until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.logger.Info("gateway connected")

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	elapsed := time.Since(b.startedAt)
	if !b.opts.Dev {
		return
	}

	msg := fmt.Sprintf("Bot is ready after %s", elapsed.Round(time.Millisecond))
	b.logger.Info(msg)
	if b.opts.ChannelReport && b.opts.ChannelID != "" {
		if _, err := s.ChannelMessageSend(b.opts.ChannelID, msg); err != nil {
			b.logger.Warn("ready report failed", "error", err)
		}
	}
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if b.opts.ChannelID != "" && m.ChannelID != b.opts.ChannelID {
		return
	}

	tokens, ok := b.parseStartCommand(m.Content)
	if !ok {
		return
	}

	now := time.Now()
	if !b.limiter.Allow(m.Author.ID, now) {
		b.reply(s, m, fmt.Sprintf("Easy there %s, one request per %s.", m.Author.Mention(), b.opts.UserCooldown))
		return
	}

	inv := application.Invocation{
		Requester: m.Author.Username,
		Mention:   m.Author.Mention(),
		Tokens:    tokens,
		IssuedAt:  m.Timestamp,
	}

	reply, err := b.engine.HandleStart(context.Background(), inv)
	if err != nil {
		// Unexpected fault: the engine already logged the details.
		b.reply(s, m, "Something went sideways on my end. Check the logs.")
		return
	}
	b.reply(s, m, reply)
}

// parseStartCommand matches "<prefix>start ..." and returns the tokens
// after the command word, split on whitespace.
func (b *Bot) parseStartCommand(content string) ([]string, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || fields[0] != b.opts.CommandPrefix+startCommand {
		return nil, false
	}
	return fields[1:], true
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		b.logger.Warn("reply delivery failed", "channel", m.ChannelID, "error", err)
	}
}
