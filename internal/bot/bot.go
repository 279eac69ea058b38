package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/command"
	"github.com/antonyforte/yuanshao-bot/internal/conversation"
	"github.com/antonyforte/yuanshao-bot/internal/storage"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// Options configures a Bot
type Options struct {
	// AdminChat is the only chat allowed to run admin commands
	AdminChat chat.ChatID
	// Teams maps teams to their own channels
	Teams *team.Registry
	// Workers bounds the number of messages handled at once
	Workers int
}

// Bot routes inbound messages to the conversation state machine or to command handlers
type Bot struct {
	transport  chat.Transport
	repo       *storage.Repository
	teams      *team.Registry
	admin      chat.ChatID
	states     *conversation.Store
	machine    *conversation.Machine
	dispatcher *Dispatcher

	// decreePause separates the two decree announcements
	decreePause time.Duration
}

// New creates a new Bot instance
func New(transport chat.Transport, repo *storage.Repository, opts Options) *Bot {
	teams := opts.Teams
	if teams == nil {
		teams = team.NewRegistry()
	}

	b := &Bot{
		transport:   transport,
		repo:        repo,
		teams:       teams,
		admin:       opts.AdminChat,
		states:      conversation.NewStore(),
		machine:     conversation.NewMachine(repo, transport, transport, opts.AdminChat),
		decreePause: time.Second,
	}
	b.dispatcher = NewDispatcher(opts.Workers, b.HandleMessage)

	return b
}

// Start prepares the team ledgers, publishes the command menu and starts
// consuming the transport's messages
func (b *Bot) Start(ctx context.Context) error {
	if err := b.repo.EnsureTeams(ctx, team.All()); err != nil {
		return fmt.Errorf("failed to initialize team ledgers: %w", err)
	}

	if err := b.registerMenu(ctx); err != nil {
		// The bot works without a menu
		slog.Error("Failed to register command menu", "error", err)
	}

	b.dispatcher.Start(ctx, b.transport.Messages())

	slog.Info("Bot is ready", "admin", b.admin)
	return nil
}

// Stop waits for in-flight messages to finish
func (b *Bot) Stop() {
	b.dispatcher.Stop()
}

func (b *Bot) registerMenu(ctx context.Context) error {
	entries := command.Menu()
	menu := make([]chat.MenuCommand, 0, len(entries))
	for _, e := range entries {
		menu = append(menu, chat.MenuCommand{Name: e.Name, Description: e.Description})
	}
	return b.transport.RegisterMenu(ctx, menu)
}

// HandleMessage processes one inbound message. The sender's conversation
// slot stays locked for the whole transition.
func (b *Bot) HandleMessage(ctx context.Context, msg chat.Message) {
	slog.Debug("Received message", "chat", msg.Chat, "user", msg.From.ID, "private", msg.IsPrivate())

	sess := b.states.Lock(msg.From.ID)
	defer sess.Unlock()

	if _, ok := sess.State(); ok {
		b.machine.Handle(ctx, sess, msg)
		return
	}

	if msg.Text == "" {
		return
	}
	b.handleCommand(ctx, sess, msg)
}

func (b *Bot) reply(ctx context.Context, c chat.ChatID, text string) {
	if err := b.transport.SendText(ctx, c, text); err != nil {
		slog.Error("Failed to send message", "chat", c, "error", err)
	}
}

func (b *Bot) isAdmin(c chat.ChatID) bool {
	return b.admin != "" && c == b.admin
}
