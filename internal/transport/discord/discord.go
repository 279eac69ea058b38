// Package discord implements the chat transport on top of a Discord bot session.
//
// Direct messages are private chats and guild channels are group chats.
// Menu commands are published as global slash commands; invoking one feeds
// the same text a user would have typed ("/name") into the message stream.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/media"
)

// maxMessageLength is the Discord limit for a message body
const maxMessageLength = 2000

// Transport adapts a discordgo session to chat.Transport
type Transport struct {
	session *discordgo.Session
	media   *media.Downloader

	in       chan chat.Message
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	closed   bool

	commands []*discordgo.ApplicationCommand
}

var _ chat.Transport = (*Transport)(nil)

// New creates a Discord transport. Attached images are stored through downloader.
func New(token string, downloader *media.Downloader) (*Transport, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	t := &Transport{
		session: session,
		media:   downloader,
		in:      make(chan chat.Message, 64),
		done:    make(chan struct{}),
	}

	session.AddHandler(t.handleMessage)
	session.AddHandler(t.handleInteraction)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	return t, nil
}

// Open connects to the Discord gateway
func (t *Transport) Open() error {
	if err := t.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	slog.Info("Connected to Discord", "user", t.session.State.User.Username)
	return nil
}

// Close removes the published menu, closes the message stream and disconnects
func (t *Transport) Close() error {
	var err error
	t.stopOnce.Do(func() {
		// unblocks handlers waiting to push before the stream is closed
		close(t.done)
		t.removeMenu()

		t.mu.Lock()
		t.closed = true
		close(t.in)
		t.mu.Unlock()

		err = t.session.Close()
	})
	return err
}

// Messages returns the inbound message stream
func (t *Transport) Messages() <-chan chat.Message {
	return t.in
}

func (t *Transport) push(msg chat.Message) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return
	}
	select {
	case t.in <- msg:
	case <-t.done:
	}
}

func (t *Transport) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	msg, ok := convertMessage(m.Message)
	if !ok {
		return
	}
	t.push(msg)
}

func (t *Transport) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received menu command", "command", data.Name, "guild", i.GuildID)

	text := "/" + data.Name
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
		},
	})
	if err != nil {
		slog.Error("Failed to acknowledge menu command", "command", data.Name, "error", err)
	}

	msg, ok := convertInteraction(i.Interaction, text)
	if !ok {
		return
	}
	t.push(msg)
}

// convertMessage maps a Discord message to a chat message. Messages from
// bots, including this one, are dropped.
func convertMessage(m *discordgo.Message) (chat.Message, bool) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return chat.Message{}, false
	}

	msg := chat.Message{
		Chat:     chat.ChatID(m.ChannelID),
		ChatKind: chatKind(m.GuildID),
		From:     convertUser(m.Author),
		Text:     m.Content,
	}
	for _, a := range m.Attachments {
		if !isImage(a) {
			continue
		}
		msg.Photos = append(msg.Photos, chat.Photo{ID: a.ID, URL: a.URL, Filename: a.Filename})
	}

	if msg.Text == "" && len(msg.Photos) == 0 {
		return chat.Message{}, false
	}
	return msg, true
}

func convertInteraction(i *discordgo.Interaction, text string) (chat.Message, bool) {
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil || user.Bot {
		return chat.Message{}, false
	}

	return chat.Message{
		Chat:     chat.ChatID(i.ChannelID),
		ChatKind: chatKind(i.GuildID),
		From:     convertUser(user),
		Text:     text,
	}, true
}

func convertUser(u *discordgo.User) chat.User {
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	return chat.User{
		ID:          chat.UserID(u.ID),
		DisplayName: name,
		Handle:      u.Username,
	}
}

func chatKind(guildID string) chat.Kind {
	if guildID == "" {
		return chat.KindPrivate
	}
	return chat.KindGroup
}

func isImage(a *discordgo.MessageAttachment) bool {
	if a == nil {
		return false
	}
	if a.ContentType != "" {
		return strings.HasPrefix(a.ContentType, "image/")
	}
	switch strings.ToLower(media.ExtFromName(a.Filename)) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}

// SendText posts text to a channel, split into as many messages as the
// Discord length limit requires
func (t *Transport) SendText(ctx context.Context, c chat.ChatID, text string) error {
	for _, part := range splitText(text, maxMessageLength) {
		if _, err := t.session.ChannelMessageSend(string(c), part, discordgo.WithContext(ctx)); err != nil {
			return &chat.TransportError{Op: "send message", Chat: c, Err: err}
		}
	}
	return nil
}

// SendPhoto uploads a stored image to a channel
func (t *Transport) SendPhoto(ctx context.Context, c chat.ChatID, ref string) error {
	f, err := t.media.Open(ref)
	if err != nil {
		return &chat.TransportError{Op: "open photo", Chat: c, Err: err}
	}
	defer f.Close()

	_, err = t.session.ChannelMessageSendComplex(string(c), &discordgo.MessageSend{
		Files: []*discordgo.File{{Name: path.Base(ref), Reader: f}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return &chat.TransportError{Op: "send photo", Chat: c, Err: err}
	}
	return nil
}

// ResolvePhoto downloads an attachment into the media directory
func (t *Transport) ResolvePhoto(ctx context.Context, p chat.Photo, team string, user chat.UserID) (string, error) {
	ext := media.ExtFromName(p.Filename)
	if ext == "" {
		ext = media.ExtFromName(p.URL)
	}
	ref, err := t.media.Save(ctx, p.URL, team, string(user), ext)
	if err != nil {
		return "", &chat.TransportError{Op: "download photo", Err: err}
	}
	return ref, nil
}

// RegisterMenu publishes the menu as global slash commands
func (t *Transport) RegisterMenu(ctx context.Context, menu []chat.MenuCommand) error {
	slog.Info("Registering slash commands")

	dm := true
	registered := make([]*discordgo.ApplicationCommand, 0, len(menu))
	for _, m := range menu {
		cmd, err := t.session.ApplicationCommandCreate(
			t.session.State.User.ID,
			"", // Empty string = global command
			&discordgo.ApplicationCommand{
				Name:         m.Name,
				Description:  m.Description,
				DMPermission: &dm,
			},
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", m.Name, err)
		}
		registered = append(registered, cmd)
		slog.Debug("Registered command", "name", m.Name)
	}

	t.mu.Lock()
	t.commands = registered
	t.mu.Unlock()

	slog.Info("Slash commands registered", "count", len(registered))
	return nil
}

func (t *Transport) removeMenu() {
	t.mu.RLock()
	commands := t.commands
	t.mu.RUnlock()

	for _, cmd := range commands {
		if err := t.session.ApplicationCommandDelete(t.session.State.User.ID, "", cmd.ID); err != nil {
			slog.Error("Failed to remove command", "name", cmd.Name, "error", err)
		}
	}
}

// splitText breaks text into chunks of at most limit runes, preferring line breaks
func splitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
