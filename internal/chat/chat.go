package chat

import (
	"context"
	"fmt"
)

// UserID identifies the sender of a message
type UserID string

// ChatID identifies the chat a message was sent in or should be sent to
type ChatID string

// Kind tells private conversations apart from group channels
type Kind int

const (
	KindPrivate Kind = iota
	KindGroup
)

// User describes the sender of an inbound message
type User struct {
	ID          UserID
	DisplayName string
	Handle      string
}

// Photo is an opaque, transport-specific reference to an image attached to a message
type Photo struct {
	ID       string
	URL      string
	Filename string
}

// Message is a single inbound message, independent of the transport that delivered it
type Message struct {
	Chat     ChatID
	ChatKind Kind
	From     User
	Text     string
	Photos   []Photo
}

// IsPrivate reports whether the message arrived in a one-to-one conversation
func (m Message) IsPrivate() bool {
	return m.ChatKind == KindPrivate
}

// MenuCommand is an entry of the command menu shown by the chat client
type MenuCommand struct {
	Name        string
	Description string
}

// Sender delivers outbound messages
type Sender interface {
	SendText(ctx context.Context, chat ChatID, text string) error
	SendPhoto(ctx context.Context, chat ChatID, ref string) error
}

// PhotoResolver downloads an attached photo and returns a storage reference
// usable later with SendPhoto.
type PhotoResolver interface {
	ResolvePhoto(ctx context.Context, photo Photo, team string, user UserID) (string, error)
}

// Transport is the full chat platform contract consumed by the bot
type Transport interface {
	Sender
	PhotoResolver

	// Messages returns the stream of inbound messages. The channel is closed
	// when the transport shuts down.
	Messages() <-chan Message

	// RegisterMenu publishes the command menu
	RegisterMenu(ctx context.Context, commands []MenuCommand) error
}

// TransportError reports a failed send or download
type TransportError struct {
	Op   string
	Chat ChatID
	Err  error
}

func (e *TransportError) Error() string {
	if e.Chat == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s to %s: %v", e.Op, e.Chat, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
