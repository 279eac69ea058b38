package discord

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
)

func TestConvertDirectMessage(t *testing.T) {
	m := &discordgo.Message{
		ChannelID: "dm-1",
		Content:   "/inscricao",
		Author:    &discordgo.User{ID: "42", Username: "liubei", GlobalName: "Liu Bei"},
	}

	msg, ok := convertMessage(m)
	if !ok {
		t.Fatal("expected message to be accepted")
	}
	if !msg.IsPrivate() {
		t.Error("a message without guild should be private")
	}
	want := chat.User{ID: "42", DisplayName: "Liu Bei", Handle: "liubei"}
	if msg.From != want || msg.Chat != "dm-1" || msg.Text != "/inscricao" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestConvertGuildMessageWithImages(t *testing.T) {
	m := &discordgo.Message{
		ChannelID: "chan",
		GuildID:   "guild",
		Author:    &discordgo.User{ID: "42", Username: "liubei"},
		Attachments: []*discordgo.MessageAttachment{
			{ID: "a1", URL: "https://cdn/a1.png", Filename: "a1.png", ContentType: "image/png"},
			{ID: "a2", URL: "https://cdn/notes.pdf", Filename: "notes.pdf", ContentType: "application/pdf"},
			{ID: "a3", URL: "https://cdn/a3.JPG", Filename: "a3.JPG"},
		},
	}

	msg, ok := convertMessage(m)
	if !ok {
		t.Fatal("expected message to be accepted")
	}
	if msg.IsPrivate() {
		t.Error("a guild message should be a group message")
	}
	if msg.From.DisplayName != "liubei" {
		t.Errorf("display name should fall back to username, got %q", msg.From.DisplayName)
	}
	if len(msg.Photos) != 2 || msg.Photos[0].ID != "a1" || msg.Photos[1].ID != "a3" {
		t.Errorf("photos = %+v", msg.Photos)
	}
}

func TestConvertDropsBotsAndEmptyMessages(t *testing.T) {
	cases := map[string]*discordgo.Message{
		"nil":    nil,
		"bot":    {Content: "hi", Author: &discordgo.User{ID: "1", Bot: true}},
		"author": {Content: "hi"},
		"empty":  {Author: &discordgo.User{ID: "1"}},
	}
	for name, m := range cases {
		if _, ok := convertMessage(m); ok {
			t.Errorf("%s: expected message to be dropped", name)
		}
	}
}

func TestConvertInteractionPrefersMember(t *testing.T) {
	i := &discordgo.Interaction{
		ChannelID: "chan",
		GuildID:   "guild",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "7", Username: "caocao"}},
	}

	msg, ok := convertInteraction(i, "/missoes")
	if !ok {
		t.Fatal("expected interaction to be accepted")
	}
	if msg.From.ID != "7" || msg.Text != "/missoes" || msg.IsPrivate() {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, ok := convertInteraction(&discordgo.Interaction{}, "/missoes"); ok {
		t.Error("interaction without a user should be dropped")
	}
}

func TestSplitText(t *testing.T) {
	if got := splitText("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short text = %q", got)
	}

	text := strings.Repeat("linha ☀\n", 50)
	parts := splitText(text, 100)
	if strings.Join(parts, "") != text {
		t.Fatal("parts do not reassemble the text")
	}
	for i, p := range parts {
		if n := utf8.RuneCountInString(p); n > 100 {
			t.Errorf("part %d has %d runes", i, n)
		}
		if i < len(parts)-1 && !strings.HasSuffix(p, "\n") {
			t.Errorf("part %d does not end at a line break", i)
		}
	}

	long := strings.Repeat("x", 250)
	parts = splitText(long, 100)
	if len(parts) != 3 || strings.Join(parts, "") != long {
		t.Errorf("unbroken text split into %d parts", len(parts))
	}
}
