package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/command"
	"github.com/antonyforte/yuanshao-bot/internal/conversation"
	"github.com/antonyforte/yuanshao-bot/internal/decree"
	"github.com/antonyforte/yuanshao-bot/internal/ledger"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// handleCommand handles a message from a user without an open conversation
func (b *Bot) handleCommand(ctx context.Context, sess *conversation.Session, msg chat.Message) {
	cmd, err := command.Parse(msg.Text)
	if err != nil {
		b.handleParseError(ctx, msg, err)
		return
	}

	if command.Admin(cmd) && !b.isAdmin(msg.Chat) {
		// Only the registrant listing explains itself; ledger commands
		// from other chats are ignored.
		if _, ok := cmd.(command.ListRegistrants); ok {
			b.reply(ctx, msg.Chat, replyAdminOnly)
		}
		return
	}

	slog.Debug("Received command", "command", fmt.Sprintf("%T", cmd), "chat", msg.Chat)

	switch c := cmd.(type) {
	case command.Start:
		b.reply(ctx, msg.Chat, replyWelcome)
	case command.Register:
		b.machine.BeginRegistration(ctx, sess, msg)
	case command.Submit:
		b.machine.BeginSubmission(ctx, sess, msg)
	case command.ListRegistrants:
		b.handleListRegistrants(ctx, msg)
	case command.Missions:
		b.handleMissions(ctx, msg)
	case command.ShowTeam:
		b.handleShowTeam(ctx, msg, c.Team)
	case command.AdjustSoldiers:
		b.handleAdjustSoldiers(ctx, msg, c)
	case command.AdjustNaipe:
		b.handleAdjustNaipe(ctx, msg, c)
	default:
		slog.Warn("Unhandled command", "command", fmt.Sprintf("%T", cmd))
	}
}

// handleParseError answers malformed text in the admin chat only
func (b *Bot) handleParseError(ctx context.Context, msg chat.Message, err error) {
	if !b.isAdmin(msg.Chat) {
		return
	}

	var verr *command.ValidationError
	switch {
	case errors.As(err, &verr) && verr.Field == "naipe":
		b.reply(ctx, msg.Chat, replyNaipeInvalid)
	case errors.As(err, &verr):
		b.reply(ctx, msg.Chat, fmt.Sprintf(replyAdminInvalid, verr.Message))
	default:
		b.reply(ctx, msg.Chat, replyAdminUnknown)
	}
}

// handleListRegistrants handles /inscritos
func (b *Bot) handleListRegistrants(ctx context.Context, msg chat.Message) {
	registrants, err := b.repo.Registrants(ctx)
	if err != nil {
		slog.Error("Failed to get registrants", "error", err)
		b.reply(ctx, msg.Chat, replyRegistrantsFailed)
		return
	}

	if len(registrants) == 0 {
		b.reply(ctx, msg.Chat, replyNoRegistrants)
		return
	}

	var sb strings.Builder
	sb.WriteString(replyRegistrantsHeader)
	for _, r := range registrants {
		sb.WriteString(fmt.Sprintf(replyRegistrantLine, r.ID, r.DisplayName, r.Handle))
	}

	b.reply(ctx, msg.Chat, sb.String())
}

// handleMissions handles /missoes
func (b *Bot) handleMissions(ctx context.Context, msg chat.Message) {
	text, err := b.repo.Decree(ctx)
	if err != nil {
		slog.Error("Failed to read decree", "error", err)
		b.reply(ctx, msg.Chat, replyDecreeFailed)
		return
	}
	if strings.TrimSpace(text) == "" {
		b.reply(ctx, msg.Chat, replyNoDecree)
		return
	}

	first, second := decree.Split(text)
	b.reply(ctx, msg.Chat, first)

	// Small delay to avoid rate limits
	select {
	case <-ctx.Done():
		return
	case <-time.After(b.decreePause):
	}
	b.reply(ctx, msg.Chat, second)
}

// handleShowTeam handles /shu, /wei and /wu
func (b *Bot) handleShowTeam(ctx context.Context, msg chat.Message, t team.ID) {
	if !b.isAdmin(msg.Chat) && !b.teams.Owns(t, msg.Chat) {
		b.reply(ctx, msg.Chat, replyTeamOrAdminOnly)
		return
	}

	l, err := b.repo.Ledger(ctx, t)
	if err != nil {
		slog.Error("Failed to read team ledger", "team", t, "error", err)
		b.reply(ctx, msg.Chat, fmt.Sprintf(replyLedgerReadFailed, t.Title(), err))
		return
	}

	// glyphs are cosmetic; a missing decree falls back to the defaults
	text, err := b.repo.PeekDecree(ctx)
	if err != nil {
		slog.Warn("Failed to read decree for team summary", "team", t, "error", err)
	}

	b.reply(ctx, msg.Chat, ledger.Render(t.Title(), l, decree.Parse(text)))
}

// handleAdjustSoldiers handles soldier adjustments from the admin chat
func (b *Bot) handleAdjustSoldiers(ctx context.Context, msg chat.Message, c command.AdjustSoldiers) {
	l, err := b.repo.UpdateLedger(ctx, c.Team, func(l *ledger.Ledger) error {
		_, err := l.AdjustSoldiers(c.Op, c.Amount)
		return err
	})
	switch {
	case errors.Is(err, ledger.ErrSoldiersOverflow):
		b.reply(ctx, msg.Chat, fmt.Sprintf(replySoldiersOverflow, c.Team.Title()))
		return
	case err != nil:
		slog.Error("Failed to update soldiers", "team", c.Team, "error", err)
		b.reply(ctx, msg.Chat, fmt.Sprintf(replyLedgerSaveFailed, c.Team))
		return
	}

	slog.Info("Soldiers updated", "team", c.Team, "op", c.Op, "amount", c.Amount, "total", l.Soldiers)
	b.reply(ctx, msg.Chat, fmt.Sprintf(replySoldiersUpdated, c.Team.Title(), l.Soldiers))
	b.notifyTeam(ctx, c.Team, fmt.Sprintf(replySoldiersTeamNotice, c.Team.Title(), l.Soldiers))
}

// handleAdjustNaipe handles naipe counter adjustments from the admin chat
func (b *Bot) handleAdjustNaipe(ctx context.Context, msg chat.Message, c command.AdjustNaipe) {
	var value uint32
	_, err := b.repo.UpdateLedger(ctx, c.Team, func(l *ledger.Ledger) error {
		v, err := l.BumpNaipe(c.Naipe, c.Kind, c.Op)
		value = v
		return err
	})

	var rangeErr *ledger.RangeError
	switch {
	case errors.As(err, &rangeErr):
		b.reply(ctx, msg.Chat, replyNaipeInvalid)
		return
	case err != nil:
		slog.Error("Failed to update naipe", "team", c.Team, "naipe", c.Naipe, "error", err)
		b.reply(ctx, msg.Chat, fmt.Sprintf(replyLedgerSaveFailed, c.Team))
		return
	}

	kind := strings.ToLower(c.Kind.Label())
	slog.Info("Naipe updated", "team", c.Team, "naipe", c.Naipe, "kind", c.Kind, "op", c.Op, "value", value)
	b.reply(ctx, msg.Chat, fmt.Sprintf(replyNaipeUpdated, kind, c.Naipe, c.Team.Title()))
	b.notifyTeam(ctx, c.Team, fmt.Sprintf(replyNaipeTeamNotice, c.Team.Title(), c.Naipe, strings.ToUpper(kind)))
}

// notifyTeam posts to the team's own channel; teams without one are skipped
func (b *Bot) notifyTeam(ctx context.Context, t team.ID, text string) {
	channel, ok := b.teams.Channel(t)
	if !ok {
		return
	}
	b.reply(ctx, channel, text)
}
