// Package conversation drives the multi-message dialogues of the bot:
// registration and mission submission.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/storage"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// FinalizeKeyword ends a submission dialogue
const FinalizeKeyword = "/entregar"

var affirmative = map[string]bool{"sim": true, "s": true, "ss": true}

// Records is the persistence the dialogues need
type Records interface {
	IsRegistered(ctx context.Context, handle string) (bool, error)
	Register(ctx context.Context, displayName, handle string) (storage.Registrant, error)
	AppendSubmission(ctx context.Context, s storage.Submission) error
}

// Machine applies inbound messages to a user's dialogue
type Machine struct {
	records Records
	sender  chat.Sender
	photos  chat.PhotoResolver
	admin   chat.ChatID

	newID func() string
	now   func() time.Time
}

// NewMachine creates a state machine reporting finished submissions to the admin chat
func NewMachine(records Records, sender chat.Sender, photos chat.PhotoResolver, admin chat.ChatID) *Machine {
	return &Machine{
		records: records,
		sender:  sender,
		photos:  photos,
		admin:   admin,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

func (m *Machine) reply(ctx context.Context, c chat.ChatID, text string) {
	if err := m.sender.SendText(ctx, c, text); err != nil {
		slog.Error("Failed to send message", "chat", c, "error", err)
	}
}

// BeginRegistration opens a registration dialogue for the sender of msg.
// It must be called with no state in sess.
func (m *Machine) BeginRegistration(ctx context.Context, sess *Session, msg chat.Message) {
	if !msg.IsPrivate() {
		m.reply(ctx, msg.Chat, replyRegisterGroupOnly)
		return
	}

	registered, err := m.records.IsRegistered(ctx, msg.From.Handle)
	if err != nil {
		slog.Error("Failed to read registrants", "user", msg.From.ID, "error", err)
		m.reply(ctx, msg.Chat, replyRegisterFailed)
		return
	}
	if registered {
		m.reply(ctx, msg.Chat, replyAlreadyRegistered)
		return
	}

	sess.Set(State{Step: AwaitingRegistrationConfirm})
	m.reply(ctx, msg.Chat, replyRegisterPrompt)
}

// BeginSubmission opens a mission submission dialogue for the sender of msg
func (m *Machine) BeginSubmission(ctx context.Context, sess *Session, msg chat.Message) {
	if !msg.IsPrivate() {
		m.reply(ctx, msg.Chat, replySubmitGroupOnly)
		return
	}

	sess.Set(State{Step: AwaitingTeamChoice, SubmissionID: m.newID()})
	m.reply(ctx, msg.Chat, replyTeamPrompt)
}

// Handle applies msg to the open dialogue in sess. Messages of users without
// an open dialogue are ignored.
func (m *Machine) Handle(ctx context.Context, sess *Session, msg chat.Message) {
	st, ok := sess.State()
	if !ok {
		return
	}

	slog.Debug("Conversation step", "user", sess.User(), "step", st.Step)

	switch st.Step {
	case AwaitingRegistrationConfirm:
		m.confirmRegistration(ctx, sess, msg)
	case AwaitingTeamChoice:
		m.chooseTeam(ctx, sess, st, msg)
	case AwaitingSubmissionItems:
		m.collect(ctx, sess, st, msg)
	default:
		slog.Warn("Dropping conversation in unknown step", "user", sess.User(), "step", st.Step)
		sess.Remove()
	}
}

// confirmRegistration ends the dialogue on any answer; only a failed write keeps it open
func (m *Machine) confirmRegistration(ctx context.Context, sess *Session, msg chat.Message) {
	answer := strings.ToLower(strings.TrimSpace(msg.Text))
	if !affirmative[answer] {
		sess.Remove()
		m.reply(ctx, msg.Chat, replyRegisterDeclined)
		return
	}

	reg, err := m.records.Register(ctx, msg.From.DisplayName, msg.From.Handle)
	switch {
	case errors.Is(err, storage.ErrAlreadyRegistered):
		sess.Remove()
		m.reply(ctx, msg.Chat, replyAlreadyRegistered)
	case err != nil:
		slog.Error("Failed to save registrant", "user", msg.From.ID, "error", err)
		m.reply(ctx, msg.Chat, replyRegisterFailed)
	default:
		slog.Info("New registrant", "id", reg.ID, "handle", reg.Handle)
		sess.Remove()
		m.reply(ctx, msg.Chat, replyRegistered)
	}
}

func (m *Machine) chooseTeam(ctx context.Context, sess *Session, st State, msg chat.Message) {
	t, err := team.Parse(msg.Text)
	if err != nil {
		m.reply(ctx, msg.Chat, replyTeamInvalid)
		return
	}

	st.Step = AwaitingSubmissionItems
	st.Team = t
	st.Items = nil
	sess.Set(st)
	m.reply(ctx, msg.Chat, replyItemsPrompt)
}

func (m *Machine) collect(ctx context.Context, sess *Session, st State, msg chat.Message) {
	if len(msg.Photos) > 0 {
		m.collectPhotos(ctx, sess, st, msg)
		return
	}

	switch text := msg.Text; {
	case strings.TrimSpace(text) == FinalizeKeyword:
		m.finalize(ctx, sess, st, msg)
	case text != "":
		st.Items = append(st.Items, TextItem(text))
		sess.Set(st)
		m.reply(ctx, msg.Chat, replyTextRecorded)
	}
}

// collectPhotos resolves every attached photo before touching the state, so a
// failed download leaves the dialogue as it was.
func (m *Machine) collectPhotos(ctx context.Context, sess *Session, st State, msg chat.Message) {
	refs := make([]string, 0, len(msg.Photos))
	for _, p := range msg.Photos {
		ref, err := m.photos.ResolvePhoto(ctx, p, string(st.Team), msg.From.ID)
		if err != nil {
			slog.Error("Failed to download image", "user", msg.From.ID, "photo", p.ID, "error", err)
			m.reply(ctx, msg.Chat, replyImageFailed)
			return
		}
		refs = append(refs, ref)
	}

	for _, ref := range refs {
		st.Items = append(st.Items, ImageItem(ref))
	}

	caption := strings.TrimSpace(msg.Text)
	if caption == FinalizeKeyword {
		// the images stay recorded if finalizing fails
		sess.Set(st)
		m.finalize(ctx, sess, st, msg)
		return
	}
	if caption != "" {
		st.Items = append(st.Items, TextItem(caption))
	}
	sess.Set(st)
	m.reply(ctx, msg.Chat, replyImageRecorded)
}

func (m *Machine) finalize(ctx context.Context, sess *Session, st State, msg chat.Message) {
	images, texts := st.Partition()
	id := st.SubmissionID
	if id == "" {
		id = m.newID()
	}

	sub := storage.Submission{
		ID:              id,
		SubmitterName:   msg.From.DisplayName,
		SubmitterHandle: msg.From.Handle,
		Team:            st.Team,
		Images:          images,
		Texts:           texts,
		SubmittedAt:     m.now().UTC(),
	}

	if err := m.records.AppendSubmission(ctx, sub); err != nil {
		slog.Error("Failed to save submission", "user", msg.From.ID, "team", st.Team, "error", err)
		m.reply(ctx, msg.Chat, replySubmissionFailed)
		return
	}

	slog.Info("Submission saved", "id", sub.ID, "team", sub.Team, "images", len(images), "texts", len(texts))
	m.forwardToAdmin(ctx, sub)
	m.reply(ctx, msg.Chat, replySubmissionSaved)
	sess.Remove()
}

// forwardToAdmin sends the submission summary and its images to the admin chat
func (m *Machine) forwardToAdmin(ctx context.Context, sub storage.Submission) {
	if m.admin == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(adminSubmissionHeader, sub.SubmitterName, sub.SubmitterHandle, sub.Team.Title()))
	if len(sub.Texts) > 0 {
		sb.WriteString(adminSubmissionTextTitle)
		for _, text := range sub.Texts {
			sb.WriteString(fmt.Sprintf("- %s\n", text))
		}
	}
	m.reply(ctx, m.admin, sb.String())

	for _, ref := range sub.Images {
		if err := m.sender.SendPhoto(ctx, m.admin, ref); err != nil {
			slog.Error("Failed to forward image to admin", "ref", ref, "error", err)
		}
	}
}
