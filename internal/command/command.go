// Package command decodes chat text into bot commands.
//
// Decoding walks an ordered table of patterns; the first pattern that
// matches decides the command. Text matching no pattern yields
// ErrUnrecognized, and a matching pattern with an invalid argument yields a
// *ValidationError. Nothing is partially accepted.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antonyforte/yuanshao-bot/internal/ledger"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// ErrUnrecognized is returned for text that matches no command
var ErrUnrecognized = errors.New("command not recognized")

// ValidationError reports a command whose arguments are out of range
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Command is one of the decoded command types below
type Command interface {
	isCommand()
}

// Start greets the user
type Start struct{}

// Register opens a registration dialogue
type Register struct{}

// ListRegistrants shows everyone registered (admin only)
type ListRegistrants struct{}

// Submit opens a mission submission dialogue
type Submit struct{}

// Missions broadcasts the current decree
type Missions struct{}

// ShowTeam renders a team's ledger
type ShowTeam struct {
	Team team.ID
}

// AdjustSoldiers adds or removes soldiers from a team (admin only)
type AdjustSoldiers struct {
	Op     ledger.Op
	Team   team.ID
	Amount int64
}

// AdjustNaipe moves one naipe counter of a team by one (admin only)
type AdjustNaipe struct {
	Op    ledger.Op
	Team  team.ID
	Naipe int
	Kind  ledger.Kind
}

func (Start) isCommand()           {}
func (Register) isCommand()        {}
func (ListRegistrants) isCommand() {}
func (Submit) isCommand()          {}
func (Missions) isCommand()        {}
func (ShowTeam) isCommand()        {}
func (AdjustSoldiers) isCommand()  {}
func (AdjustNaipe) isCommand()     {}

// Admin reports whether the command may only be issued from the admin channel
func Admin(c Command) bool {
	switch c.(type) {
	case ListRegistrants, AdjustSoldiers, AdjustNaipe:
		return true
	}
	return false
}

type rule struct {
	name   string
	re     *regexp.Regexp
	decode func(m []string) (Command, error)
}

const teamPattern = `(shu|wei|wu)`

var rules = []rule{
	{"start", exact("/start"), constant(Start{})},
	{"register", exact("/inscricao"), constant(Register{})},
	{"registrants", exact("/inscritos"), constant(ListRegistrants{})},
	{"submit", exact("/entregarmissao"), constant(Submit{})},
	{"missions", exact("/missoes"), constant(Missions{})},
	{"team", regexp.MustCompile(`^/` + teamPattern + `$`), decodeShowTeam},
	{
		"soldiers",
		regexp.MustCompile(`(?i)^/?(?:soldiers\s+(add|remove)|(add|remove)soldados)\s+` + teamPattern + `\s+(-?\d+)$`),
		decodeSoldiers,
	},
	{
		"naipe",
		regexp.MustCompile(`(?i)^/?(add|remove)\s+` + teamPattern + `\s+(\d{1,2})\s+(rock|paper|scissors|pedra|papel|tesoura)$`),
		decodeNaipe,
	},
}

func exact(s string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s) + `$`)
}

func constant(c Command) func([]string) (Command, error) {
	return func([]string) (Command, error) { return c, nil }
}

// Parse decodes a message text
func Parse(text string) (Command, error) {
	text = strings.TrimSpace(text)
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return r.decode(m)
		}
	}
	return nil, ErrUnrecognized
}

func decodeShowTeam(m []string) (Command, error) {
	t, err := team.Parse(m[1])
	if err != nil {
		return nil, &ValidationError{Field: "team", Message: err.Error()}
	}
	return ShowTeam{Team: t}, nil
}

func decodeSoldiers(m []string) (Command, error) {
	action := m[1]
	if action == "" {
		action = m[2]
	}
	op, err := ledger.ParseOp(action)
	if err != nil {
		return nil, &ValidationError{Field: "operation", Message: err.Error()}
	}
	t, err := team.Parse(m[3])
	if err != nil {
		return nil, &ValidationError{Field: "team", Message: err.Error()}
	}
	amount, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a valid integer", m[4])}
	}
	return AdjustSoldiers{Op: op, Team: t, Amount: amount}, nil
}

func decodeNaipe(m []string) (Command, error) {
	op, err := ledger.ParseOp(m[1])
	if err != nil {
		return nil, &ValidationError{Field: "operation", Message: err.Error()}
	}
	t, err := team.Parse(m[2])
	if err != nil {
		return nil, &ValidationError{Field: "team", Message: err.Error()}
	}
	index, err := strconv.Atoi(m[3])
	if err != nil || !ledger.ValidIndex(index) {
		return nil, &ValidationError{Field: "naipe", Message: fmt.Sprintf("must be between 1 and %d", ledger.NaipeCount)}
	}
	kind, err := ledger.ParseKind(m[4])
	if err != nil {
		return nil, &ValidationError{Field: "mission", Message: err.Error()}
	}
	return AdjustNaipe{Op: op, Team: t, Naipe: index, Kind: kind}, nil
}

// MenuEntry describes a command published in the chat client's menu
type MenuEntry struct {
	Name        string
	Description string
}

// Menu lists the commands users can pick from the chat menu
func Menu() []MenuEntry {
	return []MenuEntry{
		{Name: "inscricao", Description: "Jure lealdade e junte-se à minha nobre causa."},
		{Name: "missoes", Description: "Consulte meus decretos e missões atuais."},
		{Name: "entregarmissao", Description: "Apresente seus feitos para minha avaliação."},
	}
}
